package types

type Byte int64
