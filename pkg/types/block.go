package types

type Block uint32

const (
	BlockSize        Byte  = 4096
	BlockPointerSize Byte  = 4
	PointersPerBlock Block = Block(BlockSize / BlockPointerSize)

	BlockNil Block = 0
)
