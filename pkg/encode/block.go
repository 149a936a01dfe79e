package encode

import (
	. "github.com/weberc2/sfs/pkg/types"
)

// EncodePointers packs an indirect index: PointersPerBlock contiguous 32-bit
// block numbers filling exactly one block.
func EncodePointers(pointers *[PointersPerBlock]Block, b *[BlockSize]byte) {
	p := b[:]
	for i := Byte(0); i < Byte(PointersPerBlock); i++ {
		putBlock(p, i*BlockPointerSize, pointers[i])
	}
}

func DecodePointers(pointers *[PointersPerBlock]Block, b *[BlockSize]byte) {
	p := b[:]
	for i := Byte(0); i < Byte(PointersPerBlock); i++ {
		pointers[i] = getBlock(p, i*BlockPointerSize)
	}
}
