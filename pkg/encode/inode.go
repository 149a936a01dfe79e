package encode

import (
	. "github.com/weberc2/sfs/pkg/types"
)

// EncodeInode packs an inode into its 32-byte on-disk record: valid flag,
// size, the direct pointers, and the indirect pointer, all unsigned 32-bit
// little-endian.
func EncodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]

	var valid uint32
	if inode.Valid {
		valid = 1
	}
	putU32(p, inodeValidStart, valid)
	putBytePointer(p, inodeSizeStart, inode.Size)

	for i := Byte(0); i < Byte(PointersPerInode); i++ {
		putBlock(p, inodeDirectStart+i*BlockPointerSize, inode.Direct[i])
	}

	putBlock(p, inodeIndirectStart, inode.Indirect)
}

func DecodeInode(inode *Inode, b *[InodeSize]byte) {
	p := b[:]

	inode.Valid = getU32(p, inodeValidStart) != 0
	inode.Size = getBytePointer(p, inodeSizeStart)

	for i := Byte(0); i < Byte(PointersPerInode); i++ {
		inode.Direct[i] = getBlock(p, inodeDirectStart+i*BlockPointerSize)
	}

	inode.Indirect = getBlock(p, inodeIndirectStart)
}

const (
	inodeValidStart = 0
	inodeValidSize  = 4
	inodeValidEnd   = inodeValidStart + inodeValidSize

	inodeSizeStart = inodeValidEnd
	inodeSizeSize  = 4
	inodeSizeEnd   = inodeSizeStart + inodeSizeSize

	inodeDirectStart = inodeSizeEnd
	inodeDirectSize  = Byte(PointersPerInode) * BlockPointerSize
	inodeDirectEnd   = inodeDirectStart + inodeDirectSize

	inodeIndirectStart = inodeDirectEnd
	inodeIndirectSize  = BlockPointerSize
	inodeIndirectEnd   = inodeIndirectStart + inodeIndirectSize
)
