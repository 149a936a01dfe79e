package encode

import (
	. "github.com/weberc2/sfs/pkg/types"
)

func EncodeSuperblock(super *Superblock, b *[SuperblockSize]byte) {
	p := b[:]

	putU32(p, superMagicStart, super.Magic)
	putBlock(p, superBlocksStart, super.Blocks)
	putBlock(p, superInodeBlocksStart, super.InodeBlocks)
	putU32(p, superInodesStart, uint32(super.Inodes))
}

func DecodeSuperblock(super *Superblock, b *[SuperblockSize]byte) {
	p := b[:]

	super.Magic = getU32(p, superMagicStart)
	super.Blocks = getBlock(p, superBlocksStart)
	super.InodeBlocks = getBlock(p, superInodeBlocksStart)
	super.Inodes = Ino(getU32(p, superInodesStart))
}

const (
	superMagicStart = 0
	superMagicSize  = 4
	superMagicEnd   = superMagicStart + superMagicSize

	superBlocksStart = superMagicEnd
	superBlocksSize  = 4
	superBlocksEnd   = superBlocksStart + superBlocksSize

	superInodeBlocksStart = superBlocksEnd
	superInodeBlocksSize  = 4
	superInodeBlocksEnd   = superInodeBlocksStart + superInodeBlocksSize

	superInodesStart = superInodeBlocksEnd
	superInodesSize  = 4
	superInodesEnd   = superInodesStart + superInodesSize
)
