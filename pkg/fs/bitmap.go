package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/encode"
	"github.com/weberc2/sfs/pkg/math"
	. "github.com/weberc2/sfs/pkg/types"
)

// Bitmap tracks one bit per disk block: high means in use, low means free
// for allocation. It lives only in memory; mount rebuilds it from the blocks
// reachable through valid inodes.
type Bitmap []byte

func NewBitmap(blocks Block) Bitmap {
	return make(Bitmap, math.DivRoundUp(blocks, 8))
}

func (bm Bitmap) InUse(b Block) bool {
	return bm[b/8]&(1<<(b%8)) != 0
}

func (bm Bitmap) Reserve(b Block) {
	bm[b/8] |= 1 << (b % 8)
}

func (bm Bitmap) Release(b Block) {
	bm[b/8] &= ^byte(1 << (b % 8))
}

// initializeFreeBlockBitmap marks the superblock and inode-table blocks in
// use, then walks every valid inode's direct pointers, its indirect block,
// and the pointers stored in the indirect block. Everything else in the data
// region is free.
func (fs *FileSystem) initializeFreeBlockBitmap() error {
	super := &fs.superblock
	bm := NewBitmap(super.Blocks)
	for b := Block(0); b < super.FirstDataBlock(); b++ {
		bm.Reserve(b)
	}

	var buf [BlockSize]byte
	for tableBlock := Block(1); tableBlock <= super.InodeBlocks; tableBlock++ {
		if err := fs.disk.Read(tableBlock, buf[:]); err != nil {
			return fmt.Errorf("initializing free block bitmap: %w", err)
		}

		for slot := Ino(0); slot < InodesPerBlock; slot++ {
			var inode Inode
			offset := Byte(slot) * InodeSize
			encode.DecodeInode(
				&inode,
				(*[InodeSize]byte)(buf[offset:offset+InodeSize]),
			)
			if !inode.Valid {
				continue
			}
			if err := fs.reserveInodeBlocks(bm, &inode); err != nil {
				return fmt.Errorf("initializing free block bitmap: %w", err)
			}
		}
	}

	fs.freeBlocks = bm
	return nil
}

func (fs *FileSystem) reserveInodeBlocks(bm Bitmap, inode *Inode) error {
	for _, b := range inode.Direct {
		if b == BlockNil {
			break
		}
		bm.Reserve(b)
	}

	if inode.Indirect == BlockNil {
		return nil
	}
	bm.Reserve(inode.Indirect)

	var buf [BlockSize]byte
	if err := fs.disk.Read(inode.Indirect, buf[:]); err != nil {
		return fmt.Errorf(
			"reserving blocks reachable from indirect block `%d`: %w",
			inode.Indirect,
			err,
		)
	}
	var pointers [PointersPerBlock]Block
	encode.DecodePointers(&pointers, &buf)
	for _, b := range pointers {
		if b == BlockNil {
			break
		}
		bm.Reserve(b)
	}
	return nil
}

// allocateFreeBlock scans the data region first-fit from its start and
// reserves the first free block. The scan base excludes block 0, so an
// allocated block number can never collide with the BlockNil sentinel.
func (fs *FileSystem) allocateFreeBlock() (Block, bool) {
	for b := fs.superblock.FirstDataBlock(); b < fs.superblock.Blocks; b++ {
		if !fs.freeBlocks.InUse(b) {
			fs.freeBlocks.Reserve(b)
			return b, true
		}
	}
	return BlockNil, false
}

func (fs *FileSystem) releaseFreeBlock(b Block) {
	// releasing a free block is always a programming error (a double free),
	// so let's not hide it
	if !fs.freeBlocks.InUse(b) {
		panic(fmt.Sprintf("releasing block `%d` which is already free", b))
	}
	fs.freeBlocks.Release(b)
}
