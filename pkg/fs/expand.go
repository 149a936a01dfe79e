package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/encode"
	"github.com/weberc2/sfs/pkg/math"
	. "github.com/weberc2/sfs/pkg/types"
)

// expand grows the inode's storage to back at least `newSize` bytes,
// allocating direct pointers first and then entries of the (possibly
// freshly allocated) indirect block. Growth is best-effort: when the data
// region fills up midway the inode keeps whatever was allocated and its
// size is set to exactly the bytes that are backed, so every allocated
// block stays reachable from the inode.
func (fs *FileSystem) expand(inode *Inode, newSize Byte) error {
	oldBlocks := inode.Blocks()
	newBlocks := Block(math.DivRoundUp(newSize, BlockSize))
	if newBlocks <= oldBlocks {
		inode.Size = math.Max(inode.Size, newSize)
		return nil
	}

	need := newBlocks - oldBlocks

	idx := oldBlocks
	for idx < PointersPerInode && need > 0 {
		b, ok := fs.allocateFreeBlock()
		if !ok {
			break
		}
		inode.Direct[idx] = b
		idx++
		need--
	}

	if need > 0 {
		remaining, err := fs.expandIndirect(inode, idx, need)
		if err != nil {
			return fmt.Errorf(
				"expanding inode to `%d` bytes: %w",
				newSize,
				err,
			)
		}
		need = remaining
	}

	if need == 0 {
		inode.Size = newSize
	} else {
		inode.Size = Byte(newBlocks-need) * BlockSize
	}
	return nil
}

// expandIndirect places up to `need` freshly allocated blocks into the
// inode's indirect index, starting at the slot following the blocks already
// in use. Returns how many blocks it could not place.
func (fs *FileSystem) expandIndirect(
	inode *Inode,
	idx Block,
	need Block,
) (Block, error) {
	var pointers [PointersPerBlock]Block
	wasNew := false

	if inode.Indirect == BlockNil {
		b, ok := fs.allocateFreeBlock()
		if !ok {
			return need, nil
		}
		inode.Indirect = b
		wasNew = true
		// a freshly allocated index block may hold stale data; the
		// zero-valued pointer array stands in for its contents
	} else {
		var buf [BlockSize]byte
		if err := fs.disk.Read(inode.Indirect, buf[:]); err != nil {
			return need, fmt.Errorf(
				"reading indirect block `%d`: %w",
				inode.Indirect,
				err,
			)
		}
		encode.DecodePointers(&pointers, &buf)
	}

	j := Block(0)
	if idx > PointersPerInode {
		j = idx - PointersPerInode
	}

	placed := false
	for j < PointersPerBlock && need > 0 {
		b, ok := fs.allocateFreeBlock()
		if !ok {
			break
		}
		pointers[j] = b
		j++
		need--
		placed = true
	}

	if wasNew && !placed {
		// nothing made it into the fresh index block; hand it back rather
		// than leave an empty index allocated
		fs.releaseFreeBlock(inode.Indirect)
		inode.Indirect = BlockNil
		return need, nil
	}

	var buf [BlockSize]byte
	encode.EncodePointers(&pointers, &buf)
	if err := fs.disk.Write(inode.Indirect, buf[:]); err != nil {
		return need, fmt.Errorf(
			"writing indirect block `%d`: %w",
			inode.Indirect,
			err,
		)
	}
	return need, nil
}
