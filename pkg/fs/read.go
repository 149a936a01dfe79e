package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/encode"
	"github.com/weberc2/sfs/pkg/math"
	. "github.com/weberc2/sfs/pkg/types"
)

// indirectIndex caches the decoded indirect block for the duration of a
// single read or write pass so the index block is fetched at most once.
type indirectIndex struct {
	loaded   bool
	pointers [PointersPerBlock]Block
}

// blockAt resolves the inode-relative block index `i` to a physical block:
// the direct pointers first, then the entries of the indirect block.
// BlockNil means the inode has no block there.
func (fs *FileSystem) blockAt(
	inode *Inode,
	i Block,
	index *indirectIndex,
) (Block, error) {
	if i < PointersPerInode {
		return inode.Direct[i], nil
	}

	if inode.Indirect == BlockNil {
		return BlockNil, nil
	}

	j := i - PointersPerInode
	if j >= PointersPerBlock {
		return BlockNil, nil
	}

	if !index.loaded {
		var buf [BlockSize]byte
		if err := fs.disk.Read(inode.Indirect, buf[:]); err != nil {
			return BlockNil, fmt.Errorf(
				"resolving block `%d`: reading indirect block `%d`: %w",
				i,
				inode.Indirect,
				err,
			)
		}
		encode.DecodePointers(&index.pointers, &buf)
		index.loaded = true
	}

	return index.pointers[j], nil
}

// Read copies up to len(p) bytes starting at `offset` out of the inode's
// data blocks and returns the count actually copied. The count falls short
// of len(p) when the range runs past the end of the file or past the last
// allocated block.
func (fs *FileSystem) Read(ino Ino, p []byte, offset Byte) (Byte, error) {
	if err := fs.mounted(); err != nil {
		return 0, fmt.Errorf("reading from inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := fs.loadInode(ino, &inode); err != nil {
		return 0, fmt.Errorf("reading from inode `%d`: %w", ino, err)
	}

	maxLength := math.Min(Byte(len(p)), inode.Size-offset)

	var (
		index      indirectIndex
		buf        [BlockSize]byte
		chunkBegin Byte
	)
	for chunkBegin < maxLength {
		chunkBlock := Block((offset + chunkBegin) / BlockSize)
		chunkOffset := (offset + chunkBegin) % BlockSize
		chunkLength := math.Min(maxLength-chunkBegin, BlockSize-chunkOffset)

		b, err := fs.blockAt(&inode, chunkBlock, &index)
		if err != nil {
			return chunkBegin, fmt.Errorf(
				"reading from inode `%d` at offset `%d`: %w",
				ino,
				offset,
				err,
			)
		}
		if b == BlockNil {
			break
		}

		if err := fs.disk.Read(b, buf[:]); err != nil {
			return chunkBegin, fmt.Errorf(
				"reading from inode `%d` at offset `%d`: %w",
				ino,
				offset,
				err,
			)
		}
		copy(
			p[chunkBegin:chunkBegin+chunkLength],
			buf[chunkOffset:chunkOffset+chunkLength],
		)
		chunkBegin += chunkLength
	}

	return chunkBegin, nil
}
