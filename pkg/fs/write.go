package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/math"
	. "github.com/weberc2/sfs/pkg/types"
)

// Write copies len(p) bytes into the inode's data blocks starting at
// `offset`, growing the file first. Each target block is read, overlaid, and
// written back; the enlarged inode is saved last. The returned count falls
// short of len(p) only when growth could not allocate the full range.
func (fs *FileSystem) Write(ino Ino, p []byte, offset Byte) (Byte, error) {
	if err := fs.mounted(); err != nil {
		return 0, fmt.Errorf("writing to inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := fs.loadInode(ino, &inode); err != nil {
		return 0, fmt.Errorf("writing to inode `%d`: %w", ino, err)
	}

	if err := fs.expand(&inode, offset+Byte(len(p))); err != nil {
		return 0, fmt.Errorf("writing to inode `%d`: %w", ino, err)
	}

	var (
		index      indirectIndex
		buf        [BlockSize]byte
		chunkBegin Byte
	)
	for chunkBegin < Byte(len(p)) {
		chunkBlock := Block((offset + chunkBegin) / BlockSize)
		chunkOffset := (offset + chunkBegin) % BlockSize
		chunkLength := math.Min(Byte(len(p))-chunkBegin, BlockSize-chunkOffset)

		b, err := fs.blockAt(&inode, chunkBlock, &index)
		if err != nil {
			return chunkBegin, fmt.Errorf(
				"writing to inode `%d` at offset `%d`: %w",
				ino,
				offset,
				err,
			)
		}
		if b == BlockNil {
			// growth fell short of the requested range; stop at the last
			// allocated block
			break
		}

		if err := fs.disk.Read(b, buf[:]); err != nil {
			return chunkBegin, fmt.Errorf(
				"writing to inode `%d` at offset `%d`: %w",
				ino,
				offset,
				err,
			)
		}
		copy(
			buf[chunkOffset:chunkOffset+chunkLength],
			p[chunkBegin:chunkBegin+chunkLength],
		)
		if err := fs.disk.Write(b, buf[:]); err != nil {
			return chunkBegin, fmt.Errorf(
				"writing to inode `%d` at offset `%d`: %w",
				ino,
				offset,
				err,
			)
		}

		chunkBegin += chunkLength
	}

	if err := fs.saveInode(ino, &inode); err != nil {
		return chunkBegin, fmt.Errorf("writing to inode `%d`: %w", ino, err)
	}
	return chunkBegin, nil
}
