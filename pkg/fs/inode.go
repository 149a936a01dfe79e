package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/encode"
	. "github.com/weberc2/sfs/pkg/types"
)

// loadInode reads the inode table block holding `ino` and decodes its slot.
// Loading fails if the slot is invalid; callers writing a fresh inode
// construct one and call saveInode directly.
func (fs *FileSystem) loadInode(ino Ino, out *Inode) error {
	if ino >= fs.superblock.Inodes {
		return fmt.Errorf("loading inode `%d`: %w", ino, InvalidInodeErr)
	}

	var buf [BlockSize]byte
	if err := fs.disk.Read(fs.superblock.InodeTableBlock(ino), buf[:]); err != nil {
		return fmt.Errorf("loading inode `%d`: %w", ino, err)
	}

	offset := Byte(ino%InodesPerBlock) * InodeSize
	encode.DecodeInode(out, (*[InodeSize]byte)(buf[offset:offset+InodeSize]))
	if !out.Valid {
		return fmt.Errorf("loading inode `%d`: %w", ino, InvalidInodeErr)
	}
	return nil
}

// saveInode read-modify-writes the table block holding `ino`, overwriting
// that slot and preserving its neighbors.
func (fs *FileSystem) saveInode(ino Ino, in *Inode) error {
	if ino >= fs.superblock.Inodes {
		return fmt.Errorf("saving inode `%d`: %w", ino, InvalidInodeErr)
	}

	tableBlock := fs.superblock.InodeTableBlock(ino)
	var buf [BlockSize]byte
	if err := fs.disk.Read(tableBlock, buf[:]); err != nil {
		return fmt.Errorf("saving inode `%d`: %w", ino, err)
	}

	offset := Byte(ino%InodesPerBlock) * InodeSize
	encode.EncodeInode(in, (*[InodeSize]byte)(buf[offset:offset+InodeSize]))
	if err := fs.disk.Write(tableBlock, buf[:]); err != nil {
		return fmt.Errorf("saving inode `%d`: %w", ino, err)
	}
	return nil
}
