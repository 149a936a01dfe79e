// Package fs implements a minimal block filesystem inside a single
// fixed-size image: block 0 holds the superblock, the next tenth of the
// image holds the inode table, and the rest is the data region. Free blocks
// are tracked only in memory; the bitmap is rebuilt at mount time from the
// blocks reachable through valid inodes.
package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/disk"
	"github.com/weberc2/sfs/pkg/encode"
	. "github.com/weberc2/sfs/pkg/types"
)

const (
	NotMountedErr     ConstError = "filesystem is not mounted"
	AlreadyMountedErr ConstError = "filesystem already has a disk attached"
	MountedDiskErr    ConstError = "disk is mounted by this filesystem"
	InvalidInodeErr   ConstError = "invalid inode"
	OutOfInodesErr    ConstError = "out of free inodes"
)

// FileSystem owns the in-memory superblock copy and the free-block bitmap
// for the duration of a mount. The disk is borrowed: Unmount drops the
// reference without closing the device.
type FileSystem struct {
	disk       *disk.Disk
	superblock Superblock
	freeBlocks Bitmap
}

// Format prepares `d` as a fresh image: the inode table is zeroed (every
// slot becomes invalid) and a new superblock is written to block 0. The data
// region is left as-is; the bitmap is rebuilt from inode reachability at
// mount, so stale data blocks are harmless. A disk mounted by this
// filesystem cannot be formatted.
func (fs *FileSystem) Format(d *disk.Disk) error {
	if fs.disk != nil && fs.disk == d {
		return fmt.Errorf("formatting disk: %w", MountedDiskErr)
	}

	super := NewSuperblock(d.Blocks())

	var buf [BlockSize]byte
	for b := Block(1); b <= super.InodeBlocks; b++ {
		if err := d.Write(b, buf[:]); err != nil {
			return fmt.Errorf("formatting disk: clearing inode table: %w", err)
		}
	}

	encode.EncodeSuperblock(&super, (*[SuperblockSize]byte)(buf[:SuperblockSize]))
	if err := d.Write(0, buf[:]); err != nil {
		return fmt.Errorf("formatting disk: writing superblock: %w", err)
	}
	return nil
}

// Mount validates the superblock on `d`, attaches the disk, and rebuilds the
// free-block bitmap by walking every valid inode's pointers.
func (fs *FileSystem) Mount(d *disk.Disk) error {
	if fs.disk != nil {
		return fmt.Errorf("mounting disk: %w", AlreadyMountedErr)
	}

	var buf [BlockSize]byte
	if err := d.Read(0, buf[:]); err != nil {
		return fmt.Errorf("mounting disk: reading superblock: %w", err)
	}

	var super Superblock
	encode.DecodeSuperblock(&super, (*[SuperblockSize]byte)(buf[:SuperblockSize]))
	if err := super.Validate(); err != nil {
		return fmt.Errorf("mounting disk: %w", err)
	}

	fs.disk = d
	fs.superblock = super
	if err := fs.initializeFreeBlockBitmap(); err != nil {
		fs.disk = nil
		fs.freeBlocks = nil
		return fmt.Errorf("mounting disk: %w", err)
	}
	return nil
}

// Unmount detaches the disk and releases the bitmap. Unmounting a
// filesystem that was never mounted is a no-op.
func (fs *FileSystem) Unmount() {
	fs.disk = nil
	fs.freeBlocks = nil
}

func (fs *FileSystem) Superblock() Superblock { return fs.superblock }

func (fs *FileSystem) mounted() error {
	if fs.disk == nil {
		return NotMountedErr
	}
	return nil
}
