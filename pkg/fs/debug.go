package fs

import (
	"fmt"
	"io"

	"github.com/weberc2/sfs/pkg/disk"
	"github.com/weberc2/sfs/pkg/encode"
	. "github.com/weberc2/sfs/pkg/types"
)

// Debug dumps the superblock and every valid inode on `d` to `w`. It works
// directly against the disk, mounted or not.
func Debug(d *disk.Disk, w io.Writer) error {
	var buf [BlockSize]byte
	if err := d.Read(0, buf[:]); err != nil {
		return fmt.Errorf("dumping filesystem: reading superblock: %w", err)
	}

	var super Superblock
	encode.DecodeSuperblock(&super, (*[SuperblockSize]byte)(buf[:SuperblockSize]))

	magic := "invalid"
	if super.Magic == MagicNumber {
		magic = "valid"
	}
	fmt.Fprintf(w, "SuperBlock:\n")
	fmt.Fprintf(w, "    magic number is %s\n", magic)
	fmt.Fprintf(w, "    %d blocks\n", super.Blocks)
	fmt.Fprintf(w, "    %d inode blocks\n", super.InodeBlocks)
	fmt.Fprintf(w, "    %d inodes\n", super.Inodes)

	for tableBlock := Block(1); tableBlock <= super.InodeBlocks; tableBlock++ {
		if err := d.Read(tableBlock, buf[:]); err != nil {
			return fmt.Errorf(
				"dumping filesystem: reading inode block `%d`: %w",
				tableBlock,
				err,
			)
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

			ino := Ino(tableBlock-1)*InodesPerBlock + slot
			if err := debugInode(d, w, ino, &inode); err != nil {
				return fmt.Errorf("dumping filesystem: %w", err)
			}
		}
	}
	return nil
}

func debugInode(d *disk.Disk, w io.Writer, ino Ino, inode *Inode) error {
	fmt.Fprintf(w, "Inode %d:\n", ino)
	fmt.Fprintf(w, "    size: %d bytes\n", inode.Size)

	fmt.Fprintf(w, "    direct blocks:")
	for _, b := range inode.Direct {
		if b == BlockNil {
			break
		}
		fmt.Fprintf(w, " %d", b)
	}
	fmt.Fprintf(w, "\n")

	if inode.Indirect == BlockNil {
		return nil
	}
	fmt.Fprintf(w, "    indirect block: %d\n", inode.Indirect)

	var buf [BlockSize]byte
	if err := d.Read(inode.Indirect, buf[:]); err != nil {
		return fmt.Errorf(
			"reading indirect block `%d` of inode `%d`: %w",
			inode.Indirect,
			ino,
			err,
		)
	}
	var pointers [PointersPerBlock]Block
	encode.DecodePointers(&pointers, &buf)

	fmt.Fprintf(w, "    indirect data blocks:")
	for _, b := range pointers {
		if b == BlockNil {
			break
		}
		fmt.Fprintf(w, " %d", b)
	}
	fmt.Fprintf(w, "\n")
	return nil
}
