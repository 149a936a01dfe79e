package fs

import (
	"fmt"

	"github.com/weberc2/sfs/pkg/encode"
	. "github.com/weberc2/sfs/pkg/types"
)

// Create marks the first free inode slot valid and returns its number. No
// data blocks are allocated until the first write.
func (fs *FileSystem) Create() (Ino, error) {
	if err := fs.mounted(); err != nil {
		return 0, fmt.Errorf("creating inode: %w", err)
	}

	var buf [BlockSize]byte
	for tableBlock := Block(1); tableBlock <= fs.superblock.InodeBlocks; tableBlock++ {
		if err := fs.disk.Read(tableBlock, buf[:]); err != nil {
			return 0, fmt.Errorf("creating inode: %w", err)
		}

		for slot := Ino(0); slot < InodesPerBlock; slot++ {
			offset := Byte(slot) * InodeSize
			record := (*[InodeSize]byte)(buf[offset : offset+InodeSize])

			var inode Inode
			encode.DecodeInode(&inode, record)
			if inode.Valid {
				continue
			}

			inode = Inode{Valid: true}
			encode.EncodeInode(&inode, record)
			if err := fs.disk.Write(tableBlock, buf[:]); err != nil {
				return 0, fmt.Errorf("creating inode: %w", err)
			}
			return Ino(tableBlock-1)*InodesPerBlock + slot, nil
		}
	}

	return 0, fmt.Errorf("creating inode: %w", OutOfInodesErr)
}

// Remove releases every block reachable from the inode (direct pointers, the
// indirect index and its entries) and resets the slot to invalid. Released
// data blocks are not zeroed on disk; they are simply reusable.
func (fs *FileSystem) Remove(ino Ino) error {
	if err := fs.mounted(); err != nil {
		return fmt.Errorf("removing inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := fs.loadInode(ino, &inode); err != nil {
		return fmt.Errorf("removing inode `%d`: %w", ino, err)
	}

	for _, b := range inode.Direct {
		if b == BlockNil {
			break
		}
		fs.releaseFreeBlock(b)
	}

	if inode.Indirect != BlockNil {
		var buf [BlockSize]byte
		if err := fs.disk.Read(inode.Indirect, buf[:]); err != nil {
			return fmt.Errorf(
				"removing inode `%d`: reading indirect block `%d`: %w",
				ino,
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
			fs.releaseFreeBlock(b)
		}
		fs.releaseFreeBlock(inode.Indirect)
	}

	inode = Inode{}
	if err := fs.saveInode(ino, &inode); err != nil {
		return fmt.Errorf("removing inode `%d`: %w", ino, err)
	}
	return nil
}

// Stat returns the inode's size in bytes.
func (fs *FileSystem) Stat(ino Ino) (Byte, error) {
	if err := fs.mounted(); err != nil {
		return 0, fmt.Errorf("statting inode `%d`: %w", ino, err)
	}

	var inode Inode
	if err := fs.loadInode(ino, &inode); err != nil {
		return 0, fmt.Errorf("statting inode `%d`: %w", ino, err)
	}
	return inode.Size, nil
}
