// Package disk emulates a block device on top of a fixed-size image file.
// Reads and writes move exactly one block at a time and cumulative operation
// counts are tracked for the lifetime of the device.
package disk

import (
	"fmt"
	"log"
	"os"

	. "github.com/weberc2/sfs/pkg/types"
)

const (
	ClosedErr     ConstError = "disk is not open"
	OutOfRangeErr ConstError = "block number out of range"
	BadBufferErr  ConstError = "buffer must be exactly one block"
)

type Disk struct {
	file   *os.File
	blocks Block
	reads  uint64
	writes uint64
}

// Open opens (creating if necessary) the image at `path` and sizes it to
// `blocks` blocks.
func Open(path string, blocks Block) (*Disk, error) {
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening disk image `%s`: %w", path, err)
	}

	if err := file.Truncate(int64(Byte(blocks) * BlockSize)); err != nil {
		file.Close()
		return nil, fmt.Errorf(
			"sizing disk image `%s` to `%d` blocks: %w",
			path,
			blocks,
			err,
		)
	}

	return &Disk{file: file, blocks: blocks}, nil
}

func (d *Disk) Blocks() Block { return d.blocks }

func (d *Disk) Reads() uint64 { return d.reads }

func (d *Disk) Writes() uint64 { return d.writes }

// Read copies block `block` into `buf`, which must hold exactly one block.
func (d *Disk) Read(block Block, buf []byte) error {
	if err := d.sanityCheck(block, buf); err != nil {
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}
	d.reads++
	if _, err := d.file.ReadAt(buf, int64(Byte(block)*BlockSize)); err != nil {
		return fmt.Errorf("reading block `%d`: %w", block, err)
	}
	return nil
}

// Write copies `buf`, which must hold exactly one block, into block `block`.
func (d *Disk) Write(block Block, buf []byte) error {
	if err := d.sanityCheck(block, buf); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	d.writes++
	if _, err := d.file.WriteAt(buf, int64(Byte(block)*BlockSize)); err != nil {
		return fmt.Errorf("writing block `%d`: %w", block, err)
	}
	return nil
}

// Close closes the backing file and reports the cumulative operation counts.
func (d *Disk) Close() error {
	if d.file == nil {
		return nil
	}
	log.Printf("disk reads: %d", d.reads)
	log.Printf("disk writes: %d", d.writes)
	err := d.file.Close()
	d.file = nil
	if err != nil {
		return fmt.Errorf("closing disk image: %w", err)
	}
	return nil
}

func (d *Disk) sanityCheck(block Block, buf []byte) error {
	if d == nil || d.file == nil {
		return ClosedErr
	}
	if block >= d.blocks {
		return OutOfRangeErr
	}
	if buf == nil || Byte(len(buf)) != BlockSize {
		return BadBufferErr
	}
	return nil
}
