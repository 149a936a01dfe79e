package disk

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	. "github.com/weberc2/sfs/pkg/types"
)

func TestOpenSizesImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "disk.img")
	d, err := Open(path, 10)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	defer d.Close()

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("os.Stat(): unexpected err: %v", err)
	}
	assert.Equal(t, int64(Byte(10)*BlockSize), info.Size(), "image size")
	assert.Equal(t, Block(10), d.Blocks(), "block count")
}

func TestReadWriteRoundTrip(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "disk.img"), 10)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}
	defer d.Close()

	input := bytes.Repeat([]byte{0x5a}, int(BlockSize))
	assert.NoError(t, d.Write(3, input), "writing block")

	output := make([]byte, BlockSize)
	assert.NoError(t, d.Read(3, output), "reading block")
	assert.Equal(t, input, output, "block content")

	assert.Equal(t, uint64(1), d.Reads(), "read counter")
	assert.Equal(t, uint64(1), d.Writes(), "write counter")
}

func TestSanityChecks(t *testing.T) {
	d, err := Open(filepath.Join(t.TempDir(), "disk.img"), 10)
	if err != nil {
		t.Fatalf("Open(): unexpected err: %v", err)
	}

	buf := make([]byte, BlockSize)
	assert.ErrorIs(t, d.Read(10, buf), OutOfRangeErr, "block out of range")
	assert.ErrorIs(t, d.Write(10, buf), OutOfRangeErr, "block out of range")
	assert.ErrorIs(t, d.Read(0, nil), BadBufferErr, "nil buffer")
	assert.ErrorIs(
		t,
		d.Write(0, make([]byte, 1)),
		BadBufferErr,
		"short buffer",
	)

	// failed operations don't bump the counters
	assert.Equal(t, uint64(0), d.Reads(), "read counter")
	assert.Equal(t, uint64(0), d.Writes(), "write counter")

	assert.NoError(t, d.Close(), "closing disk")
	assert.ErrorIs(t, d.Read(0, buf), ClosedErr, "read after close")
	assert.NoError(t, d.Close(), "double close is a no-op")
}
