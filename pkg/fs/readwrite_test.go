package fs

import (
	"bytes"
	"testing"

	. "github.com/weberc2/sfs/pkg/types"
)

func TestWriteReadRoundTrip(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	ino, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}

	input := []byte("hello")
	n, err := fileSystem.Write(ino, input, 0)
	if err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}
	if n != Byte(len(input)) {
		t.Fatalf("Write(): wanted `%d` bytes; found `%d`", len(input), n)
	}

	size, err := fileSystem.Stat(ino)
	if err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}
	if size != Byte(len(input)) {
		t.Fatalf("Stat(): wanted `%d`; found `%d`", len(input), size)
	}

	output := make([]byte, len(input))
	n, err = fileSystem.Read(ino, output, 0)
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if n != Byte(len(input)) {
		t.Fatalf("Read(): wanted `%d` bytes; found `%d`", len(input), n)
	}
	if !bytes.Equal(input, output) {
		t.Fatalf("Read(): wanted `%q`; found `%q`", input, output)
	}
}

func TestWriteReadSpanningIndirect(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	ino, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}

	// seven blocks plus a tail: five direct blocks, two and a bit through
	// the indirect index
	input := make([]byte, 7*BlockSize+123)
	for i := range input {
		input[i] = byte(i % 251)
	}

	n, err := fileSystem.Write(ino, input, 0)
	if err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}
	if n != Byte(len(input)) {
		t.Fatalf("Write(): wanted `%d` bytes; found `%d`", len(input), n)
	}

	output := make([]byte, len(input))
	n, err = fileSystem.Read(ino, output, 0)
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if n != Byte(len(input)) {
		t.Fatalf("Read(): wanted `%d` bytes; found `%d`", len(input), n)
	}
	if !bytes.Equal(input, output) {
		t.Fatal("Read(): output does not match input")
	}
}

func TestDirectIndirectBoundary(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	ino, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}

	// one byte at the first indirect slot
	offset := Byte(PointersPerInode) * BlockSize
	n, err := fileSystem.Write(ino, []byte{0x42}, offset)
	if err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}
	if n != 1 {
		t.Fatalf("Write(): wanted `1` byte; found `%d`", n)
	}

	size, err := fileSystem.Stat(ino)
	if err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}
	if size != offset+1 {
		t.Fatalf("Stat(): wanted `%d`; found `%d`", offset+1, size)
	}

	output := make([]byte, 1)
	n, err = fileSystem.Read(ino, output, offset)
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if n != 1 || output[0] != 0x42 {
		t.Fatalf("Read(): wanted 1 byte `0x42`; found `%d` bytes `%#x`", n, output)
	}

	// five direct data blocks, the indirect index block, and one indirect
	// data block
	if used := usedDataBlocks(fileSystem); used != 7 {
		t.Fatalf("wanted `7` used data blocks; found `%d`", used)
	}
}

func TestOverwriteIdempotent(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	ino, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}

	if _, err := fileSystem.Write(ino, []byte("hello, world"), 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}
	sizeBefore, err := fileSystem.Stat(ino)
	if err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}
	usedBefore := usedDataBlocks(fileSystem)

	if _, err := fileSystem.Write(ino, []byte("HELLO"), 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	sizeAfter, err := fileSystem.Stat(ino)
	if err != nil {
		t.Fatalf("Stat(): unexpected err: %v", err)
	}
	if sizeAfter != sizeBefore {
		t.Fatalf(
			"overwrite changed size from `%d` to `%d`",
			sizeBefore,
			sizeAfter,
		)
	}
	if usedAfter := usedDataBlocks(fileSystem); usedAfter != usedBefore {
		t.Fatalf(
			"overwrite changed used blocks from `%d` to `%d`",
			usedBefore,
			usedAfter,
		)
	}

	output := make([]byte, sizeAfter)
	if _, err := fileSystem.Read(ino, output, 0); err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if !bytes.Equal(output, []byte("HELLO, world")) {
		t.Fatalf("Read(): wanted `HELLO, world`; found `%q`", output)
	}
}

func TestReadClampsToSize(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	ino, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	if _, err := fileSystem.Write(ino, []byte("hello"), 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	output := make([]byte, 100)
	n, err := fileSystem.Read(ino, output, 0)
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if n != 5 {
		t.Fatalf("Read(): wanted `5` bytes; found `%d`", n)
	}

	// reading past the end yields nothing
	n, err = fileSystem.Read(ino, output, 5)
	if err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if n != 0 {
		t.Fatalf("Read(): wanted `0` bytes past EOF; found `%d`", n)
	}
}

func TestReadWriteInvalidInode(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	if _, err := fileSystem.Read(0, make([]byte, 1), 0); err == nil {
		t.Fatal("Read(): wanted err for invalid inode; found nil")
	}
	if _, err := fileSystem.Write(0, []byte("x"), 0); err == nil {
		t.Fatal("Write(): wanted err for invalid inode; found nil")
	}
}

func TestDistinctInodesUseDisjointBlocks(t *testing.T) {
	fileSystem, _ := newTestFS(t, 100)

	a, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	b, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}

	if _, err := fileSystem.Write(a, bytes.Repeat([]byte("a"), int(2*BlockSize)), 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}
	if _, err := fileSystem.Write(b, bytes.Repeat([]byte("b"), int(2*BlockSize)), 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	var inodeA, inodeB Inode
	if err := fileSystem.loadInode(a, &inodeA); err != nil {
		t.Fatalf("loadInode(): unexpected err: %v", err)
	}
	if err := fileSystem.loadInode(b, &inodeB); err != nil {
		t.Fatalf("loadInode(): unexpected err: %v", err)
	}
	for _, blockA := range inodeA.Direct {
		for _, blockB := range inodeB.Direct {
			if blockA != BlockNil && blockA == blockB {
				t.Fatalf("inodes share block `%d`", blockA)
			}
		}
	}

	// and each inode reads back its own content
	output := make([]byte, 2*BlockSize)
	if _, err := fileSystem.Read(a, output, 0); err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if output[0] != 'a' || output[len(output)-1] != 'a' {
		t.Fatal("inode `a` content clobbered")
	}
	if _, err := fileSystem.Read(b, output, 0); err != nil {
		t.Fatalf("Read(): unexpected err: %v", err)
	}
	if output[0] != 'b' || output[len(output)-1] != 'b' {
		t.Fatal("inode `b` content clobbered")
	}
}

func TestPersistenceAcrossMountCycle(t *testing.T) {
	fileSystem, d := newTestFS(t, 100)

	small, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	if _, err := fileSystem.Write(small, []byte("persist me"), 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	big, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	bigInput := bytes.Repeat([]byte{0xab}, int(6*BlockSize))
	if _, err := fileSystem.Write(big, bigInput, 0); err != nil {
		t.Fatalf("Write(): unexpected err: %v", err)
	}

	removed, err := fileSystem.Create()
	if err != nil {
		t.Fatalf("Create(): unexpected err: %v", err)
	}
	if err := fileSystem.Remove(removed); err != nil {
		t.Fatalf("Remove(): unexpected err: %v", err)
	}

	fileSystem.Unmount()
	if err := fileSystem.Mount(d); err != nil {
		t.Fatalf("Mount(): unexpected err: %v", err)
	}

	size, err := fileSystem.Stat(small)
	if err != nil {
		t.Fatalf("Stat(): unexpected err after remount: %v", err)
	}
	if size != Byte(len("persist me")) {
		t.Fatalf("Stat(): wanted `%d`; found `%d`", len("persist me"), size)
	}
	output := make([]byte, size)
	if _, err := fileSystem.Read(small, output, 0); err != nil {
		t.Fatalf("Read(): unexpected err after remount: %v", err)
	}
	if !bytes.Equal(output, []byte("persist me")) {
		t.Fatalf("Read(): wanted `persist me`; found `%q`", output)
	}

	bigOutput := make([]byte, len(bigInput))
	if _, err := fileSystem.Read(big, bigOutput, 0); err != nil {
		t.Fatalf("Read(): unexpected err after remount: %v", err)
	}
	if !bytes.Equal(bigOutput, bigInput) {
		t.Fatal("Read(): indirect content does not survive remount")
	}

	if _, err := fileSystem.Stat(removed); err == nil {
		t.Fatal("Stat(): wanted err for removed inode after remount; found nil")
	}
}
