// Package shell implements the interactive command surface: typed commands
// are turned into filesystem calls against a single borrowed disk.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/weberc2/sfs/pkg/disk"
	"github.com/weberc2/sfs/pkg/fs"
	. "github.com/weberc2/sfs/pkg/types"
)

type Shell struct {
	disk   *disk.Disk
	fs     fs.FileSystem
	prompt string
	out    io.Writer
	errc   *color.Color
}

func New(d *disk.Disk, prompt string, out io.Writer) *Shell {
	return &Shell{
		disk:   d,
		prompt: prompt,
		out:    out,
		errc:   color.New(color.FgRed),
	}
}

// Run reads commands from `in` until EOF or an explicit exit. Command
// failures are reported and the loop continues; only input errors stop it.
func (s *Shell) Run(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(s.out, s.prompt)
		if !scanner.Scan() {
			break
		}

		args := strings.Fields(scanner.Text())
		if len(args) == 0 {
			continue
		}

		done, err := s.dispatch(args)
		if err != nil {
			s.errc.Fprintf(s.out, "%v\n", err)
		}
		if done {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading command: %w", err)
	}
	return nil
}

func (s *Shell) dispatch(args []string) (done bool, err error) {
	switch cmd := strings.ToLower(args[0]); cmd {
	case "help":
		s.help()
	case "exit", "quit":
		return true, nil
	case "debug":
		return false, fs.Debug(s.disk, s.out)
	case "format":
		if err := s.fs.Format(s.disk); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "disk formatted")
	case "mount":
		if err := s.fs.Mount(s.disk); err != nil {
			return false, err
		}
		fmt.Fprintln(s.out, "disk mounted")
	case "create":
		ino, err := s.fs.Create()
		if err != nil {
			return false, err
		}
		fmt.Fprintf(s.out, "created inode %d\n", ino)
	case "remove":
		return false, s.remove(args[1:])
	case "stat":
		return false, s.stat(args[1:])
	case "read":
		return false, s.read(args[1:])
	case "write":
		return false, s.write(args[1:])
	default:
		return false, fmt.Errorf("unknown command `%s` (try `help`)", cmd)
	}
	return false, nil
}

func (s *Shell) remove(args []string) error {
	ino, err := parseIno(args)
	if err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	if err := s.fs.Remove(ino); err != nil {
		return err
	}
	fmt.Fprintf(s.out, "removed inode %d\n", ino)
	return nil
}

func (s *Shell) stat(args []string) error {
	ino, err := parseIno(args)
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	size, err := s.fs.Stat(ino)
	if err != nil {
		return err
	}
	fmt.Fprintf(
		s.out,
		"inode %d: %d bytes (%s)\n",
		ino,
		size,
		humanize.IBytes(uint64(size)),
	)
	return nil
}

func (s *Shell) read(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("read: usage: read <inode> <length> <offset>")
	}
	ino, err := parseIno(args)
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	length, err := parseByte(args[1], "length")
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}
	offset, err := parseByte(args[2], "offset")
	if err != nil {
		return fmt.Errorf("read: %w", err)
	}

	buf := make([]byte, length)
	n, err := s.fs.Read(ino, buf, offset)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "%s\n", buf[:n])
	fmt.Fprintf(s.out, "read %d bytes\n", n)
	return nil
}

func (s *Shell) write(args []string) error {
	if len(args) != 4 {
		return fmt.Errorf(
			"write: usage: write <inode> <data> <length> <offset>",
		)
	}
	ino, err := parseIno(args)
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	length, err := parseByte(args[2], "length")
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	offset, err := parseByte(args[3], "offset")
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}

	data := []byte(args[1])
	if Byte(len(data)) > length {
		data = data[:length]
	}
	n, err := s.fs.Write(ino, data, offset)
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "wrote %d bytes\n", n)
	return nil
}

func (s *Shell) help() {
	fmt.Fprint(s.out, `commands:
    debug
    format
    mount
    create
    remove <inode>
    stat   <inode>
    read   <inode> <length> <offset>
    write  <inode> <data> <length> <offset>
    help
    exit
`)
}

func parseIno(args []string) (Ino, error) {
	if len(args) < 1 {
		return 0, fmt.Errorf("missing inode number")
	}
	n, err := strconv.ParseUint(args[0], 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parsing inode number `%s`: %w", args[0], err)
	}
	return Ino(n), nil
}

func parseByte(arg, name string) (Byte, error) {
	n, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("parsing %s `%s`: must be a non-negative integer", name, arg)
	}
	return Byte(n), nil
}
