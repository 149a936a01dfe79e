package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/weberc2/sfs/pkg/disk"
	"github.com/weberc2/sfs/pkg/fs"
	"github.com/weberc2/sfs/pkg/shell"
	. "github.com/weberc2/sfs/pkg/types"
)

func main() {
	config, err := LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	imageFlags := []cli.Flag{
		&cli.StringFlag{
			Name:  "image",
			Usage: "path to the disk image",
			Value: config.Image,
		},
		&cli.UintFlag{
			Name:  "blocks",
			Usage: "number of blocks in the disk image",
			Value: uint(config.Blocks),
		},
	}

	app := cli.App{
		Name:        "sfs",
		Description: "a minimal block filesystem inside a single image file",
		Commands: []*cli.Command{{
			Name:        "shell",
			Description: "interactive shell against a disk image",
			Flags:       imageFlags,
			Action: withDisk(func(d *disk.Disk, ctx *cli.Context) error {
				return shell.New(d, config.Prompt, os.Stdout).Run(os.Stdin)
			}),
		}, {
			Name:        "format",
			Description: "write a fresh filesystem onto a disk image",
			Flags:       imageFlags,
			Action: withDisk(func(d *disk.Disk, ctx *cli.Context) error {
				var fileSystem fs.FileSystem
				return fileSystem.Format(d)
			}),
		}, {
			Name:        "debug",
			Description: "dump the superblock and every valid inode",
			Flags:       imageFlags,
			Action: withDisk(func(d *disk.Disk, ctx *cli.Context) error {
				return fs.Debug(d, os.Stdout)
			}),
		}},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func withDisk(
	callback func(d *disk.Disk, ctx *cli.Context) error,
) cli.ActionFunc {
	return func(ctx *cli.Context) error {
		d, err := disk.Open(ctx.String("image"), Block(ctx.Uint("blocks")))
		if err != nil {
			return err
		}
		defer d.Close()
		return callback(d, ctx)
	}
}
