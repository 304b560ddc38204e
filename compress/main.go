package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fumin/huf"
	"github.com/fumin/huf/internal/cli"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	out     = flag.String("o", "", "output container, standard output if empty")
	size    = flag.Int("size", 0, "resize the image to size x size pixels before compressing, 0 keeps the original size")
	verbose = flag.Bool("verbose", false, "verbosity")
)

var log = logging.MustGetLogger("compress")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] image\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}
	cli.StartLogging("compress", *verbose)

	if err := run(name, *out, *size); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(name, out string, size int) error {
	img, err := cli.ReadGray(name, size)
	if err != nil {
		return errors.Wrap(err, "")
	}

	if out == "" {
		p, err := huf.Encode(img)
		if err != nil {
			return errors.Wrap(err, "")
		}
		if err := huf.WritePackage(os.Stdout, p); err != nil {
			return errors.Wrap(err, "")
		}
		return nil
	}

	written, err := huf.CompressToFile(img, out)
	if err != nil {
		return errors.Wrap(err, "")
	}
	info, err := os.Stat(written)
	if err != nil {
		return errors.Wrap(err, "")
	}
	log.Infof("%s: %dx%d, %d bytes, ratio %.3f", written, img.Rows, img.Cols, info.Size(), float64(img.Rows*img.Cols)/float64(info.Size()))
	return nil
}
