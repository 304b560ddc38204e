package main

import (
	"flag"
	"fmt"
	"image/png"
	"os"

	"github.com/fumin/huf"
	"github.com/fumin/huf/internal/cli"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	out     = flag.String("o", "", "output PNG, standard output if empty")
	verbose = flag.Bool("verbose", false, "verbosity")
)

var log = logging.MustGetLogger("decompress")

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] container\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	name := flag.Arg(0)
	if name == "" {
		flag.Usage()
		os.Exit(1)
	}
	cli.StartLogging("decompress", *verbose)

	if err := run(name, *out); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(name, out string) error {
	img, err := huf.DecompressFromFile(name)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if out == "" {
		if err := png.Encode(os.Stdout, img.Gray()); err != nil {
			return errors.Wrap(err, "")
		}
		return nil
	}
	if err := cli.WritePNG(out, img); err != nil {
		return errors.Wrap(err, "")
	}
	log.Debugf("%s: %dx%d", out, img.Rows, img.Cols)
	return nil
}
