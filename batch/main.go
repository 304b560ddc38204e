package main

import (
	"encoding/json"
	"flag"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/fumin/huf"
	"github.com/fumin/huf/internal/cli"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var (
	flagConfig = flag.String("c", `{
		"Src": "studies",
		"Dst": "studies_huf",
		"Size": 0,
		"Verify": true
		}`, "configuration")
	verbose = flag.Bool("verbose", false, "verbosity")
)

var log = logging.MustGetLogger("batch")

// Config selects the images to compress.
// Every PNG or JPEG in Src is compressed to Dst, under the same name with the extension .huf.
type Config struct {
	Src string
	Dst string

	// Size resizes images to Size x Size pixels when positive.
	Size int

	// Verify decompresses every container after writing it and compares it with the source image.
	Verify bool
}

func parseConfig() (Config, error) {
	config := Config{}
	if err := json.Unmarshal([]byte(*flagConfig), &config); err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	configB, err := json.Marshal(config)
	if err != nil {
		return Config{}, errors.Wrap(err, "")
	}
	log.Infof("config: %s", configB)
	return config, nil
}

func main() {
	flag.Parse()
	cli.StartLogging("batch", *verbose)

	config, err := parseConfig()
	if err != nil {
		log.Fatalf("%+v", err)
	}
	if err := run(config); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(config Config) error {
	srcs, err := ioutil.ReadDir(config.Src)
	if err != nil {
		return errors.Wrap(err, "")
	}
	var rawBytes, hufBytes int64
	for _, srcInfo := range srcs {
		src := srcInfo.Name()
		switch strings.ToLower(filepath.Ext(src)) {
		case ".png", ".jpg", ".jpeg":
		default:
			continue
		}

		img, err := cli.ReadGray(filepath.Join(config.Src, src), config.Size)
		if err != nil {
			return errors.Wrap(err, "")
		}
		dstName := strings.TrimSuffix(src, filepath.Ext(src)) + ".huf"
		dst, err := huf.CompressToFile(img, filepath.Join(config.Dst, dstName))
		if err != nil {
			return errors.Wrap(err, src)
		}

		if config.Verify {
			if err := verify(dst, img); err != nil {
				return errors.Wrap(err, "")
			}
		}

		info, err := os.Stat(dst)
		if err != nil {
			return errors.Wrap(err, "")
		}
		rawBytes += int64(img.Rows * img.Cols)
		hufBytes += info.Size()
		log.Infof("%s -> %s: %dx%d, %d bytes", src, dst, img.Rows, img.Cols, info.Size())
	}
	if hufBytes > 0 {
		log.Infof("total %d -> %d bytes, ratio %.3f", rawBytes, hufBytes, float64(rawBytes)/float64(hufBytes))
	}
	return nil
}

func verify(dst string, img huf.Image) error {
	decoded, err := huf.DecompressFromFile(dst)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if !decoded.Equal(img) {
		return errors.Errorf("%s does not decompress to its source image", dst)
	}
	return nil
}
