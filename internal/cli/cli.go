// Package cli holds what the huf commands share: logging setup and reading images from disk.
package cli

import (
	"image"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"os"

	"github.com/fumin/huf"
	"github.com/nfnt/resize"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

// StartLogging sends all loggers to stderr, at DEBUG level if verbose and INFO otherwise.
func StartLogging(progName string, verbose bool) {
	backend := logging.NewLogBackend(os.Stderr, progName+": ", 0)
	formatSpec := "%{time:15:04:05.000} %{level:.4s} %{module} %{shortfile} | %{message}"
	formatter := logging.MustStringFormatter(formatSpec)
	formatted := logging.NewBackendFormatter(backend, formatter)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(logging.INFO, "")
	if verbose {
		leveled.SetLevel(logging.DEBUG, "")
	}
	logging.SetBackend(leveled)
}

// ReadGray decodes the PNG or JPEG image at fpath and converts it to 8-bit grayscale.
// If size is positive, the image is first resized to size by size pixels.
func ReadGray(fpath string, size int) (huf.Image, error) {
	f, err := os.Open(fpath)
	if err != nil {
		return huf.Image{}, errors.Wrap(err, "")
	}
	defer f.Close()
	m, _, err := image.Decode(f)
	if err != nil {
		return huf.Image{}, errors.Wrap(err, fpath)
	}

	if size > 0 {
		m = resize.Resize(uint(size), uint(size), m, resize.Bilinear)
	}
	g, ok := m.(*image.Gray)
	if !ok {
		b := m.Bounds()
		g = image.NewGray(b)
		draw.Draw(g, b, m, b.Min, draw.Src)
	}

	img, err := huf.FromImage(g)
	if err != nil {
		return huf.Image{}, errors.Wrap(err, fpath)
	}
	return img, nil
}

// WritePNG writes img to fpath as a grayscale PNG.
func WritePNG(fpath string, img huf.Image) error {
	f, err := os.Create(fpath)
	if err != nil {
		return errors.Wrap(err, "")
	}
	if err := png.Encode(f, img.Gray()); err != nil {
		f.Close()
		return errors.Wrap(err, "")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
