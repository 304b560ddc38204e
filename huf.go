// Package huf provides lossless Huffman coding of 8-bit grayscale images.
//
// An image is encoded by building a Huffman code from its intensity histogram and concatenating the codes of its pixels in row-major order.
// The resulting Package is persisted in a self-describing binary container, see WritePackage.
//
// Below is an example of compressing a PNG and restoring it:
//
//	go run compress/main.go -o chest.huf chest.png
//	go run decompress/main.go -o chest.dhuf.png chest.huf
//
// Errors returned by this package can be told apart with errors.Cause from github.com/pkg/errors:
// ErrInvalidInput, ErrFormat and ErrCorruptPayload are returned as causes,
// and failures of the file system are returned with their original cause.
//
// The package logs to the go-logging module "huf".
// Its level defaults to INFO, so the DEBUG messages of Encode and CompressToFile stay silent until a program installs its own backend or raises the level.
package huf

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/fumin/huf/bitpack"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logging.MustGetLogger("huf")

func init() {
	logging.SetLevel(logging.INFO, "huf")
}

var (
	// ErrInvalidInput is returned when an image is empty or its pixels do not fill its shape.
	ErrInvalidInput = fmt.Errorf("invalid input")

	// ErrFormat is returned when a container or its code table is malformed.
	ErrFormat = fmt.Errorf("invalid container format")

	// ErrCorruptPayload is returned when the payload does not decode into exactly rows*cols pixels.
	ErrCorruptPayload = fmt.Errorf("corrupt payload")
)

// A Package is a Huffman encoded image.
// Payload holds the codes of all pixels packed most significant bit first,
// followed by Padding zero bits that fill up the last byte.
type Package struct {
	Rows    int
	Cols    int
	Padding uint8
	Codes   CodeTable
	Payload []byte
}

// Bits returns the length of the encoded bit stream.
func (p *Package) Bits() int {
	return len(p.Payload)*8 - int(p.Padding)
}

// Ratio returns the size of the raw image divided by the size of the payload.
func (p *Package) Ratio() float64 {
	return float64(p.Rows*p.Cols) / float64(len(p.Payload))
}

// Encode Huffman encodes img.
// It fails with ErrInvalidInput if img is empty or len(img.Pix) != img.Rows*img.Cols.
func Encode(img Image) (*Package, error) {
	if err := img.validate(); err != nil {
		return nil, errors.Wrap(err, "")
	}

	h := NewHistogram(img)
	codes, err := NewCodeTable(&h)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}

	var size uint64
	for s, c := range h {
		size += c * uint64(len(codes[s]))
	}
	bits := make([]uint8, 0, size)
	for _, p := range img.Pix {
		bits = append(bits, codes[p]...)
	}

	payload, padding, err := bitpack.Pack(bits)
	if err != nil {
		return nil, errors.Wrap(err, "")
	}
	pkg := &Package{Rows: img.Rows, Cols: img.Cols, Padding: padding, Codes: codes, Payload: payload}
	log.Debugf("encoded %dx%d image: %d symbols, %d bits, ratio %.3f", img.Rows, img.Cols, codes.Len(), len(bits), pkg.Ratio())
	return pkg, nil
}

// Decode reconstructs the image encoded in p.
// It fails with ErrFormat if p's shape or code table is malformed,
// and with ErrCorruptPayload if the payload does not decode into exactly p.Rows*p.Cols pixels.
// On failure, no partial image is returned.
func Decode(p *Package) (Image, error) {
	if p.Rows <= 0 || p.Cols <= 0 {
		return Image{}, errors.Wrapf(ErrFormat, "shape %dx%d", p.Rows, p.Cols)
	}
	// Every code is at least one bit long, which bounds the number of pixels before anything is allocated.
	n := p.Bits()
	if p.Rows > n || p.Cols > n/p.Rows {
		return Image{}, errors.Wrapf(ErrCorruptPayload, "%d bits cannot hold %dx%d pixels", n, p.Rows, p.Cols)
	}

	t, err := newTrie(&p.Codes)
	if err != nil {
		return Image{}, errors.Wrap(err, "")
	}
	bits, err := bitpack.Unpack(p.Payload, p.Padding)
	if err != nil {
		return Image{}, errors.Wrapf(ErrCorruptPayload, "%v", err)
	}
	pix, err := t.decode(bits, p.Rows*p.Cols)
	if err != nil {
		return Image{}, errors.Wrap(err, "")
	}
	return Image{Rows: p.Rows, Cols: p.Cols, Pix: pix}, nil
}

// CompressToFile encodes img and writes the container to path, creating parent directories as needed.
// The container is written to a temporary file in the same directory and renamed over path,
// so on failure any previous file at path is left untouched.
// It returns the path written.
func CompressToFile(img Image, path string) (string, error) {
	p, err := Encode(img)
	if err != nil {
		return "", errors.Wrap(err, "")
	}
	b, err := p.MarshalBinary()
	if err != nil {
		return "", errors.Wrap(err, "")
	}
	if err := writeFileAtomic(path, b); err != nil {
		return "", errors.Wrap(err, "")
	}
	log.Debugf("wrote %d bytes to %s", len(b), path)
	return path, nil
}

// DecompressFromFile reads the container at path and decodes it.
func DecompressFromFile(path string) (Image, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return Image{}, errors.Wrap(err, "")
	}
	p := &Package{}
	if err := p.UnmarshalBinary(b); err != nil {
		return Image{}, errors.Wrap(err, path)
	}
	img, err := Decode(p)
	if err != nil {
		return Image{}, errors.Wrap(err, path)
	}
	return img, nil
}

func writeFileAtomic(path string, b []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "")
	}
	f, err := ioutil.TempFile(dir, "."+filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrap(err, "")
	}
	tmp := f.Name()
	// Once renamed, tmp no longer exists and removing it is a no-op.
	defer os.Remove(tmp)

	if _, err := f.Write(b); err != nil {
		f.Close()
		return errors.Wrap(err, "")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return errors.Wrap(err, "")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		return errors.Wrap(err, "")
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
