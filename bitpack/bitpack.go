// Package bitpack converts between bit strings and byte aligned buffers.
//
// A bit string is a []uint8 holding one bit per element, each either 0 or 1.
// Bits are packed most significant first, and the last byte is filled up
// with zero padding bits.
package bitpack

import (
	"bytes"
	"fmt"

	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

var (
	// ErrInvalidBit is returned by Pack when a bit string element is neither 0 nor 1.
	ErrInvalidBit = fmt.Errorf("bit is neither 0 nor 1")

	// ErrPadding is returned by Unpack when the padding is out of [0, 7],
	// exceeds the data, or the padding bits are not zero.
	ErrPadding = fmt.Errorf("invalid padding")
)

// Padding returns the number of zero bits needed to extend n bits to a whole number of bytes.
func Padding(n int) uint8 {
	return uint8((8 - n%8) % 8)
}

// Pack packs bits into (len(bits)+padding)/8 bytes, and returns the number of padding bits appended.
func Pack(bits []uint8) ([]byte, uint8, error) {
	buf := bytes.NewBuffer(make([]byte, 0, (len(bits)+7)/8))
	w := bitio.NewWriter(buf)
	for i, b := range bits {
		if b > 1 {
			return nil, 0, errors.Wrapf(ErrInvalidBit, "bits[%d] = %d", i, b)
		}
		if err := w.WriteBool(b == 1); err != nil {
			return nil, 0, errors.Wrap(err, "")
		}
	}
	padding, err := w.Align()
	if err != nil {
		return nil, 0, errors.Wrap(err, "")
	}
	if err := w.Close(); err != nil {
		return nil, 0, errors.Wrap(err, "")
	}
	return buf.Bytes(), padding, nil
}

// Unpack reverses Pack, returning the len(data)*8-padding bits that were packed.
func Unpack(data []byte, padding uint8) ([]uint8, error) {
	if padding > 7 {
		return nil, errors.Wrapf(ErrPadding, "%d padding bits", padding)
	}
	if len(data) == 0 && padding != 0 {
		return nil, errors.Wrapf(ErrPadding, "%d padding bits without data", padding)
	}

	r := bitio.NewReader(bytes.NewReader(data))
	bits := make([]uint8, len(data)*8-int(padding))
	for i := range bits {
		b, err := r.ReadBool()
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		if b {
			bits[i] = 1
		}
	}

	if padding > 0 {
		tail, err := r.ReadBits(padding)
		if err != nil {
			return nil, errors.Wrap(err, "")
		}
		if tail != 0 {
			return nil, errors.Wrapf(ErrPadding, "nonzero padding bits %b", tail)
		}
	}
	return bits, nil
}
