package huf

import (
	"bytes"
	"io"
	"math"

	"github.com/fumin/huf/bitpack"
	"github.com/icza/bitio"
	"github.com/pkg/errors"
)

// magic starts every container. The trailing digit is the format version.
var magic = [4]byte{'H', 'U', 'F', '2'}

// WritePackage writes p to w in the container format:
//
//	magic        4 bytes "HUF2"
//	rows         uint32
//	cols         uint32
//	padding      uint8, 0 to 7
//	entries      uint16, 1 to 256
//	  symbol     uint8
//	  length     uint8, code length in bits
//	  code       (length+7)/8 bytes, most significant bit first
//	payload len  uint32
//	payload      payload len bytes
//
// Integers are big-endian and entries are in ascending symbol order,
// so equal packages produce identical bytes.
func WritePackage(w io.Writer, p *Package) error {
	if err := p.checkWritable(); err != nil {
		return errors.Wrap(err, "")
	}

	bw := bitio.NewWriter(w)
	bw.TryWrite(magic[:])
	bw.TryWriteBits(uint64(p.Rows), 32)
	bw.TryWriteBits(uint64(p.Cols), 32)
	bw.TryWriteByte(p.Padding)
	bw.TryWriteBits(uint64(p.Codes.Len()), 16)
	for s, code := range p.Codes {
		if len(code) == 0 {
			continue
		}
		packed, _, err := bitpack.Pack(code)
		if err != nil {
			return errors.Wrapf(err, "symbol %d", s)
		}
		bw.TryWriteByte(uint8(s))
		bw.TryWriteByte(uint8(len(code)))
		bw.TryWrite(packed)
	}
	bw.TryWriteBits(uint64(len(p.Payload)), 32)
	bw.TryWrite(p.Payload)
	if bw.TryError != nil {
		return errors.Wrap(bw.TryError, "")
	}
	if err := bw.Close(); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}

// ReadPackage reads a container written by WritePackage.
//
// It fails with ErrFormat if the magic does not match, the header or code table is truncated or inconsistent,
// or bytes follow the payload.
// It fails with ErrCorruptPayload if the payload is shorter than declared.
// The payload itself is only checked against the shape by Decode.
func ReadPackage(r io.Reader) (*Package, error) {
	br := bitio.NewReader(r)

	var m [4]byte
	if _, err := io.ReadFull(br, m[:]); err != nil {
		return nil, errors.Wrapf(ErrFormat, "magic: %v", err)
	}
	if m != magic {
		return nil, errors.Wrapf(ErrFormat, "magic %q, expected %q", m[:], magic[:])
	}

	p := &Package{}
	p.Rows = int(br.TryReadBits(32))
	p.Cols = int(br.TryReadBits(32))
	p.Padding = br.TryReadByte()
	entries := int(br.TryReadBits(16))
	if br.TryError != nil {
		return nil, errors.Wrapf(ErrFormat, "header: %v", br.TryError)
	}
	if p.Rows <= 0 || p.Cols <= 0 {
		return nil, errors.Wrapf(ErrFormat, "shape %dx%d", p.Rows, p.Cols)
	}
	if p.Padding > 7 {
		return nil, errors.Wrapf(ErrFormat, "%d padding bits", p.Padding)
	}
	if entries == 0 || entries > len(p.Codes) {
		return nil, errors.Wrapf(ErrFormat, "%d code table entries", entries)
	}

	for i := 0; i < entries; i++ {
		s := br.TryReadByte()
		n := int(br.TryReadByte())
		if br.TryError != nil {
			return nil, errors.Wrapf(ErrFormat, "entry %d of %d: %v", i, entries, br.TryError)
		}
		if n == 0 {
			return nil, errors.Wrapf(ErrFormat, "entry %d: empty code for symbol %d", i, s)
		}
		if len(p.Codes[s]) != 0 {
			return nil, errors.Wrapf(ErrFormat, "entry %d: duplicate symbol %d", i, s)
		}
		packed := make([]byte, (n+7)/8)
		if _, err := io.ReadFull(br, packed); err != nil {
			return nil, errors.Wrapf(ErrFormat, "entry %d of %d: %v", i, entries, err)
		}
		code, err := bitpack.Unpack(packed, bitpack.Padding(n))
		if err != nil {
			return nil, errors.Wrapf(ErrFormat, "entry %d: %v", i, err)
		}
		p.Codes[s] = code
	}

	size, err := br.ReadBits(32)
	if err != nil {
		return nil, errors.Wrapf(ErrFormat, "payload length: %v", err)
	}
	if size == 0 {
		return nil, errors.Wrap(ErrFormat, "empty payload")
	}
	payload := bytes.NewBuffer(nil)
	if read, err := io.CopyN(payload, br, int64(size)); err != nil {
		return nil, errors.Wrapf(ErrCorruptPayload, "payload has %d bytes, expected %d: %v", read, size, err)
	}
	p.Payload = payload.Bytes()

	if _, err := br.ReadByte(); err != io.EOF {
		return nil, errors.Wrap(ErrFormat, "trailing bytes after payload")
	}
	return p, nil
}

// MarshalBinary returns p in the container format.
func (p *Package) MarshalBinary() ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := WritePackage(buf, p); err != nil {
		return nil, errors.Wrap(err, "")
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary replaces p with the package in data.
func (p *Package) UnmarshalBinary(data []byte) error {
	q, err := ReadPackage(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "")
	}
	*p = *q
	return nil
}

func (p *Package) checkWritable() error {
	if p.Rows <= 0 || uint64(p.Rows) > math.MaxUint32 || p.Cols <= 0 || uint64(p.Cols) > math.MaxUint32 {
		return errors.Wrapf(ErrInvalidInput, "shape %dx%d", p.Rows, p.Cols)
	}
	if p.Padding > 7 {
		return errors.Wrapf(ErrInvalidInput, "%d padding bits", p.Padding)
	}
	if p.Codes.Len() == 0 {
		return errors.Wrap(ErrInvalidInput, "empty code table")
	}
	for s, code := range p.Codes {
		if len(code) > math.MaxUint8 {
			return errors.Wrapf(ErrInvalidInput, "symbol %d: code of %d bits", s, len(code))
		}
	}
	if len(p.Payload) == 0 || uint64(len(p.Payload)) > math.MaxUint32 {
		return errors.Wrapf(ErrInvalidInput, "payload of %d bytes", len(p.Payload))
	}
	return nil
}
