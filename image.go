package huf

import (
	"image"

	"github.com/pkg/errors"
)

// An Image is a rectangular grid of 8-bit intensities stored in row-major order.
type Image struct {
	Rows int
	Cols int
	Pix  []uint8
}

// NewImage copies rows into an Image.
// It fails with ErrInvalidInput if rows is empty or ragged.
func NewImage(rows [][]uint8) (Image, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return Image{}, errors.Wrap(ErrInvalidInput, "empty image")
	}
	img := Image{Rows: len(rows), Cols: len(rows[0])}
	img.Pix = make([]uint8, 0, img.Rows*img.Cols)
	for i, row := range rows {
		if len(row) != img.Cols {
			return Image{}, errors.Wrapf(ErrInvalidInput, "row %d has %d columns, expected %d", i, len(row), img.Cols)
		}
		img.Pix = append(img.Pix, row...)
	}
	return img, nil
}

// FromImage copies a single channel 8-bit image.
// Any image type other than *image.Gray is rejected with ErrInvalidInput.
func FromImage(m image.Image) (Image, error) {
	g, ok := m.(*image.Gray)
	if !ok {
		return Image{}, errors.Wrapf(ErrInvalidInput, "%T is not 8-bit grayscale", m)
	}
	b := g.Bounds()
	img := Image{Rows: b.Dy(), Cols: b.Dx()}
	if err := checkShape(img.Rows, img.Cols); err != nil {
		return Image{}, errors.Wrap(err, "")
	}
	img.Pix = make([]uint8, 0, img.Rows*img.Cols)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		i := g.PixOffset(b.Min.X, y)
		img.Pix = append(img.Pix, g.Pix[i:i+img.Cols]...)
	}
	return img, nil
}

// Gray returns a copy of img as an *image.Gray.
func (img Image) Gray() *image.Gray {
	g := image.NewGray(image.Rect(0, 0, img.Cols, img.Rows))
	copy(g.Pix, img.Pix)
	return g
}

// At returns the intensity at row r and column c.
func (img Image) At(r, c int) uint8 {
	return img.Pix[r*img.Cols+c]
}

// Equal reports whether img and other have the same shape and intensities.
func (img Image) Equal(other Image) bool {
	if img.Rows != other.Rows || img.Cols != other.Cols || len(img.Pix) != len(other.Pix) {
		return false
	}
	for i, p := range img.Pix {
		if other.Pix[i] != p {
			return false
		}
	}
	return true
}

func checkShape(rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return errors.Wrapf(ErrInvalidInput, "shape %dx%d", rows, cols)
	}
	return nil
}

func (img Image) validate() error {
	if err := checkShape(img.Rows, img.Cols); err != nil {
		return err
	}
	// Dividing first keeps Rows*Cols from overflowing.
	if img.Cols > len(img.Pix)/img.Rows || len(img.Pix) != img.Rows*img.Cols {
		return errors.Wrapf(ErrInvalidInput, "%d pixels for shape %dx%d", len(img.Pix), img.Rows, img.Cols)
	}
	return nil
}
