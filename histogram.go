package huf

// A Histogram counts the pixels of each of the 256 intensities.
type Histogram [256]uint64

// NewHistogram counts the intensities of img.
func NewHistogram(img Image) Histogram {
	var h Histogram
	for _, p := range img.Pix {
		h[p]++
	}
	return h
}

// Symbols returns the number of intensities that occur at least once.
func (h *Histogram) Symbols() int {
	n := 0
	for _, c := range h {
		if c > 0 {
			n++
		}
	}
	return n
}

// Total returns the number of pixels counted.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h {
		total += c
	}
	return total
}
