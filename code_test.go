package huf

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/pkg/errors"
)

func codeStrings(ct CodeTable) map[int]string {
	m := make(map[int]string)
	for s, c := range ct {
		if len(c) > 0 {
			m[s] = c.String()
		}
	}
	return m
}

func testCodes(t *testing.T, h Histogram, expected map[int]string) {
	ct, err := NewCodeTable(&h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	got := codeStrings(ct)
	if len(got) != len(expected) {
		t.Fatalf("%v != %v", got, expected)
	}
	for s, c := range expected {
		if got[s] != c {
			t.Errorf("symbol %d: %s != %s", s, got[s], c)
		}
	}
}

// TestCodesScenario tests that the most frequent intensity of [[10,10],[20,30]] gets the shortest code.
func TestCodesScenario(t *testing.T) {
	var h Histogram
	h[10], h[20], h[30] = 2, 1, 1
	testCodes(t, h, map[int]string{10: "0", 20: "10", 30: "11"})
}

// TestCodesTieBreak tests that equal frequencies are resolved by symbol, and leaves before internal nodes.
func TestCodesTieBreak(t *testing.T) {
	var h Histogram
	h[1], h[2], h[3], h[4] = 1, 1, 1, 1
	testCodes(t, h, map[int]string{1: "00", 2: "01", 3: "10", 4: "11"})

	// The leaf of symbol 2 ties with the node merging 0 and 1, and is taken first.
	h = Histogram{}
	h[0], h[1], h[2] = 1, 1, 2
	testCodes(t, h, map[int]string{2: "0", 0: "10", 1: "11"})
}

func TestCodesSingleSymbol(t *testing.T) {
	var h Histogram
	h[200] = 12
	testCodes(t, h, map[int]string{200: "0"})
}

func TestCodesUniform(t *testing.T) {
	var h Histogram
	for s := range h {
		h[s] = 3
	}
	ct, err := NewCodeTable(&h)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	for s, c := range ct {
		if len(c) != 8 {
			t.Errorf("symbol %d: %s", s, c)
		}
	}
}

func TestCodesEmpty(t *testing.T) {
	var h Histogram
	if _, err := NewCodeTable(&h); errors.Cause(err) != ErrInvalidInput {
		t.Errorf("%v", err)
	}
}

// TestCodesRandom tests that random histograms produce prefix free, complete and deterministic code tables.
func TestCodesRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(0x5a025ca11825a5e7))
	for iteration := 0; iteration < 200; iteration++ {
		var h Histogram
		symbols := 1 + rng.Intn(256)
		for _, s := range rng.Perm(256)[:symbols] {
			// Skewed counts give deep trees.
			h[s] = uint64(1 + rng.Intn(1<<uint(rng.Intn(20))))
		}

		ct, err := NewCodeTable(&h)
		if err != nil {
			t.Fatalf("%+v", err)
		}
		again, err := NewCodeTable(&h)
		if err != nil {
			t.Fatalf("%+v", err)
		}

		codes := []string{}
		kraft := 0.0
		for s, c := range ct {
			if (h[s] > 0) != (len(c) > 0) {
				t.Fatalf("iteration %d: symbol %d count %d code %s", iteration, s, h[s], c)
			}
			if c.String() != again[s].String() {
				t.Errorf("iteration %d: symbol %d: %s != %s", iteration, s, c, again[s])
			}
			if len(c) > 0 {
				codes = append(codes, c.String())
				kraft += 1 / float64(uint64(1)<<uint(len(c)))
			}
		}

		for i, a := range codes {
			for j, b := range codes {
				if i != j && strings.HasPrefix(b, a) {
					t.Fatalf("iteration %d: %s is a prefix of %s", iteration, a, b)
				}
			}
		}
		if symbols > 1 && kraft != 1 {
			t.Errorf("iteration %d: kraft sum %f", iteration, kraft)
		}

		if _, err := newTrie(&ct); err != nil {
			t.Errorf("iteration %d: %+v", iteration, err)
		}
	}
}

func TestTrieRejectsPrefix(t *testing.T) {
	var ct CodeTable
	ct[1] = Code{0}
	ct[2] = Code{0, 1}
	if _, err := newTrie(&ct); errors.Cause(err) != ErrFormat {
		t.Errorf("%v", err)
	}

	ct = CodeTable{}
	ct[1] = Code{1, 0}
	ct[2] = Code{1}
	if _, err := newTrie(&ct); errors.Cause(err) != ErrFormat {
		t.Errorf("%v", err)
	}

	ct = CodeTable{}
	ct[3] = Code{0, 1}
	ct[4] = Code{0, 1}
	if _, err := newTrie(&ct); errors.Cause(err) != ErrFormat {
		t.Errorf("%v", err)
	}

	if _, err := newTrie(&CodeTable{}); errors.Cause(err) != ErrFormat {
		t.Errorf("%v", err)
	}
}
