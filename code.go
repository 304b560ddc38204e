package huf

import (
	"github.com/pkg/errors"
)

// A Code is the bit string of a symbol, one bit per element.
type Code []uint8

func (c Code) String() string {
	b := make([]byte, len(c))
	for i, bit := range c {
		b[i] = '0' + bit
	}
	return string(b)
}

// A CodeTable maps each symbol to its code.
// Symbols that do not occur have an empty code.
type CodeTable [256]Code

// NewCodeTable returns the Huffman code table of h.
// It fails with ErrInvalidInput if h has no nonzero count.
//
// When only one symbol occurs, the tree is a lone leaf and the symbol is assigned the code 0.
func NewCodeTable(h *Histogram) (CodeTable, error) {
	var ct CodeTable
	if h.Symbols() == 0 {
		return ct, errors.Wrap(ErrInvalidInput, "empty histogram")
	}

	t := buildTree(h)
	if t.isLeaf(t.root) {
		ct[t.nodes[t.root].symbol] = Code{0}
		return ct, nil
	}

	for i := range t.nodes {
		if !t.isLeaf(i) {
			continue
		}
		var code Code
		for n := i; n != t.root; n = t.nodes[n].parent {
			code = append(code, t.nodes[n].bit)
		}
		for l, r := 0, len(code)-1; l < r; l, r = l+1, r-1 {
			code[l], code[r] = code[r], code[l]
		}
		ct[t.nodes[i].symbol] = code
	}
	return ct, nil
}

// Len returns the number of symbols that have a code.
func (ct *CodeTable) Len() int {
	n := 0
	for _, c := range ct {
		if len(c) > 0 {
			n++
		}
	}
	return n
}

// trieNode is a node of a decoding trie.
// A zero child means no child, since the root is never anyone's child.
type trieNode struct {
	child  [2]int
	leaf   bool
	symbol uint8
}

// A trie resolves bit strings to symbols one bit at a time.
type trie struct {
	nodes []trieNode
}

// newTrie builds the decoding trie of ct.
// It fails with ErrFormat if ct is empty, holds a bit other than 0 or 1, or is not prefix free.
func newTrie(ct *CodeTable) (*trie, error) {
	t := &trie{nodes: make([]trieNode, 1, 2*len(ct))}
	for s, code := range ct {
		if len(code) == 0 {
			continue
		}
		cur := 0
		for _, b := range code {
			if b > 1 {
				return nil, errors.Wrapf(ErrFormat, "symbol %d: bit %d in code %v", s, b, []uint8(code))
			}
			if t.nodes[cur].leaf {
				return nil, errors.Wrapf(ErrFormat, "symbol %d: code %s extends the code of symbol %d", s, code, t.nodes[cur].symbol)
			}
			next := t.nodes[cur].child[b]
			if next == 0 {
				next = len(t.nodes)
				t.nodes = append(t.nodes, trieNode{})
				t.nodes[cur].child[b] = next
			}
			cur = next
		}
		n := &t.nodes[cur]
		if n.leaf || n.child[0] != 0 || n.child[1] != 0 {
			return nil, errors.Wrapf(ErrFormat, "symbol %d: code %s is a prefix of another code", s, code)
		}
		n.leaf = true
		n.symbol = uint8(s)
	}
	if len(t.nodes) == 1 {
		return nil, errors.Wrap(ErrFormat, "empty code table")
	}
	return t, nil
}

// decode resolves bits into exactly n symbols.
// It fails with ErrCorruptPayload if bits end in the middle of a code,
// contain a sequence that is no code, or do not hold exactly n symbols.
func (t *trie) decode(bits []uint8, n int) ([]uint8, error) {
	out := make([]uint8, 0, n)
	cur := 0
	for i, b := range bits {
		cur = t.nodes[cur].child[b]
		if cur == 0 {
			return nil, errors.Wrapf(ErrCorruptPayload, "bit %d matches no code", i)
		}
		if !t.nodes[cur].leaf {
			continue
		}
		if len(out) == n {
			return nil, errors.Wrapf(ErrCorruptPayload, "more than %d symbols", n)
		}
		out = append(out, t.nodes[cur].symbol)
		cur = 0
	}
	if cur != 0 {
		return nil, errors.Wrapf(ErrCorruptPayload, "bit stream of %d bits ends mid-code", len(bits))
	}
	if len(out) != n {
		return nil, errors.Wrapf(ErrCorruptPayload, "%d symbols, expected %d", len(out), n)
	}
	return out, nil
}
