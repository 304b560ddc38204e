package huf

import (
	"container/heap"
)

// none marks a missing parent or child.
const none = -1

// node is a Huffman tree node addressed by its index in a tree's arena.
// Leaves have left == right == none.
type node struct {
	freq   uint64
	symbol uint8

	parent int
	bit    uint8 // label of the edge to parent
	left   int   // child on edge 0
	right  int   // child on edge 1
}

// A tree is a Huffman tree whose nodes are stored in an arena.
// Leaves occupy the first indices, in ascending symbol order.
// Internal nodes follow in creation order, so the root is always the last node.
type tree struct {
	nodes []node
	root  int
}

func (t *tree) isLeaf(i int) bool {
	return t.nodes[i].left == none
}

// buildTree builds the Huffman tree of h, which must have at least one nonzero count.
//
// The two lightest nodes are merged until a single root remains.
// Nodes of equal frequency are ordered by their arena index:
// leaves by ascending symbol, then internal nodes from oldest to youngest.
// Of the two merged nodes, the first taken gets edge 0 and the second edge 1.
// This makes the tree, and hence the code table, a function of h alone.
func buildTree(h *Histogram) *tree {
	t := &tree{nodes: make([]node, 0, 2*len(h)-1)}
	for s, c := range h {
		if c == 0 {
			continue
		}
		t.nodes = append(t.nodes, node{freq: c, symbol: uint8(s), parent: none, left: none, right: none})
	}

	q := &nodeQueue{t: t}
	for i := range t.nodes {
		q.idx = append(q.idx, i)
	}
	heap.Init(q)

	for q.Len() > 1 {
		a := heap.Pop(q).(int)
		b := heap.Pop(q).(int)

		parent := len(t.nodes)
		t.nodes = append(t.nodes, node{freq: t.nodes[a].freq + t.nodes[b].freq, parent: none, left: a, right: b})
		t.nodes[a].parent, t.nodes[a].bit = parent, 0
		t.nodes[b].parent, t.nodes[b].bit = parent, 1

		heap.Push(q, parent)
	}
	t.root = len(t.nodes) - 1
	return t
}

// nodeQueue is a min-heap of arena indices ordered by (frequency, index).
type nodeQueue struct {
	t   *tree
	idx []int
}

func (q *nodeQueue) Len() int { return len(q.idx) }

func (q *nodeQueue) Less(i, j int) bool {
	a, b := q.idx[i], q.idx[j]
	fa, fb := q.t.nodes[a].freq, q.t.nodes[b].freq
	if fa != fb {
		return fa < fb
	}
	return a < b
}

func (q *nodeQueue) Swap(i, j int) { q.idx[i], q.idx[j] = q.idx[j], q.idx[i] }

func (q *nodeQueue) Push(x interface{}) { q.idx = append(q.idx, x.(int)) }

func (q *nodeQueue) Pop() interface{} {
	n := len(q.idx) - 1
	x := q.idx[n]
	q.idx = q.idx[:n]
	return x
}
