package fptree

import (
	U "fpminer/util"
	"sort"

	log "github.com/sirupsen/logrus"
)

const (
	// RootItem is the item id carried by the root of every tree.
	RootItem = ""
	rootIdx  = 0
	nilIdx   = -1
)

// node is one (item, count) occurrence on a path from the root. Nodes are
// addressed by their index in Tree.nodes. ParentNode and AuxNode are
// indexes too; AuxNode links nodes carrying the same item.
type node struct {
	Item       string
	Counter    int
	ParentNode int
	NextMap    map[string]int
	AuxNode    int
}

func initNode(item string, count, parent int) node {
	return node{
		Item:       item,
		Counter:    count,
		ParentNode: parent,
		NextMap:    make(map[string]int),
		AuxNode:    nilIdx,
	}
}

// HeaderEntry holds the support of an item in the tree's transaction set
// and the ends of its same-item chain.
type HeaderEntry struct {
	Support int
	Head    int
	Tail    int
}

type HeaderTable map[string]*HeaderEntry

// Tree is an FP-tree together with its header table.
type Tree struct {
	nodes  []node
	header HeaderTable
	// item -> position in insertion order, lower is more frequent
	priority map[string]int
}

func initTree() *Tree {
	t := &Tree{
		nodes:    make([]node, 0, 16),
		header:   make(HeaderTable),
		priority: make(map[string]int),
	}
	t.nodes = append(t.nodes, initNode(RootItem, 1, nilIdx))
	return t
}

// BuildTree constructs the FP-tree of ts keeping only items whose support
// is at least minSupport. It returns false when no item is frequent.
func BuildTree(ts *TransactionSet, minSupport int) (*Tree, bool) {
	counts := ts.ItemCounts()
	for itm, c := range counts {
		if c < minSupport {
			delete(counts, itm)
		}
	}
	if len(counts) == 0 {
		return nil, false
	}

	t := initTree()
	for itm, c := range counts {
		t.header[itm] = &HeaderEntry{Support: c, Head: nilIdx, Tail: nilIdx}
	}
	for idx, itm := range U.SortOnPriorityTable(counts, false) {
		t.priority[itm] = idx
	}

	log.Debugf("Number of trans inserted:%d, frequent items:%d", ts.Len(), len(counts))
	ts.Each(func(items []string, weight int) {
		ordered := t.orderTrans(items)
		if len(ordered) > 0 {
			t.insertTrans(ordered, weight)
		}
	})
	return t, true
}

// orderTrans restricts items to the header table and sorts them by
// descending support.
func (t *Tree) orderTrans(items []string) []string {
	local := make([]string, 0, len(items))
	for _, itm := range items {
		if _, ok := t.header[itm]; ok {
			local = append(local, itm)
		}
	}
	sort.Slice(local, func(i, j int) bool {
		return t.priority[local[i]] < t.priority[local[j]]
	})
	return local
}

// insertTrans walks ordered down from the root creating or incrementing
// one node per item.
func (t *Tree) insertTrans(ordered []string, weight int) {
	curr := rootIdx
	for _, itm := range ordered {
		child, ok := t.nodes[curr].NextMap[itm]
		if ok {
			t.nodes[child].Counter += weight
		} else {
			child = len(t.nodes)
			t.nodes = append(t.nodes, initNode(itm, weight, curr))
			t.nodes[curr].NextMap[itm] = child
			t.updateHeaderTable(child)
		}
		curr = child
	}
}

// updateHeaderTable appends a freshly created node to the end of its
// item's chain.
func (t *Tree) updateHeaderTable(idx int) {
	hdr := t.header[t.nodes[idx].Item]
	if hdr.Head == nilIdx {
		hdr.Head = idx
	} else {
		t.nodes[hdr.Tail].AuxNode = idx
	}
	hdr.Tail = idx
}

// Header returns the tree's header table. Callers must not modify it.
func (t *Tree) Header() HeaderTable {
	return t.header
}

// Support is the header table support of item, 0 when it is not frequent.
func (t *Tree) Support(item string) int {
	if hdr, ok := t.header[item]; ok {
		return hdr.Support
	}
	return 0
}

// Items lists the header items from most to least frequent, the order in
// which transactions were inserted.
func (t *Tree) Items() []string {
	return U.SortOnPriorityTable(t.supportTable(), false)
}

// MiningOrder lists the header items from least to most frequent. It is
// the exact reverse of Items.
func (t *Tree) MiningOrder() []string {
	return U.SortOnPriorityTable(t.supportTable(), true)
}

func (t *Tree) supportTable() map[string]int {
	pq := make(map[string]int, len(t.header))
	for itm, hdr := range t.header {
		pq[itm] = hdr.Support
	}
	return pq
}

// NumNodes counts the nodes of the tree, root included.
func (t *Tree) NumNodes() int {
	return len(t.nodes)
}

// Chain returns the node indexes of item's same-item chain, head first.
func (t *Tree) Chain(item string) []int {
	chain := make([]int, 0)
	hdr, ok := t.header[item]
	if !ok {
		return chain
	}
	for idx := hdr.Head; idx != nilIdx; idx = t.nodes[idx].AuxNode {
		chain = append(chain, idx)
	}
	return chain
}

// ChainCounts returns the counts along item's same-item chain.
func (t *Tree) ChainCounts(item string) []int {
	chain := t.Chain(item)
	counts := make([]int, 0, len(chain))
	for _, idx := range chain {
		counts = append(counts, t.nodes[idx].Counter)
	}
	return counts
}

// ChainSupport sums the counts along item's same-item chain. After
// construction it equals the item's header support.
func (t *Tree) ChainSupport(item string) int {
	sum := 0
	for _, c := range t.ChainCounts(item) {
		sum += c
	}
	return sum
}

// Count returns the count held by the node at idx.
func (t *Tree) Count(idx int) int {
	return t.nodes[idx].Counter
}

// Item returns the item held by the node at idx.
func (t *Tree) Item(idx int) string {
	return t.nodes[idx].Item
}
