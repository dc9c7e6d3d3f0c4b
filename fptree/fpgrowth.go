package fptree

import (
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// Itemset is one frequent itemset with its support. Items are sorted.
type Itemset struct {
	Items   []string `json:"fi"`
	Support int      `json:"fc"`
}

// Key is a canonical string form of the item set.
func (is Itemset) Key() string {
	return strings.Join(is.Items, ",")
}

// Miner mines frequent itemsets with FP-growth. TreeSupport filters the
// tree built from the full transaction set, MineSupport filters every
// conditional tree built while recursing. MaxLength bounds the length of
// reported itemsets, 0 means no bound.
type Miner struct {
	TreeSupport int
	MineSupport int
	MaxLength   int
}

func NewMiner(treeSupport, mineSupport int) *Miner {
	return &Miner{
		TreeSupport: treeSupport,
		MineSupport: mineSupport,
	}
}

// FrequentItemsets mines ts using minSupport for both thresholds.
func FrequentItemsets(ts *TransactionSet, minSupport int) []Itemset {
	return NewMiner(minSupport, minSupport).Mine(ts)
}

// Mine returns every frequent itemset of ts in recursion order: least
// frequent item first, depth first. An input with no frequent item
// yields an empty list.
func (m *Miner) Mine(ts *TransactionSet) []Itemset {
	patterns := make([]Itemset, 0)
	tr, ok := BuildTree(ts, m.TreeSupport)
	if !ok {
		log.Debugf("No frequent items at support %d", m.TreeSupport)
		return patterns
	}
	return m.MineTree(tr, patterns)
}

// MineTree appends the itemsets of an already built tree to container.
func (m *Miner) MineTree(tr *Tree, container []Itemset) []Itemset {
	m.mineBTree(tr, []string{}, &container)
	log.Debugf("number of patterns mined :%d", len(container))
	return container
}

// mineBTree reports prefix+item for every header item of tr and recurses
// into the conditional tree of each one.
func (m *Miner) mineBTree(tr *Tree, prefix []string, container *[]Itemset) {
	for _, itm := range tr.MiningOrder() {
		base := make([]string, 0, len(prefix)+1)
		base = append(base, prefix...)
		base = append(base, itm)
		*container = append(*container, newItemset(base, tr.Support(itm)))

		if m.MaxLength > 0 && len(base) >= m.MaxLength {
			continue
		}
		condPatt := tr.ConditionalPatternBase(itm)
		cTr, ok := BuildTree(condPatt, m.MineSupport)
		if ok {
			m.mineBTree(cTr, base, container)
		}
	}
}

func newItemset(items []string, support int) Itemset {
	sorted := make([]string, len(items))
	copy(sorted, items)
	sort.Strings(sorted)
	return Itemset{Items: sorted, Support: support}
}

// ConditionalPatternBase collects the prefix paths of every node on
// item's chain, each weighted by that node's count. Nodes hanging
// directly off the root contribute nothing.
func (t *Tree) ConditionalPatternBase(item string) *TransactionSet {
	condPattern := NewTransactionSet()
	for _, idx := range t.Chain(item) {
		prefixPath := t.PrefixPath(idx)
		if len(prefixPath) > 1 {
			condPattern.Add(prefixPath[1:], t.nodes[idx].Counter)
		}
	}
	return condPattern
}

// PrefixPath ascends from the node at idx to the root and returns the
// items met on the way, leaf first. The root is excluded.
func (t *Tree) PrefixPath(idx int) []string {
	prefixPath := make([]string, 0)
	for n := idx; t.nodes[n].ParentNode != nilIdx; n = t.nodes[n].ParentNode {
		prefixPath = append(prefixPath, t.nodes[n].Item)
	}
	return prefixPath
}

// SortItemsets orders itemsets by support descending, then by length and
// finally by key, giving a canonical order for output.
func SortItemsets(itemsets []Itemset) {
	sort.SliceStable(itemsets, func(i, j int) bool {
		if itemsets[i].Support != itemsets[j].Support {
			return itemsets[i].Support > itemsets[j].Support
		}
		if len(itemsets[i].Items) != len(itemsets[j].Items) {
			return len(itemsets[i].Items) < len(itemsets[j].Items)
		}
		return itemsets[i].Key() < itemsets[j].Key()
	})
}

// TopK returns the k itemsets with the highest support in canonical order.
// k <= 0 keeps everything.
func TopK(itemsets []Itemset, k int) []Itemset {
	res := make([]Itemset, len(itemsets))
	copy(res, itemsets)
	SortItemsets(res)
	if k > 0 && len(res) > k {
		return res[:k]
	}
	return res
}
