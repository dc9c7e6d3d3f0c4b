package fptree

import (
	U "fpminer/util"
	"strings"
)

// keySeparator joins the sorted items of a transaction into its map key.
// It cannot appear in item ids accepted by the loader.
const keySeparator = "\x1f"

type weightedTrans struct {
	Items  []string
	Weight int
}

// TransactionSet is a multiset of transactions. A transaction is a set of
// item ids; adding the same set twice accumulates its weight.
type TransactionSet struct {
	trans map[string]*weightedTrans
	order []string
}

func NewTransactionSet() *TransactionSet {
	return &TransactionSet{
		trans: make(map[string]*weightedTrans),
		order: make([]string, 0),
	}
}

func transKey(items []string) string {
	return strings.Join(items, keySeparator)
}

// Add inserts items with the given weight. Repeated items are dropped.
func (ts *TransactionSet) Add(items []string, weight int) {
	uniq := U.MakeUniqueTrans(items)
	key := transKey(uniq)
	if wt, ok := ts.trans[key]; ok {
		wt.Weight += weight
		return
	}
	ts.trans[key] = &weightedTrans{Items: uniq, Weight: weight}
	ts.order = append(ts.order, key)
}

// Len is the number of distinct transactions.
func (ts *TransactionSet) Len() int {
	if ts == nil {
		return 0
	}
	return len(ts.order)
}

// TotalWeight is the sum of all weights.
func (ts *TransactionSet) TotalWeight() int {
	total := 0
	ts.Each(func(_ []string, weight int) {
		total += weight
	})
	return total
}

// Weight returns the weight recorded for exactly this set of items.
func (ts *TransactionSet) Weight(items []string) int {
	if ts == nil {
		return 0
	}
	if wt, ok := ts.trans[transKey(U.MakeUniqueTrans(items))]; ok {
		return wt.Weight
	}
	return 0
}

// Each calls fn for every transaction in first-insertion order. The items
// slice is sorted and must not be modified.
func (ts *TransactionSet) Each(fn func(items []string, weight int)) {
	if ts == nil {
		return
	}
	for _, key := range ts.order {
		wt := ts.trans[key]
		fn(wt.Items, wt.Weight)
	}
}

// Support counts the weight of every transaction containing all of items.
func (ts *TransactionSet) Support(items []string) int {
	support := 0
	ts.Each(func(trns []string, weight int) {
		for _, itm := range items {
			if !U.In(trns, itm) {
				return
			}
		}
		support += weight
	})
	return support
}

// ItemCounts is the first pass of tree construction: the summed weight of
// the transactions containing each item.
func (ts *TransactionSet) ItemCounts() map[string]int {
	counts := make(map[string]int)
	ts.Each(func(items []string, weight int) {
		for _, itm := range items {
			counts[itm] += weight
		}
	})
	return counts
}

// SampleTransactions is the nine transaction example used throughout the
// FP-growth literature, each with weight 1.
func SampleTransactions() *TransactionSet {
	ts := NewTransactionSet()
	for _, trns := range [][]string{
		{"I1", "I2", "I5"},
		{"I2", "I4"},
		{"I2", "I3"},
		{"I1", "I2", "I4"},
		{"I1", "I3"},
		{"I2", "I3"},
		{"I1", "I3"},
		{"I1", "I2", "I3", "I5"},
		{"I1", "I2", "I3"},
	} {
		ts.Add(trns, 1)
	}
	return ts
}
