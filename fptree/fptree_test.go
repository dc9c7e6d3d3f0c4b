package fptree

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransactionSetAdd(t *testing.T) {
	ts := NewTransactionSet()
	ts.Add([]string{"B", "A"}, 1)
	ts.Add([]string{"A", "B", "A"}, 2)
	ts.Add([]string{"C"}, 1)

	assert.Equal(t, 2, ts.Len())
	assert.Equal(t, 3, ts.Weight([]string{"A", "B"}))
	assert.Equal(t, 4, ts.TotalWeight())
	assert.Equal(t, 3, ts.Support([]string{"B"}))
	assert.Equal(t, 0, ts.Support([]string{"A", "C"}))

	order := make([][]string, 0)
	ts.Each(func(items []string, _ int) {
		order = append(order, items)
	})
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}}, order)
}

func TestSampleItemCounts(t *testing.T) {
	ts := SampleTransactions()
	assert.Equal(t, 7, ts.Len())
	assert.Equal(t, 9, ts.TotalWeight())
	assert.Equal(t, map[string]int{"I1": 6, "I2": 7, "I3": 6, "I4": 2, "I5": 2}, ts.ItemCounts())
}

func TestBuildTreeSample(t *testing.T) {
	tr, ok := BuildTree(SampleTransactions(), 2)
	assert.True(t, ok)
	assert.Equal(t, 11, tr.NumNodes())
	assert.Equal(t, []string{"I2", "I1", "I3", "I4", "I5"}, tr.Items())
	assert.Equal(t, []string{"I5", "I4", "I3", "I1", "I2"}, tr.MiningOrder())

	assert.Equal(t, []int{7}, tr.ChainCounts("I2"))
	assert.Equal(t, []int{4, 2}, tr.ChainCounts("I1"))
	assert.Equal(t, []int{2, 2, 2}, tr.ChainCounts("I3"))
	assert.Equal(t, []int{1, 1}, tr.ChainCounts("I4"))
	assert.Equal(t, []int{1, 1}, tr.ChainCounts("I5"))
	assert.Empty(t, tr.ChainCounts("I9"))

	for itm, hdr := range tr.Header() {
		assert.Equal(t, hdr.Support, tr.ChainSupport(itm), "chain support of %s", itm)
		assert.Equal(t, hdr.Head, tr.Chain(itm)[0])
		chain := tr.Chain(itm)
		assert.Equal(t, hdr.Tail, chain[len(chain)-1])
	}
}

func TestBuildTreeFiltersItems(t *testing.T) {
	tr, ok := BuildTree(SampleTransactions(), 3)
	assert.True(t, ok)
	assert.Equal(t, []string{"I2", "I1", "I3"}, tr.Items())
	assert.Equal(t, 0, tr.Support("I4"))
	assert.Empty(t, tr.Chain("I5"))
}

func TestBuildTreeNoFrequentItems(t *testing.T) {
	tr, ok := BuildTree(SampleTransactions(), 8)
	assert.False(t, ok)
	assert.Nil(t, tr)

	tr, ok = BuildTree(NewTransactionSet(), 1)
	assert.False(t, ok)
	assert.Nil(t, tr)
}

func TestBuildTreeSharesPrefixes(t *testing.T) {
	ts := NewTransactionSet()
	ts.Add([]string{"A", "B", "C", "D"}, 3)
	ts.Add([]string{"A", "B", "C"}, 1)
	ts.Add([]string{"A", "B"}, 2)
	tr, ok := BuildTree(ts, 1)
	assert.True(t, ok)
	// one path root-A-B-C-D
	assert.Equal(t, 5, tr.NumNodes())
	assert.Equal(t, []int{6}, tr.ChainCounts("A"))
	assert.Equal(t, []int{4}, tr.ChainCounts("C"))
	assert.Equal(t, []int{3}, tr.ChainCounts("D"))
}

func TestPrefixPath(t *testing.T) {
	tr, _ := BuildTree(SampleTransactions(), 2)
	chain := tr.Chain("I5")
	assert.Len(t, chain, 2)
	assert.Equal(t, []string{"I5", "I1", "I2"}, tr.PrefixPath(chain[0]))
	assert.Equal(t, []string{"I5", "I3", "I1", "I2"}, tr.PrefixPath(chain[1]))
	assert.Equal(t, "I5", tr.Item(chain[1]))
	assert.Equal(t, 1, tr.Count(chain[1]))
	assert.Empty(t, tr.PrefixPath(rootIdx))
}

func TestConditionalPatternBase(t *testing.T) {
	tr, _ := BuildTree(SampleTransactions(), 2)

	cpb := tr.ConditionalPatternBase("I5")
	assert.Equal(t, 2, cpb.Len())
	assert.Equal(t, 1, cpb.Weight([]string{"I1", "I2"}))
	assert.Equal(t, 1, cpb.Weight([]string{"I1", "I2", "I3"}))

	cpb = tr.ConditionalPatternBase("I1")
	assert.Equal(t, 1, cpb.Len())
	assert.Equal(t, 4, cpb.Weight([]string{"I2"}))

	// I2 only hangs off the root
	assert.Equal(t, 0, tr.ConditionalPatternBase("I2").Len())
}

func itemsetMap(itemsets []Itemset) map[string]int {
	res := make(map[string]int, len(itemsets))
	for _, is := range itemsets {
		res[is.Key()] = is.Support
	}
	return res
}

func TestMineSample(t *testing.T) {
	res := FrequentItemsets(SampleTransactions(), 2)
	expected := map[string]int{
		"I1": 6, "I2": 7, "I3": 6, "I4": 2, "I5": 2,
		"I1,I2": 4, "I1,I3": 4, "I1,I5": 2, "I2,I3": 4, "I2,I4": 2, "I2,I5": 2,
		"I1,I2,I3": 2, "I1,I2,I5": 2,
	}
	assert.Len(t, res, len(expected))
	assert.Equal(t, expected, itemsetMap(res))

	for _, is := range res {
		if len(is.Items) > 1 && strings.Contains(is.Key(), "I4") {
			assert.NotContains(t, is.Items, "I1")
			assert.NotContains(t, is.Items, "I3")
			assert.NotContains(t, is.Items, "I5")
		}
	}
}

func TestMineRecursionOrder(t *testing.T) {
	res := FrequentItemsets(SampleTransactions(), 2)
	keys := make([]string, 0, 4)
	for _, is := range res[:4] {
		keys = append(keys, is.Key())
	}
	assert.Equal(t, []string{"I5", "I2,I5", "I1,I2,I5", "I1,I5"}, keys)
}

func TestMineSeparateThresholds(t *testing.T) {
	ts := SampleTransactions()

	res := NewMiner(2, 3).Mine(ts)
	assert.Equal(t, map[string]int{
		"I1": 6, "I2": 7, "I3": 6, "I4": 2, "I5": 2,
		"I1,I2": 4, "I1,I3": 4, "I2,I3": 4,
	}, itemsetMap(res))

	res = NewMiner(7, 1).Mine(ts)
	assert.Equal(t, map[string]int{"I2": 7}, itemsetMap(res))

	res = NewMiner(3, 1).Mine(ts)
	assert.Equal(t, map[string]int{
		"I1": 6, "I2": 7, "I3": 6,
		"I1,I2": 4, "I1,I3": 4, "I2,I3": 4, "I1,I2,I3": 2,
	}, itemsetMap(res))
}

func TestMineMaxLength(t *testing.T) {
	m := NewMiner(2, 2)
	m.MaxLength = 1
	assert.Len(t, m.Mine(SampleTransactions()), 5)

	m.MaxLength = 2
	res := m.Mine(SampleTransactions())
	assert.Len(t, res, 11)
	for _, is := range res {
		assert.LessOrEqual(t, len(is.Items), 2)
	}
}

func TestMineEmpty(t *testing.T) {
	res := FrequentItemsets(NewTransactionSet(), 1)
	assert.NotNil(t, res)
	assert.Empty(t, res)

	res = FrequentItemsets(SampleTransactions(), 100)
	assert.Empty(t, res)
}

func TestSortItemsetsAndTopK(t *testing.T) {
	res := FrequentItemsets(SampleTransactions(), 2)
	top := TopK(res, 3)
	assert.Equal(t, []Itemset{
		{Items: []string{"I2"}, Support: 7},
		{Items: []string{"I1"}, Support: 6},
		{Items: []string{"I3"}, Support: 6},
	}, top)
	assert.Len(t, TopK(res, 0), len(res))
	assert.Len(t, TopK(res, 100), len(res))

	SortItemsets(res)
	assert.Equal(t, "I2", res[0].Key())
	assert.Equal(t, "I1,I2,I5", res[len(res)-1].Key())
}

func TestDisplay(t *testing.T) {
	tr, _ := BuildTree(SampleTransactions(), 2)
	var buf bytes.Buffer
	assert.Nil(t, tr.Display(&buf))
	expected := strings.Join([]string{
		"--- | root : 1",
		"------ | I1 : 2",
		"--------- | I3 : 2",
		"------ | I2 : 7",
		"--------- | I1 : 4",
		"------------ | I3 : 2",
		"--------------- | I5 : 1",
		"------------ | I4 : 1",
		"------------ | I5 : 1",
		"--------- | I3 : 2",
		"--------- | I4 : 1",
	}, "\n") + "\n"
	assert.Equal(t, expected, buf.String())
}
