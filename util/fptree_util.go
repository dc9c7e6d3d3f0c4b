package util

import (
	"sort"
)

type kv struct {
	Key   string
	Value int
}

// SortOnPriorityTable returns the keys of pq ordered by value. Highest
// value comes first unless ascending is set. Equal values are ordered by
// key so that the ascending order is always the exact reverse of the
// descending one.
func SortOnPriorityTable(pq map[string]int, ascending bool) []string {
	ll := make([]string, 0, len(pq))
	for k := range pq {
		ll = append(ll, k)
	}
	return SortOnPriority(ll, pq, ascending)
}

// SortOnPriority orders ll by the priorities held in pq. Keys missing from
// pq have priority 0.
func SortOnPriority(ll []string, pq map[string]int, ascending bool) []string {
	ss := make([]kv, 0, len(ll))
	for _, k := range ll {
		ss = append(ss, kv{k, pq[k]})
	}

	sort.Slice(ss, func(i, j int) bool {
		if ss[i].Value != ss[j].Value {
			return ss[i].Value > ss[j].Value
		}
		return ss[i].Key < ss[j].Key
	})

	res := make([]string, 0, len(ss))
	if !ascending {
		for _, kv := range ss {
			res = append(res, kv.Key)
		}
	} else {
		for i := len(ss) - 1; i >= 0; i-- {
			res = append(res, ss[i].Key)
		}
	}
	return res
}

func In(strList []string, str string) bool {
	for _, v := range strList {
		if v == str {
			return true
		}
	}
	return false
}

func CheckUniqueTrans(trns []string) bool {
	trnsMap := make(map[string]bool, len(trns))
	for _, tr := range trns {
		if _, ok := trnsMap[tr]; ok {
			return false
		}
		trnsMap[tr] = true
	}
	return true
}

// MakeUniqueTrans drops repeated items and returns the rest sorted.
func MakeUniqueTrans(trns []string) []string {
	trnsMap := make(map[string]bool, len(trns))
	trnsSet := make([]string, 0, len(trns))
	for _, tr := range trns {
		if !trnsMap[tr] {
			trnsMap[tr] = true
			trnsSet = append(trnsSet, tr)
		}
	}
	sort.Strings(trnsSet)
	return trnsSet
}
