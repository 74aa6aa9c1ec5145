package rtdb

import (
	"bytes"
	"encoding/json"
	"sort"
)

// SortByKey orders children by key. Generated keys are chronological, so this
// restores insertion order for stores that return unordered objects.
func SortByKey(children []Child) {
	sort.SliceStable(children, func(i, j int) bool {
		return children[i].Key < children[j].Key
	})
}

// OrderByField orders children by a field of their value using the Realtime
// Database rules: missing or null first, then false, true, numbers ascending,
// strings ascending, and finally objects. Ties fall back to key order.
func OrderByField(children []Child, field string) {
	type sortable struct {
		c    Child
		rank int
		num  float64
		str  string
	}
	items := make([]sortable, len(children))
	for i, c := range children {
		rank, num, str := fieldRank(c.Value, field)
		items[i] = sortable{c: c, rank: rank, num: num, str: str}
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		switch a.rank {
		case rankNumber:
			if a.num != b.num {
				return a.num < b.num
			}
		case rankString:
			if a.str != b.str {
				return a.str < b.str
			}
		}
		return a.c.Key < b.c.Key
	})
	for i := range items {
		children[i] = items[i].c
	}
}

const (
	rankNull = iota
	rankFalse
	rankTrue
	rankNumber
	rankString
	rankObject
)

func fieldRank(value json.RawMessage, field string) (int, float64, string) {
	var obj map[string]json.RawMessage
	if json.Unmarshal(value, &obj) != nil {
		return rankNull, 0, ""
	}
	raw, ok := obj[field]
	if !ok {
		return rankNull, 0, ""
	}
	raw = bytes.TrimSpace(raw)
	switch {
	case len(raw) == 0, bytes.Equal(raw, []byte("null")):
		return rankNull, 0, ""
	case bytes.Equal(raw, []byte("false")):
		return rankFalse, 0, ""
	case bytes.Equal(raw, []byte("true")):
		return rankTrue, 0, ""
	}
	var f float64
	if json.Unmarshal(raw, &f) == nil {
		return rankNumber, f, ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return rankString, 0, s
	}
	return rankObject, 0, ""
}
