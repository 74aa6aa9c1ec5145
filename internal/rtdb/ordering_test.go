package rtdb

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func keys(children []Child) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.Key
	}
	return out
}

func TestOrderByFieldRanks(t *testing.T) {
	children := []Child{
		{Key: "str", Value: json.RawMessage(`{"amount":"9"}`)},
		{Key: "big", Value: json.RawMessage(`{"amount":100}`)},
		{Key: "none", Value: json.RawMessage(`{"title":"x"}`)},
		{Key: "small", Value: json.RawMessage(`{"amount":4.5}`)},
		{Key: "bool", Value: json.RawMessage(`{"amount":true}`)},
		{Key: "scalar", Value: json.RawMessage(`"Food"`)},
	}
	OrderByField(children, "amount")
	assert.Equal(t, []string{"none", "scalar", "bool", "small", "big", "str"}, keys(children))
}

func TestOrderByFieldTiesUseKey(t *testing.T) {
	children := []Child{
		{Key: "c", Value: json.RawMessage(`{"amount":1}`)},
		{Key: "a", Value: json.RawMessage(`{"amount":1}`)},
		{Key: "b", Value: json.RawMessage(`{"amount":0.5}`)},
	}
	OrderByField(children, "amount")
	assert.Equal(t, []string{"b", "a", "c"}, keys(children))
}

func TestSortByKey(t *testing.T) {
	children := []Child{{Key: "-Nb"}, {Key: "-Na"}, {Key: "-Nc"}}
	SortByKey(children)
	assert.Equal(t, []string{"-Na", "-Nb", "-Nc"}, keys(children))
}
