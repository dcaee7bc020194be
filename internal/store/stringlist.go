package store

import (
	"encoding/json"
	"sort"
	"strconv"
)

// StringList decodes a stored list of short strings that may arrive either
// as a JSON array or as an object keyed by stringified indices (an artifact
// of how some remote stores encode sparse arrays). Either way it yields an
// ordered slice preserving the original index order.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	// Common case: a plain array.
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*l = arr
		return nil
	}

	// Index-keyed object: {"0": "guard", "1": "kimura"}.
	var obj map[string]string
	if err := json.Unmarshal(data, &obj); err != nil {
		// Anything else (null, number, malformed) normalizes to empty.
		*l = nil
		return nil
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		if aerr == nil && berr == nil {
			return a < b
		}
		if aerr == nil {
			return true
		}
		if berr == nil {
			return false
		}
		return keys[i] < keys[j]
	})

	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, obj[k])
	}
	*l = out
	return nil
}
