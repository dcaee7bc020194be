package store

import (
	"encoding/json"
	"testing"
)

func decodeList(t *testing.T, raw string) StringList {
	t.Helper()
	var l StringList
	if err := json.Unmarshal([]byte(raw), &l); err != nil {
		t.Fatalf("unmarshal %q: %v", raw, err)
	}
	return l
}

func TestStringList_Array(t *testing.T) {
	got := decodeList(t, `["guard", "kimura"]`)
	if len(got) != 2 || got[0] != "guard" || got[1] != "kimura" {
		t.Errorf("got %v", got)
	}
}

func TestStringList_IndexKeyedObject(t *testing.T) {
	got := decodeList(t, `{"0": "guard", "1": "kimura"}`)
	if len(got) != 2 || got[0] != "guard" || got[1] != "kimura" {
		t.Errorf("got %v", got)
	}
}

func TestStringList_NumericKeyOrder(t *testing.T) {
	// "10" must sort after "2" numerically, not lexicographically.
	got := decodeList(t, `{"10": "last", "2": "mid", "0": "first"}`)
	want := []string{"first", "mid", "last"}
	if len(got) != 3 {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStringList_MalformedNormalizesToEmpty(t *testing.T) {
	for _, raw := range []string{`null`, `42`, `"guard"`, `{"0": 1}`} {
		got := decodeList(t, raw)
		if len(got) != 0 {
			t.Errorf("%s: expected empty list, got %v", raw, got)
		}
	}
}
