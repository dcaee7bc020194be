package trainlog

import (
	"encoding/json"
	"sort"
	"strconv"
	"time"

	"github.com/anirud/tatami/internal/store"
)

// storedSession mirrors the shape of one session document as persisted.
// Every scalar is decoded permissively: strings pass through, numbers are
// stringified, anything else becomes the zero value.
type storedSession struct {
	Title         flexString       `json:"title"`
	Date          flexString       `json:"date"`
	DurationHours flexString       `json:"durationHours"`
	Notes         flexString       `json:"notes"`
	Tags          store.StringList `json:"tags"`
	QualityLevel  flexString       `json:"qualityLevel"`
}

// flexString decodes a JSON string, number, or bool into a string.
// Malformed or structured values decode to "".
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexString(strconv.FormatFloat(n, 'f', -1, 64))
		return nil
	}
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*f = flexString(strconv.FormatBool(b))
		return nil
	}
	*f = ""
	return nil
}

// Normalize converts the raw session container (a JSON object mapping
// session-id → stored fields) into canonical records sorted by parsed date
// descending. It never fails: a nil or malformed container yields an empty
// slice, a non-object entry is skipped without discarding its siblings,
// and malformed individual fields fall back to their defaults.
//
// Records whose date does not parse sort with the zero time, which puts
// them after every dated record. That matches the stored data's documented
// edge case rather than inventing special handling.
func Normalize(raw json.RawMessage) []SessionRecord {
	if len(raw) == 0 {
		return []SessionRecord{}
	}

	var container map[string]json.RawMessage
	if err := json.Unmarshal(raw, &container); err != nil {
		return []SessionRecord{}
	}

	// Iterate ids in sorted order so the pre-sort order is deterministic
	// and the date sort's tie-break is reproducible.
	ids := make([]string, 0, len(container))
	for id := range container {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	records := make([]SessionRecord, 0, len(ids))
	for _, id := range ids {
		var s storedSession
		if err := json.Unmarshal(container[id], &s); err != nil {
			// One corrupt entry must not throw away the whole history.
			continue
		}
		tags := []string(s.Tags)
		if tags == nil {
			tags = []string{}
		}
		records = append(records, SessionRecord{
			ID:            id,
			Title:         string(s.Title),
			Date:          string(s.Date),
			DurationHours: defaultNumeric(string(s.DurationHours)),
			Notes:         string(s.Notes),
			Tags:          tags,
			QualityLevel:  defaultNumeric(string(s.QualityLevel)),
		})
	}

	sort.SliceStable(records, func(i, j int) bool {
		return ParseDate(records[i].Date).After(ParseDate(records[j].Date))
	})

	return records
}

func defaultNumeric(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

// dateLayouts are tried in order by ParseDate. Free-form input means no
// single layout covers the data; these are the shapes seen in practice.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a free-form date string, returning the zero time when
// nothing matches.
func ParseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ParseNumber reads a leading decimal number from s the way a permissive
// numeric-string parse does: optional sign, digits, optional fraction, with
// trailing junk ignored ("1.5 hrs" → 1.5). Unparsable input yields 0.
func ParseNumber(s string) float64 {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := false
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits = true
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits = true
		}
	}
	if !digits {
		return 0
	}
	f, err := strconv.ParseFloat(trimLeadingPlus(s[start:i]), 64)
	if err != nil {
		return 0
	}
	return f
}

func trimLeadingPlus(s string) string {
	if len(s) > 0 && s[0] == '+' {
		return s[1:]
	}
	return s
}
