package airtable

import (
	"time"

	"github.com/spf13/cast"
)

// Record is a single row of a table: an internal identifier plus a field map.
// Field values keep the wire types the API returns (strings, float64 numbers,
// []any lists).
type Record struct {
	ID          string         `json:"id"`
	CreatedTime string         `json:"createdTime,omitempty"`
	Fields      map[string]any `json:"fields"`
}

// String returns the named field as a string, or "" when absent.
func (r *Record) String(name string) string {
	if r == nil || r.Fields == nil {
		return ""
	}

	return cast.ToString(r.Fields[name])
}

// Float returns the named field as a float64 and whether it was present and
// numeric.
func (r *Record) Float(name string) (float64, bool) {
	if r == nil || r.Fields == nil {
		return 0, false
	}

	value, ok := r.Fields[name]
	if !ok || value == nil {
		return 0, false
	}

	f, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, false
	}

	return f, true
}

// Time parses the named field as an RFC 3339 timestamp.
func (r *Record) Time(name string) (time.Time, bool) {
	raw := r.String(name)
	if raw == "" {
		return time.Time{}, false
	}

	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}

	return ts, true
}

// FirstLinkedID returns the first record identifier held by a link field.
// Link values arrive either as plain identifier strings or as objects with an
// id member; both forms are accepted.
func (r *Record) FirstLinkedID(name string) string {
	ids := r.LinkedIDs(name)
	if len(ids) == 0 {
		return ""
	}

	return ids[0]
}

// LinkedIDs returns all record identifiers held by a link field, in field
// order, tolerating both link representations.
func (r *Record) LinkedIDs(name string) []string {
	if r == nil || r.Fields == nil {
		return nil
	}

	items, ok := r.Fields[name].([]any)
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(items))
	for _, item := range items {
		if id := linkID(item); id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}

func linkID(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case map[string]any:
		return cast.ToString(v["id"])
	default:
		return ""
	}
}
