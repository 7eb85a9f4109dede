package airtable

import (
	"fmt"
	"strings"
)

// FieldEquals builds a filter formula matching records whose field equals the
// given value. Single quotes in the value are escaped.
func FieldEquals(field, value string) string {
	escaped := strings.ReplaceAll(value, `'`, `\'`)
	return fmt.Sprintf("{%s} = '%s'", field, escaped)
}

// ByRecordIDs builds a filter formula matching records by their internal
// identifiers.
func ByRecordIDs(ids []string) string {
	conditions := make([]string, 0, len(ids))
	for _, id := range ids {
		conditions = append(conditions, fmt.Sprintf("RECORD_ID()='%s'", id))
	}

	return "OR(" + strings.Join(conditions, ", ") + ")"
}
