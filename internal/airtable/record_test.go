package airtable

import (
	"testing"
	"time"
)

func TestRecordGetters(t *testing.T) {
	record := &Record{
		ID: "rec1",
		Fields: map[string]any{
			"Full Name":      "Jane Doe",
			"Preferred Rate": float64(82.5),
			"Last Modified":  "2025-03-01T10:00:00Z",
		},
	}

	if got := record.String("Full Name"); got != "Jane Doe" {
		t.Fatalf("unexpected string value: %q", got)
	}
	if got := record.String("Missing"); got != "" {
		t.Fatalf("expected empty string for missing field, got %q", got)
	}

	rate, ok := record.Float("Preferred Rate")
	if !ok || rate != 82.5 {
		t.Fatalf("unexpected float value: %v, %v", rate, ok)
	}
	if _, ok := record.Float("Full Name"); ok {
		t.Fatal("expected non-numeric field to report absent")
	}
	if _, ok := record.Float("Missing"); ok {
		t.Fatal("expected missing field to report absent")
	}

	ts, ok := record.Time("Last Modified")
	if !ok {
		t.Fatal("expected timestamp to parse")
	}
	want := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if !ts.Equal(want) {
		t.Fatalf("unexpected timestamp: %v", ts)
	}
	if _, ok := record.Time("Full Name"); ok {
		t.Fatal("expected non-timestamp field to report absent")
	}
}

func TestRecordLinkedIDs(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  []string
	}{
		{
			name:  "identifier strings",
			value: []any{"recA", "recB"},
			want:  []string{"recA", "recB"},
		},
		{
			name:  "objects with id",
			value: []any{map[string]any{"id": "recA"}, map[string]any{"id": "recB"}},
			want:  []string{"recA", "recB"},
		},
		{
			name:  "mixed forms",
			value: []any{"recA", map[string]any{"id": "recB"}},
			want:  []string{"recA", "recB"},
		},
		{
			name:  "not a list",
			value: "recA",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := &Record{Fields: map[string]any{"Work Experience": tt.value}}

			got := record.LinkedIDs("Work Experience")
			if len(got) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("expected %v, got %v", tt.want, got)
				}
			}
		})
	}
}

func TestRecordFirstLinkedID(t *testing.T) {
	record := &Record{Fields: map[string]any{
		"Personal Details": []any{map[string]any{"id": "recP1"}, "recP2"},
	}}

	if got := record.FirstLinkedID("Personal Details"); got != "recP1" {
		t.Fatalf("unexpected linked id: %q", got)
	}
	if got := record.FirstLinkedID("Missing"); got != "" {
		t.Fatalf("expected empty id for missing field, got %q", got)
	}
}

func TestFieldEquals(t *testing.T) {
	if got := FieldEquals("Applicant ID", "APP001"); got != "{Applicant ID} = 'APP001'" {
		t.Fatalf("unexpected formula: %q", got)
	}

	if got := FieldEquals("Full Name", "O'Brien"); got != `{Full Name} = 'O\'Brien'` {
		t.Fatalf("unexpected escaped formula: %q", got)
	}
}

func TestByRecordIDs(t *testing.T) {
	got := ByRecordIDs([]string{"recA", "recB"})
	if got != "OR(RECORD_ID()='recA', RECORD_ID()='recB')" {
		t.Fatalf("unexpected formula: %q", got)
	}

	if got := ByRecordIDs([]string{"recA"}); got != "OR(RECORD_ID()='recA')" {
		t.Fatalf("unexpected single-id formula: %q", got)
	}
}
