package airtable

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(context.Background(), zap.NewNop(), "test-token", "appBase123")
	client.APIURL = server.URL
	client.HTTPClient = server.Client()

	return client
}

func TestSelectFollowsOffset(t *testing.T) {
	var requests []*http.Request

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.Clone(context.Background()))

		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected authorization header: %q", got)
		}

		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprint(w, `{"records": [{"id": "rec1", "fields": {"Name": "a"}}], "offset": "itr123"}`)
			return
		}
		fmt.Fprint(w, `{"records": [{"id": "rec2", "fields": {"Name": "b"}}]}`)
	})

	client := newTestClient(t, handler)

	records, err := client.Table("Applicants").Select("{Applicant ID} = 'APP001'")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].ID != "rec1" || records[1].ID != "rec2" {
		t.Fatalf("unexpected record ids: %s, %s", records[0].ID, records[1].ID)
	}

	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}

	first := requests[0].URL.Query()
	if got := first.Get("filterByFormula"); got != "{Applicant ID} = 'APP001'" {
		t.Fatalf("unexpected formula: %q", got)
	}
	if got := first.Get("pageSize"); got != "100" {
		t.Fatalf("unexpected page size: %q", got)
	}

	if got := requests[1].URL.Query().Get("offset"); got != "itr123" {
		t.Fatalf("expected offset cursor on second request, got %q", got)
	}
}

func TestSelectEscapesTableName(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.EscapedPath(); got != "/appBase123/Personal%20Details" {
			t.Fatalf("unexpected path: %q", got)
		}
		fmt.Fprint(w, `{"records": []}`)
	})

	client := newTestClient(t, handler)

	if _, err := client.Table("Personal Details").Select(""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateSendsFields(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Fatalf("unexpected content type: %q", got)
		}

		var payload struct {
			Fields map[string]any `json:"fields"`
		}
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decoding payload: %v", err)
		}
		if payload.Fields["Company"] != "Acme" {
			t.Fatalf("unexpected fields: %v", payload.Fields)
		}

		fmt.Fprint(w, `{"id": "recNew", "fields": {"Company": "Acme"}}`)
	})

	client := newTestClient(t, handler)

	record, err := client.Table("Work Experience").Create(map[string]any{"Company": "Acme"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.ID != "recNew" {
		t.Fatalf("unexpected record id: %q", record.ID)
	}
}

func TestUpdatePatchesRecord(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/appBase123/Applicants/rec42" {
			t.Fatalf("unexpected path: %q", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": "rec42", "fields": {"Shortlist Status": "Shortlisted"}}`)
	})

	client := newTestClient(t, handler)

	record, err := client.Table("Applicants").Update("rec42", map[string]any{"Shortlist Status": "Shortlisted"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := record.String("Shortlist Status"); got != "Shortlisted" {
		t.Fatalf("unexpected field value: %q", got)
	}
}

func TestDeleteRecordsChunksBatches(t *testing.T) {
	var batches [][]string

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		batches = append(batches, r.URL.Query()["records[]"])
		fmt.Fprint(w, `{"records": []}`)
	})

	client := newTestClient(t, handler)

	ids := make([]string, 12)
	for i := range ids {
		ids[i] = fmt.Sprintf("rec%d", i)
	}

	if err := client.Table("Work Experience").DeleteRecords(ids); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	if len(batches[0]) != 10 || len(batches[1]) != 2 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(batches[0]), len(batches[1]))
	}
	if batches[0][0] != "rec0" || batches[1][1] != "rec11" {
		t.Fatalf("unexpected batch contents: %v, %v", batches[0], batches[1])
	}
}

func TestGetNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": {"type": "MODEL_ID_NOT_FOUND", "message": "Record not found"}}`)
	})

	client := newTestClient(t, handler)

	_, err := client.Table("Applicants").Get("recMissing")
	if err == nil {
		t.Fatal("expected error")
	}

	if !IsNotFound(err) {
		t.Fatalf("expected not-found error, got %v", err)
	}

	statusErr, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.Type != "MODEL_ID_NOT_FOUND" || statusErr.Message != "Record not found" {
		t.Fatalf("unexpected error details: %+v", statusErr)
	}
}

func TestStatusErrorStringEnvelope(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error": "NOT_FOUND"}`)
	})

	client := newTestClient(t, handler)

	_, err := client.Table("Applicants").Get("recMissing")
	if err == nil {
		t.Fatal("expected error")
	}

	statusErr, ok := err.(*StatusError)
	if !ok {
		t.Fatalf("expected *StatusError, got %T", err)
	}
	if statusErr.Type != "NOT_FOUND" {
		t.Fatalf("unexpected error type: %q", statusErr.Type)
	}
}
