package shortlist

import (
	"errors"
	"fmt"
	"testing"

	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/airtable"
	"github.com/karev/applicant-sync/internal/applicant"
)

type update struct {
	id     string
	fields map[string]any
}

type fakeTable struct {
	name string

	selected  []*airtable.Record
	selectErr error
	createErr error
	updateErr error

	formulas []string
	creates  []map[string]any
	updates  []update
}

func (f *fakeTable) Name() string { return f.name }

func (f *fakeTable) Select(formula string) ([]*airtable.Record, error) {
	f.formulas = append(f.formulas, formula)
	if f.selectErr != nil {
		return nil, f.selectErr
	}

	return f.selected, nil
}

func (f *fakeTable) Get(id string) (*airtable.Record, error) {
	return nil, fmt.Errorf("record %s not found", id)
}

func (f *fakeTable) Create(fields map[string]any) (*airtable.Record, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.creates = append(f.creates, fields)

	return &airtable.Record{ID: "recNew", Fields: fields}, nil
}

func (f *fakeTable) Update(id string, fields map[string]any) (*airtable.Record, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	f.updates = append(f.updates, update{id: id, fields: fields})

	return &airtable.Record{ID: id, Fields: fields}, nil
}

func (f *fakeTable) DeleteRecords([]string) error { return nil }

type fixture struct {
	applicants *fakeTable
	leads      *fakeTable

	shortlister *Shortlister
}

func newFixture() *fixture {
	f := &fixture{
		applicants: &fakeTable{name: applicant.TableApplicants},
		leads:      &fakeTable{name: applicant.TableLeads},
	}

	f.shortlister = New(&applicant.Store{
		Applicants: f.applicants,
		Leads:      f.leads,
	}, zap.NewNop())

	return f
}

func (f *fixture) setApplicant(fields map[string]any) {
	f.applicants.selected = []*airtable.Record{{ID: "recParent", Fields: fields}}
}

const qualifyingSnapshot = `{"personal": {"name": "Jane Doe", "location": "San Francisco, US"}, "experience": [{"company": "Acme", "title": "Engineer", "start_date": "2018-01-01", "end_date": "2023-01-01"}], "salary": {"preferred_rate": 80, "currency": "USD", "availability_hrs_wk": 25}}`

const qualifyingRationale = "Experience: 5.0 years total; " +
	"Compensation: Preferred Rate: $80 USD/hour, Availability: 25 hrs/week; " +
	"Location: 'San Francisco, US' (Approved: matched 'us')"

func TestRunShortlistsQualifiedApplicant(t *testing.T) {
	fx := newFixture()
	fx.setApplicant(map[string]any{
		"Applicant ID":    "APP001",
		"Compressed JSON": qualifyingSnapshot,
	})

	if err := fx.shortlister.Run("APP001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fx.applicants.updates) != 1 {
		t.Fatalf("expected one status write, got %d", len(fx.applicants.updates))
	}
	if got := fx.applicants.updates[0].fields["Shortlist Status"]; got != "Shortlisted" {
		t.Fatalf("unexpected status: %v", got)
	}

	if len(fx.leads.formulas) != 1 || fx.leads.formulas[0] != "{Applicant_ref} = 'APP001'" {
		t.Fatalf("unexpected lead lookup: %v", fx.leads.formulas)
	}

	if len(fx.leads.creates) != 1 {
		t.Fatalf("expected one lead, got %d", len(fx.leads.creates))
	}
	fields := fx.leads.creates[0]

	refs, ok := fields["Applicant_ref"].([]string)
	if !ok || len(refs) != 1 || refs[0] != "recParent" {
		t.Fatalf("unexpected lead link: %v", fields["Applicant_ref"])
	}
	if fields["Compressed JSON"] != qualifyingSnapshot {
		t.Fatalf("unexpected lead snapshot: %v", fields["Compressed JSON"])
	}
	if fields["Score Reason"] != qualifyingRationale {
		t.Fatalf("unexpected rationale: %v", fields["Score Reason"])
	}
}

func TestRunRefreshesExistingLead(t *testing.T) {
	fx := newFixture()
	fx.setApplicant(map[string]any{
		"Applicant ID":    "APP001",
		"Compressed JSON": qualifyingSnapshot,
	})
	fx.leads.selected = []*airtable.Record{{ID: "recLead"}}

	if err := fx.shortlister.Run("APP001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(fx.leads.creates) != 0 {
		t.Fatal("expected no new lead")
	}
	if len(fx.leads.updates) != 1 || fx.leads.updates[0].id != "recLead" {
		t.Fatalf("unexpected lead updates: %+v", fx.leads.updates)
	}
	if got := fx.leads.updates[0].fields["Score Reason"]; got != qualifyingRationale {
		t.Fatalf("unexpected rationale: %v", got)
	}
}

func TestRunNotShortlistedSkipsLead(t *testing.T) {
	fx := newFixture()
	fx.setApplicant(map[string]any{
		"Applicant ID":    "APP002",
		"Compressed JSON": `{"personal": {"location": "New York, US"}, "experience": [{"company": "Acme", "title": "Engineer", "start_date": "2018-01-01", "end_date": "2023-01-01"}], "salary": {"preferred_rate": 150, "currency": "USD", "availability_hrs_wk": 30}}`,
	})

	if err := fx.shortlister.Run("APP002"); err != nil {
		t.Fatalf("expected completed evaluation to succeed, got %v", err)
	}

	if got := fx.applicants.updates[0].fields["Shortlist Status"]; got != "Not Shortlisted" {
		t.Fatalf("unexpected status: %v", got)
	}
	if len(fx.leads.formulas)+len(fx.leads.creates)+len(fx.leads.updates) != 0 {
		t.Fatal("expected no lead activity")
	}
}

func TestRunMissingSnapshot(t *testing.T) {
	fx := newFixture()
	fx.setApplicant(map[string]any{"Applicant ID": "APP003"})

	if err := fx.shortlister.Run("APP003"); err == nil {
		t.Fatal("expected error")
	}

	if got := fx.applicants.updates[0].fields["Shortlist Status"]; got != "Incomplete Data" {
		t.Fatalf("unexpected status: %v", got)
	}
}

func TestRunMalformedSnapshot(t *testing.T) {
	fx := newFixture()
	fx.setApplicant(map[string]any{
		"Applicant ID":    "APP004",
		"Compressed JSON": "{oops",
	})

	err := fx.shortlister.Run("APP004")
	if !errors.Is(err, applicant.ErrMalformedProfile) {
		t.Fatalf("expected malformed error, got %v", err)
	}

	if got := fx.applicants.updates[0].fields["Shortlist Status"]; got != "JSON Error" {
		t.Fatalf("unexpected status: %v", got)
	}
}

func TestRunUnknownApplicant(t *testing.T) {
	fx := newFixture()

	err := fx.shortlister.Run("APP404")
	if !errors.Is(err, applicant.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunStatusWriteFailure(t *testing.T) {
	fx := newFixture()
	fx.setApplicant(map[string]any{
		"Applicant ID":    "APP005",
		"Compressed JSON": qualifyingSnapshot,
	})
	fx.applicants.updateErr = errors.New("boom")

	if err := fx.shortlister.Run("APP005"); err == nil {
		t.Fatal("expected error")
	}

	if len(fx.leads.creates) != 0 {
		t.Fatal("expected no lead after failed status write")
	}
}
