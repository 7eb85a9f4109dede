package applicant

import (
	"errors"
	"fmt"

	"github.com/karev/applicant-sync/internal/airtable"
)

// ErrNotFound reports that no applicant record matched the requested key.
var ErrNotFound = errors.New("applicant not found")

// Table is the slice of the airtable table API the automations rely on.
type Table interface {
	Name() string
	Select(formula string) ([]*airtable.Record, error)
	Get(id string) (*airtable.Record, error)
	Create(fields map[string]any) (*airtable.Record, error)
	Update(id string, fields map[string]any) (*airtable.Record, error)
	DeleteRecords(ids []string) error
}

// Store groups the five tables of the recruiting base.
type Store struct {
	Applicants Table
	Personal   Table
	Experience Table
	Salary     Table
	Leads      Table
}

// NewStore wires a store against the standard table layout of the base.
func NewStore(client *airtable.Client) *Store {
	return &Store{
		Applicants: client.Table(TableApplicants),
		Personal:   client.Table(TablePersonal),
		Experience: client.Table(TableExperience),
		Salary:     client.Table(TableSalary),
		Leads:      client.Table(TableLeads),
	}
}

// FindApplicant looks up the parent record whose Applicant ID equals id.
func (s *Store) FindApplicant(id string) (*airtable.Record, error) {
	records, err := s.Applicants.Select(airtable.FieldEquals(FieldApplicantID, id))
	if err != nil {
		return nil, fmt.Errorf("looking up applicant %s: %w", id, err)
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("applicant %s: %w", id, ErrNotFound)
	}

	return records[0], nil
}

// ExperienceByIDs fetches the given work experience records in one request
// and indexes them by record identifier. Identifiers the base no longer
// knows are simply absent from the result.
func (s *Store) ExperienceByIDs(ids []string) (map[string]*airtable.Record, error) {
	byID := make(map[string]*airtable.Record, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	records, err := s.Experience.Select(airtable.ByRecordIDs(ids))
	if err != nil {
		return nil, err
	}

	for _, record := range records {
		byID[record.ID] = record
	}

	return byID, nil
}
