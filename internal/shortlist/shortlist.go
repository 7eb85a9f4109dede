package shortlist

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/airtable"
	"github.com/karev/applicant-sync/internal/applicant"
	"github.com/karev/applicant-sync/internal/logger"
)

// Shortlister evaluates applicants against the promotion rules.
type Shortlister struct {
	store  *applicant.Store
	logger *zap.Logger
}

// New returns a shortlister over the given store.
func New(store *applicant.Store, log *zap.Logger) *Shortlister {
	if log == nil {
		log = zap.NewNop()
	}

	return &Shortlister{store: store, logger: log}
}

// Run evaluates one applicant's snapshot. A completed evaluation succeeds
// whether or not the applicant was promoted; failure is reserved for missing
// input data and store write errors. The status lands on the parent record
// before any lead is touched.
func (s *Shortlister) Run(id string) error {
	log := logger.WithApplicant(s.logger, id)

	record, err := s.store.FindApplicant(id)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(record.String(applicant.FieldCompressedJSON))
	if raw == "" {
		s.setStatus(log, record, applicant.StatusIncompleteData)
		return fmt.Errorf("applicant %s has no compressed profile", id)
	}

	profile, err := applicant.ParseProfile(raw)
	if err != nil {
		s.setStatus(log, record, applicant.StatusJSONError)
		return err
	}

	results := Evaluate(log, profile)

	promoted := true
	reasons := make([]string, 0, len(results))
	for _, result := range results {
		reasons = append(reasons, result.Reason)
		if !result.OK {
			promoted = false
		}
	}
	rationale := strings.Join(reasons, "; ")

	status := applicant.StatusNotShortlisted
	if promoted {
		status = applicant.StatusShortlisted
	}

	if err := s.writeStatus(record, status); err != nil {
		return err
	}

	if !promoted {
		log.Info("applicant not shortlisted", zap.String("reason", rationale))
		return nil
	}

	if err := s.upsertLead(log, record, raw, rationale); err != nil {
		return err
	}

	log.Info("applicant shortlisted", zap.String("reason", rationale))

	return nil
}

// setStatus records a terminal status on the way out of a failed run; the
// primary error wins over a status write problem.
func (s *Shortlister) setStatus(log *zap.Logger, record *airtable.Record, status string) {
	if err := s.writeStatus(record, status); err != nil {
		log.Warn("writing shortlist status", zap.String("status", status), zap.Error(err))
	}
}

func (s *Shortlister) writeStatus(record *airtable.Record, status string) error {
	if _, err := s.store.Applicants.Update(record.ID, map[string]any{
		applicant.FieldShortlistStatus: status,
	}); err != nil {
		return fmt.Errorf("writing shortlist status: %w", err)
	}

	return nil
}

// upsertLead keeps at most one lead row per applicant: the row found by the
// Applicant_ref formula is refreshed, otherwise a new one is created. The
// formula compares against the link's display value, which is the
// applicant's primary key.
func (s *Shortlister) upsertLead(log *zap.Logger, record *airtable.Record, raw, rationale string) error {
	key := record.String(applicant.FieldApplicantID)

	leads, err := s.store.Leads.Select(airtable.FieldEquals(applicant.FieldApplicantRef, key))
	if err != nil {
		return fmt.Errorf("looking up shortlisted lead: %w", err)
	}

	fields := map[string]any{
		applicant.FieldApplicantRef:   []string{record.ID},
		applicant.FieldCompressedJSON: raw,
		applicant.FieldScoreReason:    rationale,
	}

	if len(leads) > 0 {
		if _, err := s.store.Leads.Update(leads[0].ID, fields); err != nil {
			return fmt.Errorf("updating shortlisted lead: %w", err)
		}
		log.Debug("refreshed existing lead", zap.String("lead_id", leads[0].ID))

		return nil
	}

	if _, err := s.store.Leads.Create(fields); err != nil {
		return fmt.Errorf("creating shortlisted lead: %w", err)
	}

	return nil
}
