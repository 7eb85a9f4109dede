package syncer

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/airtable"
	"github.com/karev/applicant-sync/internal/applicant"
	"github.com/karev/applicant-sync/internal/logger"
)

// Decompress expands the stored snapshot back into child rows. Personal and
// salary rows are upserted in place, work experience rows are reconciled by
// their (company, title) identity, and previously linked rows the snapshot
// no longer mentions are deleted. A missing snapshot is a no-op; a snapshot
// that does not parse fails the call. Section errors are isolated so one
// broken section cannot block the others.
func (s *Syncer) Decompress(id string) error {
	log := logger.WithApplicant(s.logger, id)

	record, err := s.store.FindApplicant(id)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(record.String(applicant.FieldCompressedJSON))
	if raw == "" {
		log.Info("no snapshot to apply")
		return nil
	}

	profile, err := applicant.ParseProfile(raw)
	if err != nil {
		return err
	}

	var degraded error

	if err := s.applyPersonal(record, profile.Personal); err != nil {
		degraded = multierr.Append(degraded, err)
	}
	if err := s.applyExperience(log, record, profile.Experience); err != nil {
		degraded = multierr.Append(degraded, err)
	}
	if err := s.applySalary(record, profile.Salary); err != nil {
		degraded = multierr.Append(degraded, err)
	}

	if degraded != nil {
		log.Warn("snapshot applied partially", zap.Error(degraded))
		return nil
	}

	log.Info("applied snapshot to child tables")

	return nil
}

func (s *Syncer) applyPersonal(record *airtable.Record, info applicant.PersonalInfo) error {
	fields, err := info.Fields()
	if err != nil {
		return fmt.Errorf("personal details: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	if linkedID := record.FirstLinkedID(applicant.FieldPersonalLink); linkedID != "" {
		if _, err := s.store.Personal.Update(linkedID, fields); err != nil {
			return fmt.Errorf("updating personal details: %w", err)
		}

		return nil
	}

	fields[applicant.FieldApplicantID] = []string{record.ID}
	if _, err := s.store.Personal.Create(fields); err != nil {
		return fmt.Errorf("creating personal details: %w", err)
	}

	return nil
}

func (s *Syncer) applySalary(record *airtable.Record, info applicant.SalaryInfo) error {
	fields, err := info.Fields()
	if err != nil {
		return fmt.Errorf("salary preferences: %w", err)
	}
	if len(fields) == 0 {
		return nil
	}

	if linkedID := record.FirstLinkedID(applicant.FieldSalaryLink); linkedID != "" {
		if _, err := s.store.Salary.Update(linkedID, fields); err != nil {
			return fmt.Errorf("updating salary preferences: %w", err)
		}

		return nil
	}

	fields[applicant.FieldApplicantID] = []string{record.ID}
	if _, err := s.store.Salary.Create(fields); err != nil {
		return fmt.Errorf("creating salary preferences: %w", err)
	}

	return nil
}

// applyExperience reconciles the snapshot's experience entries against the
// currently linked rows. An existing row that shares its identity with an
// earlier one is a reported conflict: it neither receives updates nor gets
// deleted. When the initial fetch fails the whole section is abandoned so no
// deletion can run against a partial picture.
func (s *Syncer) applyExperience(log *zap.Logger, record *airtable.Record, entries []applicant.ExperienceEntry) error {
	linkedIDs := record.LinkedIDs(applicant.FieldExperienceLink)

	log.Debug("reconciling work experience",
		zap.Int("linked", len(linkedIDs)), zap.Int("snapshot_entries", len(entries)))

	existing, err := s.store.ExperienceByIDs(linkedIDs)
	if err != nil {
		return fmt.Errorf("fetching work experience: %w", err)
	}

	index := make(map[experienceKey]string, len(existing))
	conflicted := map[string]bool{}
	for _, linkedID := range linkedIDs {
		existingRecord, ok := existing[linkedID]
		if !ok {
			continue
		}

		key := experienceKey{
			company: existingRecord.String(applicant.FieldCompany),
			title:   existingRecord.String(applicant.FieldTitle),
		}
		if winner, ok := index[key]; ok {
			log.Warn("conflicting work experience records share one identity",
				zap.String("company", key.company),
				zap.String("title", key.title),
				zap.String("kept", winner),
				zap.String("conflicting", existingRecord.ID))
			conflicted[existingRecord.ID] = true
			continue
		}
		index[key] = existingRecord.ID
	}

	processed := map[string]bool{}
	applied := map[experienceKey]bool{}

	var errs error

	for _, entry := range entries {
		key, ok := entryKey(entry)
		if !ok {
			log.Warn("skipping work experience entry without company and title")
			continue
		}
		if applied[key] {
			log.Warn("duplicate work experience entry in snapshot",
				zap.String("company", key.company), zap.String("title", key.title))
			continue
		}
		applied[key] = true

		fields, err := entry.Fields()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("work experience %s / %s: %w", key.company, key.title, err))
			continue
		}

		if existingID, ok := index[key]; ok {
			processed[existingID] = true
			if _, err := s.store.Experience.Update(existingID, fields); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("updating work experience %s: %w", existingID, err))
			}
			continue
		}

		fields[applicant.FieldApplicantID] = []string{record.ID}
		if _, err := s.store.Experience.Create(fields); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("creating work experience %s / %s: %w", key.company, key.title, err))
		}
	}

	var stale []string
	for _, linkedID := range linkedIDs {
		if _, ok := existing[linkedID]; !ok {
			continue
		}
		if processed[linkedID] || conflicted[linkedID] {
			continue
		}
		stale = append(stale, linkedID)
	}

	if len(stale) > 0 {
		if err := s.store.Experience.DeleteRecords(stale); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("deleting stale work experience: %w", err))
		} else {
			log.Info("deleted stale work experience records", zap.Int("count", len(stale)))
		}
	}

	return errs
}
