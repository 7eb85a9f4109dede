package syncer

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/airtable"
	"github.com/karev/applicant-sync/internal/applicant"
	"github.com/karev/applicant-sync/internal/logger"
)

// Compress folds the applicant's child rows into the canonical snapshot and
// stores it on the parent record. Child fetch failures degrade the affected
// section to empty; only the applicant lookup and the final write fail the
// call.
func (s *Syncer) Compress(id string) error {
	log := logger.WithApplicant(s.logger, id)

	record, err := s.store.FindApplicant(id)
	if err != nil {
		return err
	}

	profile := applicant.Profile{Experience: []applicant.ExperienceEntry{}}

	var degraded error

	personal, err := s.personalSection(log, record)
	if err != nil {
		degraded = multierr.Append(degraded, err)
	} else {
		profile.Personal = personal
	}

	entries, err := s.experienceSection(log, record)
	if err != nil {
		degraded = multierr.Append(degraded, err)
	} else {
		profile.Experience = entries
	}

	salary, err := s.salarySection(log, record)
	if err != nil {
		degraded = multierr.Append(degraded, err)
	} else {
		profile.Salary = salary
	}

	if degraded != nil {
		log.Warn("snapshot degraded to partial data", zap.Error(degraded))
	}

	raw, err := profile.Marshal()
	if err != nil {
		return fmt.Errorf("rendering snapshot: %w", err)
	}

	if _, err := s.store.Applicants.Update(record.ID, map[string]any{
		applicant.FieldCompressedJSON: raw,
	}); err != nil {
		return fmt.Errorf("storing snapshot: %w", err)
	}

	log.Info("compressed applicant data", zap.Int("experience_entries", len(profile.Experience)))

	return nil
}

func (s *Syncer) personalSection(log *zap.Logger, record *airtable.Record) (applicant.PersonalInfo, error) {
	linkedID := record.FirstLinkedID(applicant.FieldPersonalLink)
	if linkedID == "" {
		log.Warn("applicant has no linked personal details")
		return applicant.PersonalInfo{}, nil
	}

	linked, err := s.store.Personal.Get(linkedID)
	if err != nil {
		return applicant.PersonalInfo{}, fmt.Errorf("fetching personal details: %w", err)
	}

	return applicant.PersonalFromRecord(linked)
}

// experienceSection renders the linked work experience rows in link-field
// order. Rows missing from the batch response are skipped; duplicate
// identities are reported early since they would collide on the way back.
func (s *Syncer) experienceSection(log *zap.Logger, record *airtable.Record) ([]applicant.ExperienceEntry, error) {
	entries := []applicant.ExperienceEntry{}

	linkedIDs := record.LinkedIDs(applicant.FieldExperienceLink)
	if len(linkedIDs) == 0 {
		return entries, nil
	}

	log.Debug("resolved linked work experience", zap.Strings("record_ids", linkedIDs))

	byID, err := s.store.ExperienceByIDs(linkedIDs)
	if err != nil {
		return nil, fmt.Errorf("fetching work experience: %w", err)
	}

	seen := map[experienceKey]bool{}
	for _, linkedID := range linkedIDs {
		linked, ok := byID[linkedID]
		if !ok {
			log.Warn("linked work experience record is missing", zap.String("record_id", linkedID))
			continue
		}

		entry, err := applicant.ExperienceFromRecord(linked)
		if err != nil {
			log.Warn("skipping unreadable work experience record",
				zap.String("record_id", linkedID), zap.Error(err))
			continue
		}

		if key, ok := entryKey(entry); ok {
			if seen[key] {
				log.Warn("duplicate work experience identity",
					zap.String("company", key.company), zap.String("title", key.title))
			}
			seen[key] = true
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (s *Syncer) salarySection(log *zap.Logger, record *airtable.Record) (applicant.SalaryInfo, error) {
	linkedID := record.FirstLinkedID(applicant.FieldSalaryLink)
	if linkedID == "" {
		log.Warn("applicant has no linked salary preferences")
		return applicant.SalaryInfo{}, nil
	}

	linked, err := s.store.Salary.Get(linkedID)
	if err != nil {
		return applicant.SalaryInfo{}, fmt.Errorf("fetching salary preferences: %w", err)
	}

	return applicant.SalaryFromRecord(linked)
}
