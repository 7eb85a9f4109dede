// Package syncer moves applicant data between the child tables and the
// compressed snapshot on the parent record, in both directions.
package syncer

import (
	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/applicant"
)

// Syncer folds child rows into the parent snapshot and expands the snapshot
// back into child rows.
type Syncer struct {
	store  *applicant.Store
	logger *zap.Logger
}

// New returns a syncer over the given store.
func New(store *applicant.Store, log *zap.Logger) *Syncer {
	if log == nil {
		log = zap.NewNop()
	}

	return &Syncer{store: store, logger: log}
}

// experienceKey is the reconciliation identity of a work experience row.
type experienceKey struct {
	company string
	title   string
}

// entryKey returns the identity of a snapshot entry. Entries lacking either
// member have no identity and cannot be reconciled.
func entryKey(entry applicant.ExperienceEntry) (experienceKey, bool) {
	if entry.Company == nil || entry.Title == nil {
		return experienceKey{}, false
	}

	return experienceKey{company: *entry.Company, title: *entry.Title}, true
}
