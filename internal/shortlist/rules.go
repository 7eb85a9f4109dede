// Package shortlist applies the fixed promotion rules to an applicant's
// snapshot and records the outcome on the parent record and in the leads
// table.
package shortlist

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/karev/applicant-sync/internal/applicant"
)

const (
	minExperienceYears = 4
	maxPreferredRate   = 100
	minAvailability    = 20

	dateLayout  = "2006-01-02"
	daysPerYear = 365.25
)

// Tier-1 companies recognized by the experience rule, matched by exact
// case-insensitive name.
var tierOneCompanies = []string{
	"Google", "Meta", "OpenAI", "Microsoft", "Amazon", "Apple", "Netflix", "Tesla",
}

// Approved location keywords, matched as substrings of the lowercased
// location. Order matters: the first match names itself in the reason.
var approvedLocations = []string{"us", "canada", "uk", "germany", "india"}

// now is swapped in tests to pin ongoing-experience math.
var now = time.Now

// Result is the outcome of one rule: whether it passed and the reason line
// that goes into the lead rationale either way.
type Result struct {
	OK     bool
	Reason string
}

// Evaluate runs the rule chain over a snapshot and reports every rule's
// verdict in order.
func Evaluate(log *zap.Logger, profile *applicant.Profile) []Result {
	if log == nil {
		log = zap.NewNop()
	}

	return []Result{
		experienceRule(log, profile.Experience),
		compensationRule(profile.Salary),
		locationRule(profile.Personal),
	}
}

// experienceRule passes on four years of summed tenure or on any Tier-1
// employer. Tier-1 membership counts even when the entry's dates are
// unusable; only the tenure sum needs parseable dates.
func experienceRule(log *zap.Logger, entries []applicant.ExperienceEntry) Result {
	var years float64
	var tierOne bool

	for _, entry := range entries {
		if entry.Company != nil && isTierOne(*entry.Company) {
			tierOne = true
		}

		if entry.StartDate == nil || *entry.StartDate == "" {
			log.Warn("work experience entry has no start date")
			continue
		}

		start, err := time.Parse(dateLayout, *entry.StartDate)
		if err != nil {
			log.Warn("unparseable start date", zap.String("start_date", *entry.StartDate))
			continue
		}

		end := now()
		if entry.EndDate != nil && *entry.EndDate != "" {
			end, err = time.Parse(dateLayout, *entry.EndDate)
			if err != nil {
				log.Warn("unparseable end date", zap.String("end_date", *entry.EndDate))
				continue
			}
		}

		if start.After(end) {
			log.Warn("work experience entry starts after it ends",
				zap.String("start_date", *entry.StartDate))
			continue
		}

		years += end.Sub(start).Hours() / 24 / daysPerYear
	}

	if years >= minExperienceYears || tierOne {
		reason := fmt.Sprintf("Experience: %.1f years total", years)
		if tierOne {
			reason += " (includes Tier-1 company)"
		}

		return Result{OK: true, Reason: reason}
	}

	return Result{Reason: fmt.Sprintf(
		"FAILED: Experience (%.1f years, Tier-1: %v) - min 4 years OR Tier-1 required.",
		years, tierOne)}
}

// compensationRule requires a preferred rate of at most $100 in USD and at
// least 20 hours of weekly availability. Both halves report their own state
// so a failed rationale still names what was fine.
func compensationRule(salary applicant.SalaryInfo) Result {
	var parts []string

	rateOK := false
	switch {
	case salary.PreferredRate != nil && salary.Currency != nil && *salary.Currency == "USD":
		rate := *salary.PreferredRate
		part := fmt.Sprintf("Preferred Rate: $%s USD/hour", formatNumber(rate))
		if rate > maxPreferredRate {
			part += " (FAILED - must be <= $100)"
		} else {
			rateOK = true
		}
		parts = append(parts, part)
	case salary.PreferredRate == nil || salary.Currency == nil:
		parts = append(parts, "Preferred Rate: Missing or invalid (FAILED)")
	default:
		parts = append(parts, fmt.Sprintf("Preferred Rate: %s %s/hour (FAILED - only USD <= $100 accepted)",
			formatNumber(*salary.PreferredRate), *salary.Currency))
	}

	availOK := false
	switch {
	case salary.Availability == nil:
		parts = append(parts, "Availability: Missing or invalid (FAILED)")
	case *salary.Availability >= minAvailability:
		availOK = true
		parts = append(parts, fmt.Sprintf("Availability: %s hrs/week", formatNumber(*salary.Availability)))
	default:
		parts = append(parts, fmt.Sprintf("Availability: %s hrs/week (FAILED - must be >= 20)",
			formatNumber(*salary.Availability)))
	}

	joined := strings.Join(parts, ", ")
	if rateOK && availOK {
		return Result{OK: true, Reason: "Compensation: " + joined}
	}

	return Result{Reason: "FAILED: Compensation - " + joined}
}

func locationRule(personal applicant.PersonalInfo) Result {
	location := ""
	if personal.Location != nil {
		location = *personal.Location
	}

	lowered := strings.ToLower(location)
	for _, keyword := range approvedLocations {
		if strings.Contains(lowered, keyword) {
			return Result{OK: true, Reason: fmt.Sprintf("Location: '%s' (Approved: matched '%s')", location, keyword)}
		}
	}

	return Result{Reason: fmt.Sprintf("FAILED: Location ('%s') - not in approved list.", location)}
}

func isTierOne(company string) bool {
	for _, name := range tierOneCompanies {
		if strings.EqualFold(company, name) {
			return true
		}
	}

	return false
}

// formatNumber renders a rate or hour count the shortest exact way, so whole
// numbers read as integers.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
