package applicant

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/karev/applicant-sync/internal/airtable"
)

// ErrMalformedProfile reports that a stored snapshot could not be decoded.
var ErrMalformedProfile = errors.New("malformed profile json")

// Profile is the compressed snapshot of one applicant: the rows of the three
// child tables folded into a single document. The sections keep their
// declaration order when serialized.
type Profile struct {
	Personal   PersonalInfo      `json:"personal"`
	Experience []ExperienceEntry `json:"experience"`
	Salary     SalaryInfo        `json:"salary"`
}

// PersonalInfo mirrors the Personal Details row. Unset members are omitted
// from the snapshot rather than serialized as nulls. The mapstructure tags
// carry the airtable column names for both translation directions.
type PersonalInfo struct {
	Name     *string `json:"name,omitempty" mapstructure:"Full Name,omitempty"`
	Email    *string `json:"email,omitempty" mapstructure:"Email,omitempty"`
	Location *string `json:"location,omitempty" mapstructure:"Location,omitempty"`
	LinkedIn *string `json:"linkedin,omitempty" mapstructure:"LinkedIn,omitempty"`
}

// ExperienceEntry mirrors one Work Experience row. Dates stay in their
// YYYY-MM-DD wire form.
type ExperienceEntry struct {
	Company      *string  `json:"company,omitempty" mapstructure:"Company,omitempty"`
	Title        *string  `json:"title,omitempty" mapstructure:"Title,omitempty"`
	StartDate    *string  `json:"start_date,omitempty" mapstructure:"Start Date,omitempty"`
	EndDate      *string  `json:"end_date,omitempty" mapstructure:"End Date,omitempty"`
	Technologies []string `json:"technologies" mapstructure:"Technologies,omitempty"`
}

// SalaryInfo mirrors the Salary Preferences row.
type SalaryInfo struct {
	PreferredRate *float64 `json:"preferred_rate,omitempty" mapstructure:"Preferred Rate,omitempty"`
	MinimumRate   *float64 `json:"minimum_rate,omitempty" mapstructure:"Minimum Rate,omitempty"`
	Currency      *string  `json:"currency,omitempty" mapstructure:"Currency,omitempty"`
	Availability  *float64 `json:"availability_hrs_wk,omitempty" mapstructure:"Availability (hrs/wk),omitempty"`
}

// Marshal renders the profile as the canonical two-space indented snapshot.
// The experience section and each technologies list always serialize as
// arrays, never as nulls.
func (p Profile) Marshal() (string, error) {
	entries := make([]ExperienceEntry, len(p.Experience))
	copy(entries, p.Experience)
	for i := range entries {
		if entries[i].Technologies == nil {
			entries[i].Technologies = []string{}
		}
	}
	p.Experience = entries

	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// ParseProfile decodes a stored snapshot. Blank and null payloads are
// rejected here so callers can treat an absent snapshot separately before
// reaching for the parser.
func ParseProfile(raw string) (*Profile, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "null" {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedProfile)
	}

	var profile Profile
	if err := json.Unmarshal([]byte(trimmed), &profile); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProfile, err)
	}

	return &profile, nil
}

// PersonalFromRecord extracts the snapshot section from a Personal Details
// row. Columns the section does not know are ignored.
func PersonalFromRecord(record *airtable.Record) (PersonalInfo, error) {
	var info PersonalInfo
	if record == nil {
		return info, nil
	}

	if err := mapstructure.Decode(record.Fields, &info); err != nil {
		return info, fmt.Errorf("decoding personal details: %w", err)
	}

	return info, nil
}

// ExperienceFromRecord extracts the snapshot entry from a Work Experience row.
func ExperienceFromRecord(record *airtable.Record) (ExperienceEntry, error) {
	var entry ExperienceEntry
	if record == nil {
		return entry, nil
	}

	if err := mapstructure.Decode(record.Fields, &entry); err != nil {
		return entry, fmt.Errorf("decoding work experience: %w", err)
	}

	if entry.Technologies == nil {
		entry.Technologies = []string{}
	}

	return entry, nil
}

// SalaryFromRecord extracts the snapshot section from a Salary Preferences
// row.
func SalaryFromRecord(record *airtable.Record) (SalaryInfo, error) {
	var info SalaryInfo
	if record == nil {
		return info, nil
	}

	if err := mapstructure.Decode(record.Fields, &info); err != nil {
		return info, fmt.Errorf("decoding salary preferences: %w", err)
	}

	return info, nil
}

// Fields renders the section as an airtable field map with unset members
// dropped.
func (p PersonalInfo) Fields() (map[string]any, error) {
	return encodeFields(p)
}

// Fields renders the entry as an airtable field map. Unset members are
// dropped, but an explicitly empty technologies list is kept so the write
// clears the column.
func (e ExperienceEntry) Fields() (map[string]any, error) {
	fields, err := encodeFields(e)
	if err != nil {
		return nil, err
	}

	if e.Technologies != nil {
		fields[FieldTechnologies] = e.Technologies
	}

	return fields, nil
}

// Fields renders the section as an airtable field map with unset members
// dropped.
func (s SalaryInfo) Fields() (map[string]any, error) {
	return encodeFields(s)
}

func encodeFields(section any) (map[string]any, error) {
	fields := map[string]any{}
	if err := mapstructure.Decode(section, &fields); err != nil {
		return nil, fmt.Errorf("encoding fields: %w", err)
	}

	return fields, nil
}
