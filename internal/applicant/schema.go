// Package applicant models the recruiting base: its tables, field names, and
// the compressed profile snapshot stored on the parent record.
package applicant

// Table names in the recruiting base.
const (
	TableApplicants = "Applicants"
	TablePersonal   = "Personal Details"
	TableExperience = "Work Experience"
	TableSalary     = "Salary Preferences"
	TableLeads      = "Shortlisted Leads"
)

// Applicants table fields. FieldApplicantID doubles as the parent's primary
// text key and the link column pointing back from every child table.
const (
	FieldApplicantID      = "Applicant ID"
	FieldPersonalLink     = "Personal Details"
	FieldExperienceLink   = "Work Experience"
	FieldSalaryLink       = "Salary Preferences"
	FieldCompressedJSON   = "Compressed JSON"
	FieldShortlistStatus  = "Shortlist Status"
	FieldLLMSummary       = "LLM Summary"
	FieldLLMScore         = "LLM Score"
	FieldLLMFollowUps     = "LLM Follow-Ups"
	FieldLLMLastEvaluated = "LLM Last Evaluated"
	FieldLastModified     = "Last Modified"
)

// Personal Details fields.
const (
	FieldFullName = "Full Name"
	FieldEmail    = "Email"
	FieldLocation = "Location"
	FieldLinkedIn = "LinkedIn"
)

// Work Experience fields.
const (
	FieldCompany      = "Company"
	FieldTitle        = "Title"
	FieldStartDate    = "Start Date"
	FieldEndDate      = "End Date"
	FieldTechnologies = "Technologies"
)

// Salary Preferences fields.
const (
	FieldPreferredRate = "Preferred Rate"
	FieldMinimumRate   = "Minimum Rate"
	FieldCurrency      = "Currency"
	FieldAvailability  = "Availability (hrs/wk)"
)

// Shortlisted Leads fields.
const (
	FieldApplicantRef = "Applicant_ref"
	FieldScoreReason  = "Score Reason"
)

// Shortlist Status values written to the parent record.
const (
	StatusShortlisted    = "Shortlisted"
	StatusNotShortlisted = "Not Shortlisted"
	StatusIncompleteData = "Incomplete Data"
	StatusJSONError      = "JSON Error"
)
