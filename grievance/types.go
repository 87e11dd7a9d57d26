package grievance

import "time"

type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

// IsValid reports whether s is one of the three known severities.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityMinor, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

type SeverityOption struct {
	Value   Severity
	Label   string
	Example string
}

// Severities lists the selectable severities in display order.
func Severities() []SeverityOption {
	return []SeverityOption{
		{Value: SeverityMinor, Label: "Silly", Example: "missed your ft"},
		{Value: SeverityModerate, Label: "Stinky", Example: "tackled you to the ground outside Snookers"},
		{Value: SeveritySevere, Label: "Severe", Example: "i hate and despise you"},
	}
}

const DateLayout = "2006-01-02"

// Draft is the editable, possibly invalid form state.
type Draft struct {
	Grievance string   `json:"grievance"`
	Severity  Severity `json:"severity"`
	Date      string   `json:"date"`
}

// NewDraft returns the default draft: empty text, no severity and the
// UTC calendar date of now.
func NewDraft(now time.Time) Draft {
	return Draft{Date: now.UTC().Format(DateLayout)}
}

// Submission is a validated snapshot of a Draft.
type Submission struct {
	Grievance string
	Severity  Severity
	Date      string
}

// Payload is the JSON document transmitted to the endpoint.
type Payload struct {
	Message     string   `json:"message"`
	Severity    Severity `json:"severity"`
	Date        string   `json:"date"`
	SubmittedAt string   `json:"submittedAt"`
}

const submittedAtLayout = "2006-01-02T15:04:05.000Z07:00"

func NewPayload(s Submission, at time.Time) Payload {
	return Payload{
		Message:     s.Grievance,
		Severity:    s.Severity,
		Date:        s.Date,
		SubmittedAt: at.UTC().Format(submittedAtLayout),
	}
}
