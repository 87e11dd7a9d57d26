package grievance

import (
	"strings"
	"unicode/utf16"
)

const (
	FieldGrievance = "grievance"
	FieldSeverity  = "severity"
	FieldDate      = "date"
)

const (
	MinGrievanceLength = 10
	MaxGrievanceLength = 500
)

const (
	MsgGrievanceTooShort = "Please provide at least 10 characters"
	MsgGrievanceTooLong  = "Keep it under 500 characters"
	MsgSeverityRequired  = "Please select a severity level"
	MsgDateRequired      = "Please select a date"
)

// FieldErrors maps a form field name to its messages.
type FieldErrors map[string][]string

func (fe FieldErrors) add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

// Has reports whether field has at least one message.
func (fe FieldErrors) Has(field string) bool {
	return len(fe[field]) > 0
}

// First returns the first message for field or "".
func (fe FieldErrors) First(field string) string {
	if msgs := fe[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Err returns nil for an empty set, otherwise a validation_failed service
// error carrying the fields.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return newErrValidationFailed(fe)
}

type rule struct {
	field string
	fails func(d Draft) bool
	msg   string
}

var rules = []rule{
	{FieldGrievance, func(d Draft) bool { return grievanceLength(d) < MinGrievanceLength }, MsgGrievanceTooShort},
	{FieldGrievance, func(d Draft) bool { return grievanceLength(d) > MaxGrievanceLength }, MsgGrievanceTooLong},
	{FieldSeverity, func(d Draft) bool { return !d.Severity.IsValid() }, MsgSeverityRequired},
	{FieldDate, func(d Draft) bool { return d.Date == "" }, MsgDateRequired},
}

func grievanceLength(d Draft) int {
	return textLength(strings.TrimSpace(d.Grievance))
}

// textLength counts UTF-16 code units, the unit browsers use for maxlength,
// so characters outside the BMP count twice.
func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// Validate checks every rule against the draft. It never stops at the first
// failure, so the returned FieldErrors holds all problems at once. The
// Submission is only meaningful when FieldErrors is empty.
func Validate(d Draft) (Submission, FieldErrors) {
	errs := FieldErrors{}
	for _, r := range rules {
		if r.fails(d) {
			errs.add(r.field, r.msg)
		}
	}
	if len(errs) > 0 {
		return Submission{}, errs
	}
	return Submission{
		Grievance: strings.TrimSpace(d.Grievance),
		Severity:  d.Severity,
		Date:      d.Date,
	}, nil
}
