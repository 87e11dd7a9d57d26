package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/programme-lv/grievance/grievance"
)

var (
	errInvalidGrievance = errors.New("grievance has invalid fields")
	errSubmitFailed     = errors.New("grievance was not submitted")
)

var fieldOrder = []string{grievance.FieldGrievance, grievance.FieldSeverity, grievance.FieldDate}

// runSubmit submits d once in a fresh session and prints the result to out.
// An empty date means today.
func runSubmit(ctx context.Context, out io.Writer, workflow *grievance.Workflow, d grievance.Draft) error {
	sess := grievance.NewSession(uuid.New(), workflow.Now())
	if d.Date == "" {
		d.Date = sess.Draft().Date
	}

	res := workflow.SubmitDraft(ctx, sess, d)
	switch res.Status {
	case grievance.OutcomeInvalid:
		for _, field := range fieldOrder {
			for _, msg := range res.Fields[field] {
				fmt.Fprintf(out, "%s: %s\n", field, msg)
			}
		}
		return errInvalidGrievance
	case grievance.OutcomeFailed:
		fmt.Fprintf(out, "%s. %s\n", res.Notification.Title, res.Notification.Description)
		return errSubmitFailed
	}

	fmt.Fprintf(out, "%s %s\n", res.Notification.Title, res.Notification.Description)
	fmt.Fprintf(out, "Total Grievances Filed: %d\n", res.Count)
	return nil
}
