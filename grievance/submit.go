package grievance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/grievance/logger"
)

type OutcomeStatus int

const (
	OutcomeInvalid OutcomeStatus = iota
	OutcomeSucceeded
	OutcomeFailed
)

func (s OutcomeStatus) String() string {
	switch s {
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome describes how a single submit attempt ended. Fields is only set
// for OutcomeInvalid, Delivery only for OutcomeSucceeded and OutcomeFailed.
type Outcome struct {
	AttemptID    uuid.UUID
	Status       OutcomeStatus
	Fields       FieldErrors
	Notification *Notification
	Delivery     Delivery
	Count        int
}

// Err converts a non-successful outcome into a service error.
func (o Outcome) Err() error {
	switch o.Status {
	case OutcomeInvalid:
		return o.Fields.Err()
	case OutcomeFailed:
		return NewErrSubmissionFailed(o.Delivery.Err)
	}
	return nil
}

// Workflow runs submit attempts against a Sender.
type Workflow struct {
	sender Sender
	now    func() time.Time
}

type WorkflowOption func(*Workflow)

// WithClock overrides the wall clock used for submittedAt and draft resets.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *Workflow) {
		if now != nil {
			w.now = now
		}
	}
}

func NewWorkflow(sender Sender, opts ...WorkflowOption) *Workflow {
	w := &Workflow{sender: sender, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Now exposes the workflow clock so callers build default drafts from the
// same time source.
func (w *Workflow) Now() time.Time {
	return w.now()
}

// SubmitDraft stores d as the session draft and submits it.
func (w *Workflow) SubmitDraft(ctx context.Context, sess *Session, d Draft) Outcome {
	sess.SetDraft(d)
	return w.Submit(ctx, sess)
}

// Submit validates the session draft and, when it is valid, sends it once.
// A success increments the session counter and resets the draft. A failure
// leaves both untouched apart from the failure notification.
func (w *Workflow) Submit(ctx context.Context, sess *Session) Outcome {
	attemptID, err := uuid.NewV7()
	if err != nil {
		attemptID = uuid.New()
	}
	ctx = logger.WithAttemptID(ctx, attemptID.String())
	log := logger.FromContext(ctx)

	sub, fields := Validate(sess.Draft())
	if len(fields) > 0 {
		log.Debug("grievance rejected by validation", "fields", fields)
		return Outcome{
			AttemptID: attemptID,
			Status:    OutcomeInvalid,
			Fields:    fields,
			Count:     sess.Count(),
		}
	}

	log.Info("grievance submitted",
		"severity", sub.Severity,
		"date", sub.Date,
		"message_length", textLength(sub.Grievance))

	delivery := w.sender.Send(ctx, NewPayload(sub, w.now()))
	if !delivery.OK() {
		log.Error("error submitting grievance",
			"delivery", delivery.Status.String(),
			"status_code", delivery.StatusCode,
			"error", delivery.Err)
		sess.fail()
		n := failureNotification
		return Outcome{
			AttemptID:    attemptID,
			Status:       OutcomeFailed,
			Notification: &n,
			Delivery:     delivery,
			Count:        sess.Count(),
		}
	}

	log.Info("endpoint response", "status_code", delivery.StatusCode, "body", delivery.Body)
	count := sess.succeed(w.now())
	n := successNotification
	return Outcome{
		AttemptID:    attemptID,
		Status:       OutcomeSucceeded,
		Notification: &n,
		Delivery:     delivery,
		Count:        count,
	}
}
