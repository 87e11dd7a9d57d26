package grievance_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/programme-lv/grievance/grievance"
	"github.com/programme-lv/grievance/srvcerror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// senderMock records every payload and replies with the next delivery.
type senderMock struct {
	mu       sync.Mutex
	payloads []grievance.Payload
	reply    func(p grievance.Payload) grievance.Delivery
}

func (s *senderMock) Send(ctx context.Context, p grievance.Payload) grievance.Delivery {
	s.mu.Lock()
	s.payloads = append(s.payloads, p)
	s.mu.Unlock()
	return s.reply(p)
}

func (s *senderMock) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.payloads)
}

func okSender() *senderMock {
	return &senderMock{reply: func(grievance.Payload) grievance.Delivery {
		return grievance.Delivery{Status: grievance.DeliveryOK, StatusCode: http.StatusOK, Body: map[string]any{"ok": true}}
	}}
}

var fixedNow = time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)

func newTestWorkflow(sender grievance.Sender) *grievance.Workflow {
	return grievance.NewWorkflow(sender, grievance.WithClock(func() time.Time { return fixedNow }))
}

func newTestSession() *grievance.Session {
	return grievance.NewSession(uuid.New(), fixedNow)
}

func TestSubmitInvalidDraftSendsNothing(t *testing.T) {
	drafts := map[string]grievance.Draft{
		"too short":   {Grievance: "123456789", Severity: grievance.SeverityMinor, Date: "2024-01-01"},
		"too long":    {Grievance: strings.Repeat("b", 501), Severity: grievance.SeverityMinor, Date: "2024-01-01"},
		"no severity": {Grievance: "aaaaaaaaaa", Date: "2024-01-01"},
		"no date":     {Grievance: "aaaaaaaaaa", Severity: grievance.SeveritySevere},
	}

	for name, d := range drafts {
		t.Run(name, func(t *testing.T) {
			sender := okSender()
			wf := newTestWorkflow(sender)
			sess := newTestSession()

			out := wf.SubmitDraft(context.Background(), sess, d)

			assert.Equal(t, grievance.OutcomeInvalid, out.Status)
			assert.NotEmpty(t, out.Fields)
			assert.Nil(t, out.Notification)
			assert.Zero(t, sender.calls())
			assert.Zero(t, sess.Count())
			assert.Equal(t, d, sess.Draft(), "invalid draft must stay in the form")
			assert.Nil(t, sess.TakeNotification())
		})
	}
}

func TestSubmitValidDraftSendsPayload(t *testing.T) {
	sender := okSender()
	wf := newTestWorkflow(sender)
	sess := newTestSession()

	out := wf.SubmitDraft(context.Background(), sess, validDraft())

	require.Equal(t, grievance.OutcomeSucceeded, out.Status)
	require.Equal(t, 1, sender.calls())
	p := sender.payloads[0]
	assert.Equal(t, "aaaaaaaaaa", p.Message)
	assert.Equal(t, grievance.SeverityMinor, p.Severity)
	assert.Equal(t, "2024-01-01", p.Date)
	assert.Equal(t, "2025-06-15T09:30:00.000Z", p.SubmittedAt)
	assert.NotEqual(t, uuid.Nil, out.AttemptID)
}

func TestSubmitSuccessIncrementsAndResets(t *testing.T) {
	wf := newTestWorkflow(okSender())
	sess := newTestSession()

	out := wf.SubmitDraft(context.Background(), sess, validDraft())

	require.Equal(t, grievance.OutcomeSucceeded, out.Status)
	assert.NoError(t, out.Err())
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, 1, sess.Count())
	assert.Equal(t, grievance.Draft{Grievance: "", Severity: "", Date: "2025-06-15"}, sess.Draft())
	require.NotNil(t, out.Notification)
	assert.Equal(t, grievance.NotificationSuccess, out.Notification.Kind)
	assert.Equal(t, "Grievance filed successfully!", out.Notification.Title)

	n := sess.TakeNotification()
	require.NotNil(t, n)
	assert.Equal(t, *out.Notification, *n)
	assert.Nil(t, sess.TakeNotification(), "notification is consumed once")
}

func TestSubmitFailureKeepsDraftAndCount(t *testing.T) {
	deliveries := map[string]grievance.Delivery{
		"transport": {Status: grievance.DeliveryTransportFailed, Err: errors.New("dial tcp: no such host")},
		"rejected":  {Status: grievance.DeliveryRejected, StatusCode: http.StatusInternalServerError, Err: errors.New("endpoint returned 500")},
	}

	for name, d := range deliveries {
		t.Run(name, func(t *testing.T) {
			sender := &senderMock{reply: func(grievance.Payload) grievance.Delivery { return d }}
			wf := newTestWorkflow(sender)
			sess := newTestSession()
			draft := validDraft()

			out := wf.SubmitDraft(context.Background(), sess, draft)

			assert.Equal(t, grievance.OutcomeFailed, out.Status)
			assert.Equal(t, 1, sender.calls(), "no retries")
			assert.Zero(t, out.Count)
			assert.Zero(t, sess.Count())
			assert.Equal(t, draft, sess.Draft())
			require.NotNil(t, out.Notification)
			assert.Equal(t, grievance.NotificationFailure, out.Notification.Kind)
			assert.Equal(t, "Please try again later", out.Notification.Description)

			var srvcErr *srvcerror.Error
			require.ErrorAs(t, out.Err(), &srvcErr)
			assert.Equal(t, grievance.ErrCodeSubmissionFailed, srvcErr.ErrorCode())
			assert.Equal(t, d.Err, srvcErr.DebugInfo())
		})
	}
}

func TestSubmitTwiceCountsTwice(t *testing.T) {
	sender := okSender()
	wf := newTestWorkflow(sender)
	sess := newTestSession()

	for i := 0; i < 2; i++ {
		out := wf.SubmitDraft(context.Background(), sess, validDraft())
		require.Equal(t, grievance.OutcomeSucceeded, out.Status)
	}

	assert.Equal(t, 2, sess.Count())
	assert.Equal(t, 2, sender.calls())
}

func TestSubmitAfterFailureCanSucceed(t *testing.T) {
	fail := true
	sender := &senderMock{reply: func(grievance.Payload) grievance.Delivery {
		if fail {
			return grievance.Delivery{Status: grievance.DeliveryTransportFailed, Err: errors.New("offline")}
		}
		return grievance.Delivery{Status: grievance.DeliveryOK, StatusCode: http.StatusCreated}
	}}
	wf := newTestWorkflow(sender)
	sess := newTestSession()
	sess.SetDraft(validDraft())

	require.Equal(t, grievance.OutcomeFailed, wf.Submit(context.Background(), sess).Status)
	fail = false
	require.Equal(t, grievance.OutcomeSucceeded, wf.Submit(context.Background(), sess).Status)
	assert.Equal(t, 1, sess.Count())
}

func TestConcurrentSubmitsAreNotDeduplicated(t *testing.T) {
	release := make(chan struct{})
	sender := &senderMock{reply: func(grievance.Payload) grievance.Delivery {
		<-release
		return grievance.Delivery{Status: grievance.DeliveryOK, StatusCode: http.StatusOK}
	}}
	wf := newTestWorkflow(sender)
	sess := newTestSession()
	sess.SetDraft(validDraft())

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			wf.Submit(context.Background(), sess)
		}()
	}
	require.Eventually(t, func() bool { return sender.calls() == 2 }, time.Second, time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 2, sess.Count())
}

func TestSessionsRegistry(t *testing.T) {
	sessions := grievance.NewSessions(func() time.Time { return fixedNow })
	a := sessions.Create()
	b := sessions.Create()
	require.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, 2, sessions.Len())

	got, ok := sessions.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)
	assert.Equal(t, "2025-06-15", got.Draft().Date)

	_, ok = sessions.Get(uuid.New())
	assert.False(t, ok)
}

func TestSessionsDetachedAreNotRegistered(t *testing.T) {
	sessions := grievance.NewSessions(func() time.Time { return fixedNow })
	d := sessions.Detached()

	assert.Equal(t, "2025-06-15", d.Draft().Date)
	assert.Zero(t, sessions.Len())
	_, ok := sessions.Get(d.ID)
	assert.False(t, ok)
}

func TestSessionsSweepDropsIdle(t *testing.T) {
	now := fixedNow
	sessions := grievance.NewSessions(func() time.Time { return now })
	stale := sessions.Create()
	active := sessions.Create()

	now = now.Add(90 * time.Minute)
	_, ok := sessions.Get(active.ID)
	require.True(t, ok)

	now = now.Add(45 * time.Minute)
	assert.Equal(t, 1, sessions.Sweep(time.Hour))
	assert.Equal(t, 1, sessions.Len())

	_, ok = sessions.Get(stale.ID)
	assert.False(t, ok)
	_, ok = sessions.Get(active.ID)
	assert.True(t, ok)
}
