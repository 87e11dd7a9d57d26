package main

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/programme-lv/grievance/grievance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 5, 20, 23, 30, 0, 0, time.UTC)

type senderMock struct {
	mu       sync.Mutex
	payloads []grievance.Payload
	fail     bool
}

func (s *senderMock) Send(ctx context.Context, p grievance.Payload) grievance.Delivery {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payloads = append(s.payloads, p)
	if s.fail {
		return grievance.Delivery{Status: grievance.DeliveryTransportFailed, Err: errors.New("connection refused")}
	}
	return grievance.Delivery{Status: grievance.DeliveryOK, StatusCode: 200}
}

func (s *senderMock) sent() []grievance.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]grievance.Payload(nil), s.payloads...)
}

func newTestWorkflow(sender grievance.Sender) *grievance.Workflow {
	return grievance.NewWorkflow(sender, grievance.WithClock(func() time.Time { return testNow }))
}

func TestRunSubmitSuccess(t *testing.T) {
	sender := &senderMock{}
	var out bytes.Buffer

	err := runSubmit(context.Background(), &out, newTestWorkflow(sender), grievance.Draft{
		Grievance: "you ate my fries",
		Severity:  grievance.SeverityModerate,
		Date:      "2024-01-01",
	})

	require.NoError(t, err)
	assert.Contains(t, out.String(), "Grievance filed successfully!")
	assert.Contains(t, out.String(), "Total Grievances Filed: 1")
	require.Len(t, sender.sent(), 1)
	assert.Equal(t, "you ate my fries", sender.sent()[0].Message)
}

func TestRunSubmitDefaultsDateToToday(t *testing.T) {
	sender := &senderMock{}
	var out bytes.Buffer

	err := runSubmit(context.Background(), &out, newTestWorkflow(sender), grievance.Draft{
		Grievance: "aaaaaaaaaa",
		Severity:  grievance.SeverityMinor,
	})

	require.NoError(t, err)
	require.Len(t, sender.sent(), 1)
	assert.Equal(t, "2024-05-20", sender.sent()[0].Date)
}

func TestRunSubmitInvalid(t *testing.T) {
	sender := &senderMock{}
	var out bytes.Buffer

	err := runSubmit(context.Background(), &out, newTestWorkflow(sender), grievance.Draft{
		Grievance: "meh",
		Severity:  "catastrophic",
	})

	assert.ErrorIs(t, err, errInvalidGrievance)
	assert.Equal(t,
		"grievance: "+grievance.MsgGrievanceTooShort+"\n"+
			"severity: "+grievance.MsgSeverityRequired+"\n",
		out.String())
	assert.Empty(t, sender.sent())
}

func TestRunSubmitEndpointFailure(t *testing.T) {
	sender := &senderMock{fail: true}
	var out bytes.Buffer

	err := runSubmit(context.Background(), &out, newTestWorkflow(sender), grievance.Draft{
		Grievance: "aaaaaaaaaa",
		Severity:  grievance.SeveritySevere,
		Date:      "2024-01-01",
	})

	assert.ErrorIs(t, err, errSubmitFailed)
	assert.Equal(t, "Failed to submit grievance. Please try again later\n", out.String())
	assert.Len(t, sender.sent(), 1)
}
