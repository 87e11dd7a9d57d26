package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/programme-lv/grievance/grievance"
)

// maxResponseBytes caps how much of an endpoint response is read.
const maxResponseBytes = 1 << 20

// HTTPSender POSTs the payload as JSON to a fixed endpoint. The client is
// used as given: no retries and no timeout beyond what it already carries.
type HTTPSender struct {
	endpoint string
	client   *http.Client
}

func NewHTTPSender(endpoint string, client *http.Client) *HTTPSender {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSender{endpoint: endpoint, client: client}
}

func (s *HTTPSender) Endpoint() string {
	return s.endpoint
}

func (s *HTTPSender) Send(ctx context.Context, p grievance.Payload) grievance.Delivery {
	body, err := json.Marshal(p)
	if err != nil {
		return transportFailed(fmt.Errorf("failed to marshal payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return transportFailed(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return transportFailed(fmt.Errorf("failed to post grievance: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return transportFailed(fmt.Errorf("failed to read endpoint response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return rejected(resp.StatusCode, fmt.Errorf("endpoint responded with %d: %s", resp.StatusCode, snippet(raw)))
	}
	if len(raw) > maxResponseBytes {
		return rejected(resp.StatusCode, fmt.Errorf("endpoint response exceeds %d bytes", maxResponseBytes))
	}

	// An empty body (204 and friends) has nothing to parse and still counts.
	var decoded any
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return rejected(resp.StatusCode, fmt.Errorf("endpoint response is not json: %w: %s", err, snippet(raw)))
		}
	}

	return grievance.Delivery{
		Status:     grievance.DeliveryOK,
		StatusCode: resp.StatusCode,
		Body:       decoded,
	}
}

func transportFailed(err error) grievance.Delivery {
	return grievance.Delivery{Status: grievance.DeliveryTransportFailed, Err: err}
}

func rejected(statusCode int, err error) grievance.Delivery {
	return grievance.Delivery{Status: grievance.DeliveryRejected, StatusCode: statusCode, Err: err}
}

// snippet shortens a response body for error messages without splitting a
// UTF-8 sequence.
func snippet(raw []byte) string {
	const limit = 256
	s := strings.TrimSpace(string(raw))
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
