// Package publish holds the transports that deliver a grievance payload to
// its destination.
package publish

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/programme-lv/grievance/conf"
	"github.com/programme-lv/grievance/grievance"
)

// FromConfig builds the sender selected by cfg.Transport. AWS SDK logs are
// written to logOut.
func FromConfig(ctx context.Context, cfg conf.Publish, logOut io.Writer) (grievance.Sender, error) {
	switch cfg.Transport {
	case conf.TransportHTTP:
		return NewHTTPSender(cfg.Endpoint, &http.Client{}), nil
	case conf.TransportSQS:
		awsCfg, err := cfg.AWSConfig(ctx, logOut)
		if err != nil {
			return nil, err
		}
		return NewSQSSender(sqs.NewFromConfig(awsCfg), cfg.QueueURL), nil
	}
	return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
}
