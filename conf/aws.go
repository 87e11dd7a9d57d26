package conf

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"goa.design/clue/log"
)

// AWSConfig loads the default AWS credential chain for the configured
// region. SDK log lines go to logOut as JSON.
func (p Publish) AWSConfig(ctx context.Context, logOut io.Writer) (aws.Config, error) {
	ctx = log.Context(ctx, log.WithFormat(log.FormatJSON), log.WithOutput(logOut))
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(p.Region),
		config.WithLogger(log.AsAWSLogger(ctx)))
	if err != nil {
		return aws.Config{}, fmt.Errorf("unable to load aws sdk config: %w", err)
	}
	return cfg, nil
}
