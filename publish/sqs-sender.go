package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/programme-lv/grievance/grievance"
)

// SQSAPI is the part of the SQS client the sender needs.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSSender enqueues the payload as one SQS message instead of calling an
// HTTP endpoint.
type SQSSender struct {
	client   SQSAPI
	queueURL string
}

func NewSQSSender(client SQSAPI, queueURL string) *SQSSender {
	return &SQSSender{client: client, queueURL: queueURL}
}

func (s *SQSSender) Send(ctx context.Context, p grievance.Payload) grievance.Delivery {
	body, err := json.Marshal(p)
	if err != nil {
		return transportFailed(fmt.Errorf("failed to marshal payload: %w", err))
	}

	out, err := s.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(s.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"severity": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(p.Severity)),
			},
		},
	})
	if err != nil {
		return transportFailed(fmt.Errorf("failed to send message to sqs: %w", err))
	}

	return grievance.Delivery{
		Status: grievance.DeliveryOK,
		Body:   map[string]any{"messageId": aws.ToString(out.MessageId)},
	}
}
