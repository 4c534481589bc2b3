// Package notify publishes reminder notifications for downstream delivery.
package notify

import (
	"context"
	"encoding/json"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/svc/careplan"
)

// Publisher enqueues reminder notifications on an SQS queue. Delivery to the
// patient beyond the queue belongs to the notification pipeline.
type Publisher struct {
	sqsAPI   sqsiface.SQSAPI
	queueURL string
}

// NewPublisher returns a publisher writing to the queue at queueURL.
func NewPublisher(sqsAPI sqsiface.SQSAPI, queueURL string) *Publisher {
	return &Publisher{
		sqsAPI:   sqsAPI,
		queueURL: queueURL,
	}
}

// Notify enqueues the notification as a JSON message.
func (p *Publisher) Notify(ctx context.Context, n *careplan.ReminderNotification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return errors.Trace(err)
	}
	_, err = p.sqsAPI.SendMessage(&sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(data)),
	})
	return errors.Trace(err)
}
