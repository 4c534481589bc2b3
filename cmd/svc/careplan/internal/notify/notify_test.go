package notify

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/bitmap357/hospital-test/libs/errors"
	"github.com/bitmap357/hospital-test/libs/test"
	"github.com/bitmap357/hospital-test/libs/testhelpers/mock"
	"github.com/bitmap357/hospital-test/svc/careplan"
)

func TestNotify(t *testing.T) {
	sqsAPI := mock.NewSQSAPI(t)
	defer sqsAPI.Finish()
	p := NewPublisher(sqsAPI, "https://sqs.test/queue")

	sqsAPI.Expect(mock.NewExpectation(sqsAPI.SendMessage, &sqs.SendMessageInput{
		QueueUrl:    aws.String("https://sqs.test/queue"),
		MessageBody: aws.String(`{"step_id":"step_00000000001G","patient_id":"2","message":"Take drug daily for 7 days"}`),
	}))

	test.OK(t, p.Notify(context.Background(), &careplan.ReminderNotification{
		StepID:    "step_00000000001G",
		PatientID: "2",
		Message:   "Take drug daily for 7 days",
	}))
}

func TestNotifySendFailure(t *testing.T) {
	sqsAPI := mock.NewSQSAPI(t)
	defer sqsAPI.Finish()
	p := NewPublisher(sqsAPI, "https://sqs.test/queue")

	sqsAPI.Expect(mock.NewExpectation(sqsAPI.SendMessage, &sqs.SendMessageInput{
		QueueUrl:    aws.String("https://sqs.test/queue"),
		MessageBody: aws.String(`{"step_id":"step_00000000001G","patient_id":"2","message":"m"}`),
	}).WithReturns((*sqs.SendMessageOutput)(nil), errors.New("throttled")))

	err := p.Notify(context.Background(), &careplan.ReminderNotification{
		StepID:    "step_00000000001G",
		PatientID: "2",
		Message:   "m",
	})
	test.Assert(t, err != nil, "expected error from a failed send")
}
