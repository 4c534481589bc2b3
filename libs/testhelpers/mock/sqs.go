package mock

import (
	"testing"

	"github.com/aws/aws-sdk-go/service/sqs"
	"github.com/aws/aws-sdk-go/service/sqs/sqsiface"
)

type mockSQSAPI struct {
	sqsiface.SQSAPI
	*Expector
}

// NewSQSAPI returns a mock implementation of the parts of the SQS API used by this repo.
func NewSQSAPI(t *testing.T) *mockSQSAPI {
	return &mockSQSAPI{Expector: &Expector{T: t}}
}

func (s *mockSQSAPI) SendMessage(in *sqs.SendMessageInput) (*sqs.SendMessageOutput, error) {
	rets := s.Record(in)
	if len(rets) == 0 {
		return &sqs.SendMessageOutput{}, nil
	}
	return rets[0].(*sqs.SendMessageOutput), SafeError(rets[1])
}

func (s *mockSQSAPI) ReceiveMessage(in *sqs.ReceiveMessageInput) (*sqs.ReceiveMessageOutput, error) {
	rets := s.Record(in)
	if len(rets) == 0 {
		return &sqs.ReceiveMessageOutput{}, nil
	}
	return rets[0].(*sqs.ReceiveMessageOutput), SafeError(rets[1])
}

func (s *mockSQSAPI) DeleteMessage(in *sqs.DeleteMessageInput) (*sqs.DeleteMessageOutput, error) {
	rets := s.Record(in)
	if len(rets) == 0 {
		return &sqs.DeleteMessageOutput{}, nil
	}
	return rets[0].(*sqs.DeleteMessageOutput), SafeError(rets[1])
}
