// Package awsutil provides helpers for configuring AWS service clients.
package awsutil

import (
	"errors"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/credentials/ec2rolecreds"
	"github.com/aws/aws-sdk-go/aws/session"
)

// Config returns an AWS config using either the provided credentials, the
// environment, or the EC2 instance role depending on what's available.
func Config(region, accessKey, secretKey, token string) (*aws.Config, error) {
	if region == "" {
		return nil, errors.New("awsutil: region required")
	}
	var cred *credentials.Credentials
	if accessKey != "" && secretKey != "" {
		cred = credentials.NewStaticCredentials(accessKey, secretKey, token)
	} else {
		cred = credentials.NewEnvCredentials()
		if v, err := cred.Get(); err != nil || v.AccessKeyID == "" || v.SecretAccessKey == "" {
			cred = ec2rolecreds.NewCredentials(session.New())
		}
	}
	return &aws.Config{
		Credentials: cred,
		Region:      aws.String(region),
	}, nil
}
