package adapter

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESEmail sends email through SESv2.
type SESEmail struct {
	client *sesv2.Client
	from   string
}

func NewSESEmail(cfg aws.Config, from string) (*SESEmail, error) {
	if from == "" {
		return nil, errors.New("email from address not set")
	}
	return &SESEmail{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

func (s *SESEmail) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	return err
}
