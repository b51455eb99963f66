package mail

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SES sends plain-text transactional mail from a verified sender.
type SES struct {
	Sender string
	client *ses.Client
}

func NewSES(ctx context.Context, sender, region string) (*SES, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SES{Sender: sender, client: ses.NewFromConfig(cfg)}, nil
}

func (s *SES) Send(ctx context.Context, to, subject, body string) error {
	_, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:      aws.String(s.Sender),
		Destination: &types.Destination{ToAddresses: []string{to}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}
