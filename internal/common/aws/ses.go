package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of *ses.Client used here.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SESClient struct {
	client SESAPI
}

func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SESClient{client: ses.NewFromConfig(cfg)}, nil
}

// NewSESClientFromAPI wraps an existing client, typically a test double.
func NewSESClientFromAPI(api SESAPI) *SESClient {
	return &SESClient{client: api}
}

// Email is a single UTF-8 message with HTML and plain-text parts.
type Email struct {
	From    string
	To      []string
	ReplyTo []string
	Subject string
	HTML    string
	Text    string
}

// SendEmail sends the message and returns the SES message id.
func (s *SESClient) SendEmail(ctx context.Context, email Email) (string, error) {
	body := &types.Body{}
	if email.HTML != "" {
		body.Html = &types.Content{Charset: awssdk.String("UTF-8"), Data: awssdk.String(email.HTML)}
	}
	if email.Text != "" {
		body.Text = &types.Content{Charset: awssdk.String("UTF-8"), Data: awssdk.String(email.Text)}
	}

	out, err := s.client.SendEmail(ctx, &ses.SendEmailInput{
		Source:           awssdk.String(email.From),
		Destination:      &types.Destination{ToAddresses: email.To},
		ReplyToAddresses: email.ReplyTo,
		Message: &types.Message{
			Subject: &types.Content{Charset: awssdk.String("UTF-8"), Data: awssdk.String(email.Subject)},
			Body:    body,
		},
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.MessageId), nil
}
