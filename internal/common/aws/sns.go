package aws

import (
	"context"
	"fmt"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client SNSAPI
}

func NewSNSClient(ctx context.Context, region string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSClient{client: sns.NewFromConfig(cfg)}, nil
}

func NewSNSClientFromAPI(api SNSAPI) *SNSClient {
	return &SNSClient{client: api}
}

// SendSMS publishes a transactional SMS directly to phone.
func (s *SNSClient) SendSMS(ctx context.Context, phone, message, senderID string) (string, error) {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String("Transactional"),
		},
	}
	if senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    awssdk.String("String"),
			StringValue: awssdk.String(senderID),
		}
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       awssdk.String(phone),
		Message:           awssdk.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", err
	}
	return awssdk.ToString(out.MessageId), nil
}
