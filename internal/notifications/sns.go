package notifications

import (
	"context"
	"fmt"

	"site-integrations/internal/common/aws"
	apperrors "site-integrations/internal/common/errors"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

// SMS bodies longer than this are split by carriers.
const smsMaxLength = 160

type smsSender interface {
	SendSMS(ctx context.Context, phone, message, senderID string) (string, error)
}

// SNSNotifier texts a short new-lead alert to the on-call phone.
type SNSNotifier struct {
	client   smsSender
	phone    string
	senderID string
	logger   logger.Logger
}

func NewSNSNotifier(client *aws.SNSClient, phone, senderID string, log logger.Logger) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		phone:    phone,
		senderID: senderID,
		logger:   log.WithFields(map[string]interface{}{"channel": models.NotificationChannelSMS}),
	}
}

func (s *SNSNotifier) Notify(ctx context.Context, contact models.Contact) []models.Notification {
	id, err := s.client.SendSMS(ctx, s.phone, smsText(contact), s.senderID)
	if err != nil {
		err = apperrors.NewNotificationSendFailedError(models.NotificationChannelSMS, err)
		// the destination phone stays out of the logs
		s.logger.Error("lead notification failed", map[string]interface{}{
			"contactId": contact.ID,
			"error":     err,
		})
		return []models.Notification{record(contact.ID, models.NotificationChannelSMS, "", err)}
	}
	s.logger.Info("lead notification sent", map[string]interface{}{
		"contactId": contact.ID,
		"messageId": id,
	})
	return []models.Notification{record(contact.ID, models.NotificationChannelSMS, id, nil)}
}

func smsText(c models.Contact) string {
	msg := fmt.Sprintf("New lead: %s <%s>", c.Name, c.Email)
	if c.Company != "" {
		msg += " (" + c.Company + ")"
	}
	if r := []rune(msg); len(r) > smsMaxLength {
		msg = string(r[:smsMaxLength-3]) + "..."
	}
	return msg
}
