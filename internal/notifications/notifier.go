// Package notifications alerts the team when a new lead arrives.
package notifications

import (
	"context"

	"site-integrations/internal/common/aws"
	"site-integrations/internal/common/config"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

// Notifier sends new-lead alerts. Delivery failures are reported in the
// returned records, never as errors.
type Notifier interface {
	Notify(ctx context.Context, contact models.Contact) []models.Notification
}

// Noop sends nothing.
type Noop struct{}

func (Noop) Notify(context.Context, models.Contact) []models.Notification {
	return nil
}

// Multi fans a contact out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, contact models.Contact) []models.Notification {
	var out []models.Notification
	for _, n := range m {
		out = append(out, n.Notify(ctx, contact)...)
	}
	return out
}

// New builds the notifiers enabled in cfg. Channels missing a recipient are
// skipped with a warning; nothing enabled yields Noop.
func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (Notifier, error) {
	log = log.Named("notifications")
	var multi Multi

	if cfg.Email.Enabled {
		if cfg.Email.FromEmail == "" || cfg.Email.ToEmail == "" {
			log.Warn("email notifications enabled without sender or recipient, skipping", nil)
		} else {
			client, err := aws.NewSESClient(ctx, cfg.AWS.Region)
			if err != nil {
				return nil, err
			}
			multi = append(multi, NewSESNotifier(client, cfg.Email.FromEmail, cfg.Email.ToEmail, log))
		}
	}

	if cfg.SMS.Enabled {
		if cfg.SMS.PhoneNumber == "" {
			log.Warn("sms notifications enabled without a phone number, skipping", nil)
		} else {
			client, err := aws.NewSNSClient(ctx, cfg.AWS.Region)
			if err != nil {
				return nil, err
			}
			multi = append(multi, NewSNSNotifier(client, cfg.SMS.PhoneNumber, cfg.SMS.SenderID, log))
		}
	}

	if len(multi) == 0 {
		log.Info("team notifications disabled", nil)
		return Noop{}, nil
	}
	return multi, nil
}

func record(contactID, channel, messageID string, err error) models.Notification {
	n := models.Notification{
		ContactID: contactID,
		Channel:   channel,
		Status:    models.NotificationStatusSent,
		MessageID: messageID,
	}
	if err != nil {
		n.Status = models.NotificationStatusFailed
		n.MessageID = ""
		n.Error = err.Error()
	}
	return n
}
