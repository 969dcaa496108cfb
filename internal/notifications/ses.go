package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"site-integrations/internal/common/aws"
	apperrors "site-integrations/internal/common/errors"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

var leadEmailHTML = template.Must(template.New("lead").Funcs(template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
}).Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #333;">New contact received</h2>
  <div style="background: #f5f5f5; padding: 20px; border-radius: 8px;">
    <p><strong>Name:</strong> {{.Name}}</p>
    <p><strong>Email:</strong> {{.Email}}</p>
    {{- if .Phone}}
    <p><strong>Phone:</strong> {{.Phone}}</p>
    {{- end}}
    {{- if .Company}}
    <p><strong>Company:</strong> {{.Company}}</p>
    {{- end}}
    {{- if .Website}}
    <p><strong>Website:</strong> {{.Website}}</p>
    {{- end}}
    <p><strong>Message:</strong></p>
    <div style="background: white; padding: 15px; border-radius: 4px; margin-top: 10px;">
      {{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}
    </div>
  </div>
  <p style="margin-top: 20px; color: #666;"><small>Received {{.CreatedAt.Format "2006-01-02 15:04 MST"}} via {{.Source}}</small></p>
</div>`))

type emailSender interface {
	SendEmail(ctx context.Context, email aws.Email) (string, error)
}

// SESNotifier e-mails new leads to the team address. Replies go to the visitor.
type SESNotifier struct {
	client emailSender
	from   string
	to     string
	logger logger.Logger
}

func NewSESNotifier(client *aws.SESClient, from, to string, log logger.Logger) *SESNotifier {
	return &SESNotifier{
		client: client,
		from:   from,
		to:     to,
		logger: log.WithFields(map[string]interface{}{"channel": models.NotificationChannelEmail}),
	}
}

func (s *SESNotifier) Notify(ctx context.Context, contact models.Contact) []models.Notification {
	email, err := buildLeadEmail(contact)
	if err == nil {
		email.From = s.from
		email.To = []string{s.to}
		var id string
		id, err = s.client.SendEmail(ctx, email)
		if err == nil {
			s.logger.Info("lead notification sent", map[string]interface{}{
				"contactId": contact.ID,
				"messageId": id,
			})
			return []models.Notification{record(contact.ID, models.NotificationChannelEmail, id, nil)}
		}
	}

	err = apperrors.NewNotificationSendFailedError(models.NotificationChannelEmail, err)
	s.logger.Error("lead notification failed", map[string]interface{}{
		"contactId": contact.ID,
		"error":     err,
	})
	return []models.Notification{record(contact.ID, models.NotificationChannelEmail, "", err)}
}

func buildLeadEmail(c models.Contact) (aws.Email, error) {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	var html bytes.Buffer
	if err := leadEmailHTML.Execute(&html, c); err != nil {
		return aws.Email{}, fmt.Errorf("render lead email: %w", err)
	}

	var text strings.Builder
	fmt.Fprintf(&text, "New contact received\n\nName: %s\nEmail: %s\n", c.Name, c.Email)
	if c.Phone != "" {
		fmt.Fprintf(&text, "Phone: %s\n", c.Phone)
	}
	if c.Company != "" {
		fmt.Fprintf(&text, "Company: %s\n", c.Company)
	}
	if c.Website != "" {
		fmt.Fprintf(&text, "Website: %s\n", c.Website)
	}
	fmt.Fprintf(&text, "\n%s\n", c.Message)

	email := aws.Email{
		Subject: "New contact: " + c.Name,
		HTML:    html.String(),
		Text:    text.String(),
	}
	if c.Email != "" {
		email.ReplyTo = []string{c.Email}
	}
	return email, nil
}
