// internal/models/notification.go
package models

const (
	NotificationChannelEmail = "email"
	NotificationChannelSMS   = "sms"

	NotificationStatusSent     = "sent"
	NotificationStatusFailed   = "failed"
	NotificationStatusDisabled = "disabled"
)

// Notification records one delivery attempt of a new-lead alert.
type Notification struct {
	ContactID string `json:"contactId"`
	Channel   string `json:"channel"`
	Status    string `json:"status"`
	MessageID string `json:"messageId,omitempty"`
	Error     string `json:"error,omitempty"`
}
