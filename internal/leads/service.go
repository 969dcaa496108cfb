// Package leads handles contact-form submissions: the contact is stored first,
// then the team is alerted and the lead pushed to the CRM on a best-effort basis.
package leads

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "site-integrations/internal/common/errors"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/metrics"
	"site-integrations/internal/crm"
	"site-integrations/internal/models"
	"site-integrations/internal/notifications"
)

const (
	submissionInvalid = "invalid"
	submissionFailed  = "error"
	submissionCreated = "created"
)

// AdapterSource hands out the process-wide CRM adapter.
type AdapterSource interface {
	Adapter() crm.LeadAdapter
}

// Result describes a stored submission. CRM fields are informational only.
type Result struct {
	ContactID     string                `json:"contactId"`
	CRMSynced     bool                  `json:"crmSynced"`
	CRMContactID  string                `json:"crmContactId,omitempty"`
	CRMDealID     string                `json:"crmDealId,omitempty"`
	Notifications []models.Notification `json:"notifications,omitempty"`
}

type ServiceOptions struct {
	Repository Repository
	Notifier   notifications.Notifier
	CRM        AdapterSource
	// DealTitle enables deal creation after a successful CRM contact sync.
	DealTitle string
	Logger    logger.Logger
}

type Service struct {
	repo      Repository
	notifier  notifications.Notifier
	crm       AdapterSource
	dealTitle string
	logger    logger.Logger
	now       func() time.Time
	newID     func() string
}

func NewService(opts ServiceOptions) *Service {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.Noop{}
	}
	return &Service{
		repo:      opts.Repository,
		notifier:  notifier,
		crm:       opts.CRM,
		dealTitle: strings.TrimSpace(opts.DealTitle),
		logger:    log.Named("leads"),
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.New().String() },
	}
}

// Submit validates and stores a submission. Only validation and persistence
// failures are returned; notification and CRM problems are logged.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Result, error) {
	sub = sub.normalized()

	if res := sub.Validate(); !res.Valid {
		metrics.LeadSubmissions.WithLabelValues(submissionInvalid).Inc()
		return nil, apperrors.NewValidationError(strings.Join(res.GetErrorMessages(), "; ")).
			WithMetadata("errors", res.Errors)
	}

	source := sub.Source
	if source == "" {
		source = models.DefaultSource
	}
	contact := models.Contact{
		ID:        s.newID(),
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Company:   sub.Company,
		Website:   sub.Website,
		Message:   sub.Message,
		Source:    source,
		Status:    models.ContactStatusNew,
		CreatedAt: s.now(),
	}

	if s.repo == nil {
		metrics.LeadSubmissions.WithLabelValues(submissionFailed).Inc()
		return nil, apperrors.NewDatabaseInsertFailedError(errors.New("contacts repository not configured"))
	}
	if err := s.repo.CreateContact(ctx, contact); err != nil {
		metrics.LeadSubmissions.WithLabelValues(submissionFailed).Inc()
		s.logger.Error("failed to store contact", map[string]interface{}{
			"contactId": contact.ID,
			"error":     err,
		})
		return nil, apperrors.NewDatabaseInsertFailedError(err)
	}
	metrics.LeadSubmissions.WithLabelValues(submissionCreated).Inc()
	s.logger.Info("contact stored", map[string]interface{}{
		"contactId": contact.ID,
		"source":    contact.Source,
	})

	result := &Result{ContactID: contact.ID}
	result.Notifications = s.notifier.Notify(ctx, contact)
	s.syncCRM(ctx, contact, result)
	return result, nil
}

func (s *Service) syncCRM(ctx context.Context, contact models.Contact, result *Result) {
	if s.crm == nil {
		return
	}
	adapter := s.crm.Adapter()
	if adapter.Provider() == crm.ProviderNone {
		return
	}

	log := s.logger.WithFields(map[string]interface{}{
		"contactId": contact.ID,
		"provider":  string(adapter.Provider()),
	})

	resp := adapter.CreateContact(ctx, contact.ContactData())
	if !resp.Success {
		log.Warn("crm sync failed", map[string]interface{}{"reason": resp.Error})
		return
	}
	result.CRMSynced = true
	result.CRMContactID = resp.ContactID

	if s.dealTitle == "" || resp.ContactID == "" {
		return
	}
	deal := crm.CreateDeal(ctx, adapter, resp.ContactID, models.DealData{
		Title: s.dealTitle + " - " + contact.Name,
	})
	if !deal.Success {
		log.Warn("crm deal creation failed", map[string]interface{}{"reason": deal.Error})
		return
	}
	result.CRMDealID = deal.DealID
}
