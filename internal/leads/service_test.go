package leads

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "site-integrations/internal/common/errors"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/common/validation"
	"site-integrations/internal/crm"
	"site-integrations/internal/models"
)

// ==========================
// Mock Implementations
// ==========================

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateContact(ctx context.Context, c models.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, c models.Contact) []models.Notification {
	args := m.Called(ctx, c)
	out, _ := args.Get(0).([]models.Notification)
	return out
}

// MockAdapter implements crm.LeadAdapter and crm.DealCreator.
type MockAdapter struct {
	mock.Mock
}

func (m *MockAdapter) Provider() crm.Provider {
	return crm.ProviderHubSpot
}

func (m *MockAdapter) CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse {
	return m.Called(ctx, data).Get(0).(models.CRMResponse)
}

func (m *MockAdapter) CreateDeal(ctx context.Context, contactID string, deal models.DealData) models.CRMResponse {
	return m.Called(ctx, contactID, deal).Get(0).(models.CRMResponse)
}

type staticSource struct {
	adapter crm.LeadAdapter
}

func (s staticSource) Adapter() crm.LeadAdapter {
	return s.adapter
}

// ==========================
// Test Helper Functions
// ==========================

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ServiceOptions) *Service {
	if opts.Logger == nil {
		opts.Logger = logger.NewTestLogger(t)
	}
	s := NewService(opts)
	s.now = func() time.Time { return fixedNow }
	s.newID = func() string { return "contact-1" }
	return s
}

func expectedContact() models.Contact {
	return models.Contact{
		ID:        "contact-1",
		Name:      "Maria Souza",
		Email:     "maria@example.com",
		Phone:     "+55 11 99999-0000",
		Company:   "Padaria Central",
		Message:   "Gostaria de um orçamento de SEO.",
		Source:    models.DefaultSource,
		Status:    models.ContactStatusNew,
		CreatedAt: fixedNow,
	}
}

// ==========================
// Submit Tests
// ==========================

func TestService_Submit_FullFlow(t *testing.T) {
	repo := &MockRepository{}
	repo.On("CreateContact", mock.Anything, expectedContact()).Return(nil)

	notifier := &MockNotifier{}
	notifier.On("Notify", mock.Anything, expectedContact()).Return([]models.Notification{
		{ContactID: "contact-1", Channel: models.NotificationChannelEmail, Status: models.NotificationStatusSent},
	})

	adapter := &MockAdapter{}
	adapter.On("CreateContact", mock.Anything, expectedContact().ContactData()).
		Return(models.CRMResponse{Success: true, ContactID: "hs-42"})
	adapter.On("CreateDeal", mock.Anything, "hs-42", models.DealData{Title: "Site lead - Maria Souza"}).
		Return(models.CRMResponse{Success: true, ContactID: "hs-42", DealID: "deal-9"})

	svc := newTestService(t, ServiceOptions{
		Repository: repo,
		Notifier:   notifier,
		CRM:        staticSource{adapter},
		DealTitle:  "Site lead",
	})

	res, err := svc.Submit(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.Equal(t, "contact-1", res.ContactID)
	assert.True(t, res.CRMSynced)
	assert.Equal(t, "hs-42", res.CRMContactID)
	assert.Equal(t, "deal-9", res.CRMDealID)
	assert.Len(t, res.Notifications, 1)
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
	adapter.AssertExpectations(t)
}

func TestService_Submit_ValidationFailure(t *testing.T) {
	repo := &MockRepository{}
	svc := newTestService(t, ServiceOptions{Repository: repo})

	sub := validSubmission()
	sub.Email = "nope"
	res, err := svc.Submit(context.Background(), sub)

	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeValidationFailed))
	se := apperrors.AsStandard(err)
	fields, ok := se.Metadata["errors"].([]validation.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "email", fields[0].Field)
	repo.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
}

func TestService_Submit_PersistenceFailureIsReturned(t *testing.T) {
	repo := &MockRepository{}
	repo.On("CreateContact", mock.Anything, mock.Anything).Return(errors.New("database is down"))
	notifier := &MockNotifier{}
	adapter := &MockAdapter{}

	svc := newTestService(t, ServiceOptions{Repository: repo, Notifier: notifier, CRM: staticSource{adapter}})

	res, err := svc.Submit(context.Background(), validSubmission())

	assert.Nil(t, res)
	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseInsertFailed))
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
	adapter.AssertNotCalled(t, "CreateContact", mock.Anything, mock.Anything)
}

func TestService_Submit_CRMFailureDoesNotFailSubmission(t *testing.T) {
	repo := &MockRepository{}
	repo.On("CreateContact", mock.Anything, mock.Anything).Return(nil)
	adapter := &MockAdapter{}
	adapter.On("CreateContact", mock.Anything, mock.Anything).
		Return(models.CRMFailure("failed to create contact in HubSpot"))

	core, logs := observer.New(zapcore.WarnLevel)
	svc := newTestService(t, ServiceOptions{
		Repository: repo,
		CRM:        staticSource{adapter},
		DealTitle:  "Site lead",
		Logger:     logger.NewZapAdapter(zap.New(core)),
	})

	res, err := svc.Submit(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.Equal(t, "contact-1", res.ContactID)
	assert.False(t, res.CRMSynced)
	assert.Empty(t, res.CRMDealID)
	adapter.AssertNotCalled(t, "CreateDeal", mock.Anything, mock.Anything, mock.Anything)
	require.Equal(t, 1, logs.FilterMessage("crm sync failed").Len())
	assert.Equal(t, "failed to create contact in HubSpot",
		logs.FilterMessage("crm sync failed").All()[0].ContextMap()["reason"])
}

func TestService_Submit_NoopAdapterIsSkipped(t *testing.T) {
	repo := &MockRepository{}
	repo.On("CreateContact", mock.Anything, mock.Anything).Return(nil)

	svc := newTestService(t, ServiceOptions{Repository: repo, CRM: staticSource{crm.NewNoopAdapter()}})

	res, err := svc.Submit(context.Background(), validSubmission())

	require.NoError(t, err)
	assert.False(t, res.CRMSynced)
}

func TestService_Submit_SourceIsKept(t *testing.T) {
	repo := &MockRepository{}
	repo.On("CreateContact", mock.Anything, mock.MatchedBy(func(c models.Contact) bool {
		return c.Source == "seo-audit"
	})).Return(nil)

	svc := newTestService(t, ServiceOptions{Repository: repo})
	sub := validSubmission()
	sub.Source = "seo-audit"

	_, err := svc.Submit(context.Background(), sub)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestService_Submit_NoRepository(t *testing.T) {
	svc := newTestService(t, ServiceOptions{})

	_, err := svc.Submit(context.Background(), validSubmission())

	assert.True(t, apperrors.HasCode(err, apperrors.ErrCodeDatabaseInsertFailed))
}
