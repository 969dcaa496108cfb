package crm

import (
	"context"

	"site-integrations/internal/models"
)

// NoopAdapter is used when no CRM is configured. It never performs I/O.
type NoopAdapter struct{}

func NewNoopAdapter() *NoopAdapter {
	return &NoopAdapter{}
}

func (n *NoopAdapter) Provider() Provider {
	return ProviderNone
}

func (n *NoopAdapter) CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse {
	return models.CRMResponse{Success: false}
}
