// Package crm pushes site leads to the configured CRM vendor.
package crm

import (
	"context"
	"fmt"

	"site-integrations/internal/models"
)

type Provider string

const (
	ProviderNone      Provider = "none"
	ProviderPipedrive Provider = "pipedrive"
	ProviderRDStation Provider = "rdstation"
	ProviderHubSpot   Provider = "hubspot"
	ProviderZoho      Provider = "zoho"
)

// LeadAdapter creates contacts in one CRM. CreateContact never returns an
// error: failures are reported through CRMResponse.
type LeadAdapter interface {
	Provider() Provider
	CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse
}

// DealCreator is implemented by adapters whose vendor has a deal pipeline.
type DealCreator interface {
	CreateDeal(ctx context.Context, contactID string, deal models.DealData) models.CRMResponse
}

// WorkflowEnroller is implemented by adapters that can enroll contacts in
// automations. Enrollment is fire-and-forget.
type WorkflowEnroller interface {
	AddToWorkflow(ctx context.Context, contactID, workflowID string)
}

// CreateDeal calls the adapter's deal support when it has one.
func CreateDeal(ctx context.Context, a LeadAdapter, contactID string, deal models.DealData) models.CRMResponse {
	dc, ok := a.(DealCreator)
	if !ok {
		return models.CRMFailure(fmt.Sprintf("%s does not support deals", a.Provider()))
	}
	return dc.CreateDeal(ctx, contactID, deal)
}

// AddToWorkflow enrolls the contact when the adapter supports it and reports
// whether an enrollment was attempted.
func AddToWorkflow(ctx context.Context, a LeadAdapter, contactID, workflowID string) bool {
	we, ok := a.(WorkflowEnroller)
	if !ok {
		return false
	}
	we.AddToWorkflow(ctx, contactID, workflowID)
	return true
}
