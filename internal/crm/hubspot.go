package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

const (
	defaultHubSpotBaseURL = "https://api.hubapi.com"
	hubspotDefaultStage   = "appointmentscheduled"
	// contact-to-deal association type
	hubspotDealContactAssociation = 3
)

// hubspotWorkflowSources are the lead sources enrolled in the configured workflow.
var hubspotWorkflowSources = map[string]bool{
	"website":   true,
	"seo-audit": true,
}

type HubSpotAdapter struct {
	vendor
	apiKey     string
	workflowID string
	baseURL    string
}

func NewHubSpotAdapter(apiKey, workflowID, baseURL string, client *httpx.Client, log logger.Logger) *HubSpotAdapter {
	if baseURL == "" {
		baseURL = defaultHubSpotBaseURL
	}
	return &HubSpotAdapter{
		vendor:     newVendor(ProviderHubSpot, client, log),
		apiKey:     apiKey,
		workflowID: workflowID,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (h *HubSpotAdapter) Provider() Provider {
	return ProviderHubSpot
}

type hubspotObject struct {
	ID      jsonID `json:"id"`
	Message string `json:"message"`
}

func (h *HubSpotAdapter) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + h.apiKey}
}

func (h *HubSpotAdapter) CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse {
	first, last := models.SplitName(data.Name)
	properties := map[string]interface{}{
		"email":          data.Email,
		"firstname":      first,
		"lastname":       last,
		"phone":          data.Phone,
		"company":        data.Company,
		"website":        data.Website,
		"message":        data.Message,
		"hs_lead_status": "NEW",
	}
	properties = models.MergeCustomFields(properties, data.CustomFields)

	resp, err := h.call(ctx, "create_contact", http.MethodPost, h.baseURL+"/crm/v3/objects/contacts",
		h.headers(), map[string]interface{}{"properties": properties})
	if err != nil {
		h.fail("create_contact", err, map[string]interface{}{"email": data.Email})
		return models.CRMFailure("failed to create contact in HubSpot")
	}

	var body hubspotObject
	_ = resp.Decode(&body)

	if !resp.OK() {
		h.fail("create_contact", statusError(resp), map[string]interface{}{
			"email":  data.Email,
			"status": resp.StatusCode,
		})
		if resp.StatusCode == http.StatusConflict {
			if id := h.findByEmail(ctx, data.Email); id != "" {
				return models.CRMResponse{Success: true, ContactID: id}
			}
		}
		return models.CRMFailure(firstNonEmpty(body.Message, "failed to create contact in HubSpot"))
	}

	contactID := body.ID.String()
	if contactID == "" {
		h.fail("create_contact", fmt.Errorf("response carried no contact id"), map[string]interface{}{"email": data.Email})
		return models.CRMFailure("HubSpot did not return a contact id")
	}
	if h.workflowID != "" && hubspotWorkflowSources[data.Source] {
		h.AddToWorkflow(ctx, contactID, h.workflowID)
	}
	return models.CRMResponse{Success: true, ContactID: contactID}
}

func (h *HubSpotAdapter) CreateDeal(ctx context.Context, contactID string, deal models.DealData) models.CRMResponse {
	amount := ""
	if deal.Value != nil {
		amount = strconv.FormatFloat(*deal.Value, 'f', -1, 64)
	}
	stage := deal.Stage
	if stage == "" {
		stage = hubspotDefaultStage
	}
	properties := map[string]interface{}{
		"dealname":           deal.Title,
		"amount":             amount,
		"dealstage":          stage,
		"pipeline":           "default",
		"deal_currency_code": deal.CurrencyOrDefault(),
	}
	properties = models.MergeCustomFields(properties, deal.CustomFields)

	payload := map[string]interface{}{
		"properties": properties,
		"associations": []map[string]interface{}{{
			"to": map[string]string{"id": contactID},
			"types": []map[string]interface{}{{
				"associationCategory": "HUBSPOT_DEFINED",
				"associationTypeId":   hubspotDealContactAssociation,
			}},
		}},
	}

	resp, err := h.call(ctx, "create_deal", http.MethodPost, h.baseURL+"/crm/v3/objects/deals", h.headers(), payload)
	if err != nil {
		h.fail("create_deal", err, map[string]interface{}{"contactId": contactID})
		return models.CRMFailure("failed to create deal in HubSpot")
	}

	var body hubspotObject
	_ = resp.Decode(&body)
	if !resp.OK() {
		h.fail("create_deal", statusError(resp), map[string]interface{}{
			"contactId": contactID,
			"status":    resp.StatusCode,
		})
		return models.CRMFailure(firstNonEmpty(body.Message, "failed to create deal in HubSpot"))
	}
	return models.CRMResponse{Success: true, ContactID: contactID, DealID: body.ID.String()}
}

func (h *HubSpotAdapter) AddToWorkflow(ctx context.Context, contactID, workflowID string) {
	endpoint := fmt.Sprintf("%s/automation/v3/workflows/%s/enrollments/contacts/%s",
		h.baseURL, url.PathEscape(workflowID), url.PathEscape(contactID))
	resp, err := h.call(ctx, "add_to_workflow", http.MethodPost, endpoint, h.headers(), map[string]interface{}{})
	if err == nil && !resp.OK() {
		err = statusError(resp)
	}
	if err != nil {
		h.warn("failed to enroll contact in HubSpot workflow", map[string]interface{}{
			"contactId":  contactID,
			"workflowId": workflowID,
			"error":      err,
		})
	}
}

func (h *HubSpotAdapter) findByEmail(ctx context.Context, email string) string {
	endpoint := h.baseURL + "/crm/v3/objects/contacts/" + url.PathEscape(email) + "?idProperty=email"
	resp, err := h.call(ctx, "search_contact", http.MethodGet, endpoint, h.headers(), nil)
	if err != nil || !resp.OK() {
		return ""
	}
	var body hubspotObject
	if err := resp.Decode(&body); err != nil {
		return ""
	}
	return body.ID.String()
}
