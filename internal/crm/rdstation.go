package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

const (
	defaultRDStationBaseURL = "https://api.rd.services"
	rdConversionIdentifier  = "formulario-contato"
	rdDefaultDealStage      = "qualificacao"
	// DefaultRDStationLookupDelay gives the conversion time to materialize a contact.
	DefaultRDStationLookupDelay = time.Second
)

type RDStationAdapter struct {
	vendor
	publicToken  string
	privateToken string
	baseURL      string
	lookupDelay  time.Duration
}

func NewRDStationAdapter(publicToken, privateToken, baseURL string, lookupDelay time.Duration, client *httpx.Client, log logger.Logger) *RDStationAdapter {
	if baseURL == "" {
		baseURL = defaultRDStationBaseURL
	}
	if lookupDelay < 0 {
		lookupDelay = 0
	}
	return &RDStationAdapter{
		vendor:       newVendor(ProviderRDStation, client, log),
		publicToken:  publicToken,
		privateToken: privateToken,
		baseURL:      strings.TrimRight(baseURL, "/"),
		lookupDelay:  lookupDelay,
	}
}

func (r *RDStationAdapter) Provider() Provider {
	return ProviderRDStation
}

type rdErrorBody struct {
	Error  string `json:"error"`
	Errors struct {
		ErrorType    string `json:"error_type"`
		ErrorMessage string `json:"error_message"`
	} `json:"errors"`
}

func (b rdErrorBody) message() string {
	return firstNonEmpty(b.Errors.ErrorMessage, b.Error)
}

func (r *RDStationAdapter) CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse {
	source := data.Source
	if source == "" {
		source = models.DefaultSource
	}
	tags := data.Tags
	if len(tags) == 0 {
		tags = []string{"lead", "website"}
	}

	payload := map[string]interface{}{
		"conversion_identifier": rdConversionIdentifier,
		"name":                  strings.TrimSpace(data.Name),
		"email":                 data.Email,
		"personal_phone":        data.Phone,
		"company_name":          data.Company,
		"website":               data.Website,
		"cf_origem":             source,
		"cf_mensagem":           data.Message,
		"tags":                  tags,
	}
	payload = models.MergeCustomFields(payload, data.CustomFields)

	event := map[string]interface{}{
		"event_type":   "CONVERSION",
		"event_family": "CDP",
		"payload":      payload,
	}

	resp, err := r.call(ctx, "create_contact", http.MethodPost, r.endpoint("/platform/conversions", r.publicToken), nil, event)
	if err != nil {
		r.fail("create_contact", err, map[string]interface{}{"email": data.Email})
		return models.CRMFailure("failed to create contact in RD Station")
	}

	if !resp.OK() {
		var body rdErrorBody
		_ = resp.Decode(&body)
		r.fail("create_contact", statusError(resp), map[string]interface{}{
			"email":  data.Email,
			"status": resp.StatusCode,
		})
		if resp.StatusCode == http.StatusConflict {
			if id := r.findByEmail(ctx, data.Email); id != "" {
				return models.CRMResponse{Success: true, ContactID: id}
			}
		}
		return models.CRMFailure(firstNonEmpty(body.message(), "failed to create contact in RD Station"))
	}

	// Conversions are processed asynchronously; the id may not exist yet.
	if !r.sleep(ctx) {
		return models.CRMResponse{Success: true}
	}
	id := r.findByEmail(ctx, data.Email)
	if id == "" {
		r.warn("contact not yet visible in RD Station", map[string]interface{}{"email": data.Email})
	}
	return models.CRMResponse{Success: true, ContactID: id}
}

func (r *RDStationAdapter) CreateDeal(ctx context.Context, contactID string, deal models.DealData) models.CRMResponse {
	amount := 0.0
	if deal.Value != nil {
		amount = *deal.Value
	}
	stage := deal.Stage
	if stage == "" {
		stage = rdDefaultDealStage
	}
	payload := map[string]interface{}{
		"name":       deal.Title,
		"amount":     amount,
		"currency":   deal.CurrencyOrDefault(),
		"stage":      stage,
		"contact_id": contactID,
	}
	payload = models.MergeCustomFields(payload, deal.CustomFields)

	resp, err := r.call(ctx, "create_deal", http.MethodPost, r.endpoint("/platform/deals", r.privateToken), nil, payload)
	if err != nil {
		r.fail("create_deal", err, map[string]interface{}{"contactId": contactID})
		return models.CRMFailure("failed to create deal in RD Station")
	}
	if !resp.OK() {
		var body rdErrorBody
		_ = resp.Decode(&body)
		r.fail("create_deal", statusError(resp), map[string]interface{}{
			"contactId": contactID,
			"status":    resp.StatusCode,
		})
		return models.CRMFailure(firstNonEmpty(body.message(), "failed to create deal in RD Station"))
	}

	var body struct {
		ID jsonID `json:"id"`
	}
	_ = resp.Decode(&body)
	return models.CRMResponse{Success: true, ContactID: contactID, DealID: body.ID.String()}
}

func (r *RDStationAdapter) AddToWorkflow(ctx context.Context, contactID, workflowID string) {
	path := fmt.Sprintf("/platform/automations/%s/contacts/%s", url.PathEscape(workflowID), url.PathEscape(contactID))
	resp, err := r.call(ctx, "add_to_workflow", http.MethodPost, r.endpoint(path, r.privateToken), nil, map[string]interface{}{})
	if err == nil && !resp.OK() {
		err = statusError(resp)
	}
	if err != nil {
		r.warn("failed to enroll contact in RD Station automation", map[string]interface{}{
			"contactId":  contactID,
			"workflowId": workflowID,
			"error":      err,
		})
	}
}

func (r *RDStationAdapter) findByEmail(ctx context.Context, email string) string {
	path := "/platform/contacts/email:" + url.PathEscape(email)
	resp, err := r.call(ctx, "search_contact", http.MethodGet, r.endpoint(path, r.privateToken), nil, nil)
	if err != nil || !resp.OK() {
		return ""
	}
	var body struct {
		ID   jsonID `json:"id"`
		UUID string `json:"uuid"`
	}
	if err := resp.Decode(&body); err != nil {
		return ""
	}
	return firstNonEmpty(body.ID.String(), body.UUID)
}

func (r *RDStationAdapter) sleep(ctx context.Context) bool {
	if r.lookupDelay == 0 {
		return true
	}
	t := time.NewTimer(r.lookupDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (r *RDStationAdapter) endpoint(path, token string) string {
	q := url.Values{}
	q.Set("api_key", token)
	return r.baseURL + path + "?" + q.Encode()
}
