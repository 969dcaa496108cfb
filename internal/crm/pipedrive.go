package crm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	httpx "site-integrations/internal/common/http"
	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

const defaultPipedriveBaseURL = "https://api.pipedrive.com/v1"

// pipedriveStages maps pipeline stage names to stage ids of the default pipeline.
var pipedriveStages = map[string]int{
	"appointmentscheduled":  1,
	"qualifiedtobuy":        2,
	"presentationscheduled": 3,
	"decisionmakerboughtin": 4,
	"contractsent":          5,
	"closedwon":             6,
	"closedlost":            7,
}

type PipedriveAdapter struct {
	vendor
	apiToken string
	ownerID  string
	baseURL  string
}

func NewPipedriveAdapter(apiToken, ownerID, baseURL string, client *httpx.Client, log logger.Logger) *PipedriveAdapter {
	if baseURL == "" {
		baseURL = defaultPipedriveBaseURL
	}
	return &PipedriveAdapter{
		vendor:   newVendor(ProviderPipedrive, client, log),
		apiToken: apiToken,
		ownerID:  ownerID,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (p *PipedriveAdapter) Provider() Provider {
	return ProviderPipedrive
}

type pipedriveValue struct {
	Value   string `json:"value"`
	Primary bool   `json:"primary"`
}

type pipedriveResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		ID jsonID `json:"id"`
	} `json:"data"`
}

func (p *PipedriveAdapter) CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse {
	first, last := models.SplitName(data.Name)

	phones := []pipedriveValue{}
	if data.Phone != "" {
		phones = append(phones, pipedriveValue{Value: data.Phone, Primary: true})
	}
	person := map[string]interface{}{
		"name":       strings.TrimSpace(data.Name),
		"first_name": first,
		"last_name":  last,
		"email":      []pipedriveValue{{Value: data.Email, Primary: true}},
		"phone":      phones,
		"org_name":   data.Company,
	}
	if p.ownerID != "" {
		person["owner_id"] = numericOrString(p.ownerID)
	}
	person = models.MergeCustomFields(person, data.CustomFields)

	resp, err := p.call(ctx, "create_contact", http.MethodPost, p.endpoint("/persons", nil), nil, person)
	if err != nil {
		p.fail("create_contact", err, map[string]interface{}{"email": data.Email})
		return models.CRMFailure("failed to create contact in Pipedrive")
	}

	var body pipedriveResponse
	_ = resp.Decode(&body)

	if !resp.OK() {
		p.fail("create_contact", statusError(resp), map[string]interface{}{
			"email":  data.Email,
			"status": resp.StatusCode,
		})
		// Pipedrive answers duplicates with 400.
		if resp.StatusCode == http.StatusBadRequest {
			if id := p.findByEmail(ctx, data.Email); id != "" {
				return models.CRMResponse{Success: true, ContactID: id}
			}
		}
		return models.CRMFailure(firstNonEmpty(body.Error, "failed to create contact in Pipedrive"))
	}

	contactID := body.Data.ID.String()
	if contactID == "" {
		p.fail("create_contact", fmt.Errorf("response carried no person id"), map[string]interface{}{"email": data.Email})
		return models.CRMFailure("Pipedrive did not return a contact id")
	}

	if data.Message != "" {
		p.addNote(ctx, contactID, data.Message)
	}
	return models.CRMResponse{Success: true, ContactID: contactID}
}

func (p *PipedriveAdapter) CreateDeal(ctx context.Context, contactID string, deal models.DealData) models.CRMResponse {
	value := 0.0
	if deal.Value != nil {
		value = *deal.Value
	}
	payload := map[string]interface{}{
		"title":     deal.Title,
		"value":     value,
		"currency":  deal.CurrencyOrDefault(),
		"stage_id":  pipedriveStageID(deal.Stage),
		"person_id": numericOrString(contactID),
	}
	if p.ownerID != "" {
		payload["owner_id"] = numericOrString(p.ownerID)
	}
	payload = models.MergeCustomFields(payload, deal.CustomFields)

	resp, err := p.call(ctx, "create_deal", http.MethodPost, p.endpoint("/deals", nil), nil, payload)
	if err != nil {
		p.fail("create_deal", err, map[string]interface{}{"contactId": contactID})
		return models.CRMFailure("failed to create deal in Pipedrive")
	}

	var body pipedriveResponse
	_ = resp.Decode(&body)
	if !resp.OK() {
		p.fail("create_deal", statusError(resp), map[string]interface{}{
			"contactId": contactID,
			"status":    resp.StatusCode,
		})
		return models.CRMFailure(firstNonEmpty(body.Error, "failed to create deal in Pipedrive"))
	}
	return models.CRMResponse{Success: true, ContactID: contactID, DealID: body.Data.ID.String()}
}

func (p *PipedriveAdapter) addNote(ctx context.Context, contactID, message string) {
	resp, err := p.call(ctx, "add_note", http.MethodPost, p.endpoint("/notes", nil), nil, map[string]interface{}{
		"content":   message,
		"person_id": numericOrString(contactID),
	})
	if err == nil && !resp.OK() {
		err = statusError(resp)
	}
	if err != nil {
		p.warn("failed to attach note to Pipedrive person", map[string]interface{}{
			"contactId": contactID,
			"error":     err,
		})
	}
}

func (p *PipedriveAdapter) findByEmail(ctx context.Context, email string) string {
	q := url.Values{}
	q.Set("term", email)
	q.Set("fields", "email")
	q.Set("exact_match", "true")

	resp, err := p.call(ctx, "search_contact", http.MethodGet, p.endpoint("/persons/search", q), nil, nil)
	if err != nil || !resp.OK() {
		return ""
	}
	var body struct {
		Data struct {
			Items []struct {
				Item struct {
					ID jsonID `json:"id"`
				} `json:"item"`
			} `json:"items"`
		} `json:"data"`
	}
	if err := resp.Decode(&body); err != nil || len(body.Data.Items) == 0 {
		return ""
	}
	return body.Data.Items[0].Item.ID.String()
}

func (p *PipedriveAdapter) endpoint(path string, q url.Values) string {
	if q == nil {
		q = url.Values{}
	}
	q.Set("api_token", p.apiToken)
	return p.baseURL + path + "?" + q.Encode()
}

func pipedriveStageID(stage string) int {
	if id, ok := pipedriveStages[strings.ToLower(stage)]; ok {
		return id
	}
	return 1
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
