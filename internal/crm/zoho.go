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

const (
	defaultZohoBaseURL = "https://www.zohoapis.com/crm/v3"
	zohoDuplicateCode  = "DUPLICATE_DATA"
	zohoDefaultStage   = "Qualification"
)

type ZohoAdapter struct {
	vendor
	oauthToken string
	baseURL    string
}

func NewZohoAdapter(oauthToken, baseURL string, client *httpx.Client, log logger.Logger) *ZohoAdapter {
	if baseURL == "" {
		baseURL = defaultZohoBaseURL
	}
	return &ZohoAdapter{
		vendor:     newVendor(ProviderZoho, client, log),
		oauthToken: oauthToken,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (z *ZohoAdapter) Provider() Provider {
	return ProviderZoho
}

// zohoRecordResult is one entry of the data array returned by record writes.
type zohoRecordResult struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Details struct {
		ID jsonID `json:"id"`
	} `json:"details"`
}

type zohoWriteResponse struct {
	Data []zohoRecordResult `json:"data"`
	// request-level failures
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (r zohoWriteResponse) first() zohoRecordResult {
	if len(r.Data) == 0 {
		return zohoRecordResult{Code: r.Code, Message: r.Message}
	}
	return r.Data[0]
}

func (z *ZohoAdapter) headers() map[string]string {
	return map[string]string{"Authorization": "Zoho-oauthtoken " + z.oauthToken}
}

func (z *ZohoAdapter) CreateContact(ctx context.Context, data models.ContactData) models.CRMResponse {
	first, last := models.SplitName(data.Name)
	source := data.Source
	if source == "" {
		source = models.DefaultSource
	}
	record := map[string]interface{}{
		"Email":       data.Email,
		"First_Name":  first,
		"Last_Name":   last,
		"Phone":       data.Phone,
		"Company":     data.Company,
		"Website":     data.Website,
		"Description": data.Message,
		"Lead_Source": source,
	}
	if len(data.Tags) > 0 {
		tags := make([]map[string]string, len(data.Tags))
		for i, t := range data.Tags {
			tags[i] = map[string]string{"name": t}
		}
		record["Tag"] = tags
	}
	record = models.MergeCustomFields(record, data.CustomFields)

	resp, err := z.call(ctx, "create_contact", http.MethodPost, z.baseURL+"/Contacts", z.headers(),
		map[string]interface{}{"data": []map[string]interface{}{record}})
	if err != nil {
		z.fail("create_contact", err, map[string]interface{}{"email": data.Email})
		return models.CRMFailure("failed to create contact in Zoho CRM")
	}

	var body zohoWriteResponse
	_ = resp.Decode(&body)
	result := body.first()

	if resp.OK() && strings.EqualFold(result.Status, "success") {
		return models.CRMResponse{Success: true, ContactID: result.Details.ID.String()}
	}

	z.fail("create_contact", fmt.Errorf("status %d code %s", resp.StatusCode, result.Code), map[string]interface{}{
		"email":  data.Email,
		"status": resp.StatusCode,
	})
	// Zoho signals duplicates per record rather than through the HTTP status.
	if result.Code == zohoDuplicateCode {
		if id := z.findByEmail(ctx, data.Email); id != "" {
			return models.CRMResponse{Success: true, ContactID: id}
		}
	}
	return models.CRMFailure(firstNonEmpty(result.Message, "failed to create contact in Zoho CRM"))
}

func (z *ZohoAdapter) CreateDeal(ctx context.Context, contactID string, deal models.DealData) models.CRMResponse {
	stage := deal.Stage
	if stage == "" {
		stage = zohoDefaultStage
	}
	record := map[string]interface{}{
		"Deal_Name":    deal.Title,
		"Stage":        stage,
		"Currency":     deal.CurrencyOrDefault(),
		"Contact_Name": map[string]string{"id": contactID},
	}
	if deal.Value != nil {
		record["Amount"] = *deal.Value
	}
	record = models.MergeCustomFields(record, deal.CustomFields)

	resp, err := z.call(ctx, "create_deal", http.MethodPost, z.baseURL+"/Deals", z.headers(),
		map[string]interface{}{"data": []map[string]interface{}{record}})
	if err != nil {
		z.fail("create_deal", err, map[string]interface{}{"contactId": contactID})
		return models.CRMFailure("failed to create deal in Zoho CRM")
	}

	var body zohoWriteResponse
	_ = resp.Decode(&body)
	result := body.first()
	if !resp.OK() || !strings.EqualFold(result.Status, "success") {
		z.fail("create_deal", fmt.Errorf("status %d code %s", resp.StatusCode, result.Code), map[string]interface{}{
			"contactId": contactID,
			"status":    resp.StatusCode,
		})
		return models.CRMFailure(firstNonEmpty(result.Message, "failed to create deal in Zoho CRM"))
	}
	return models.CRMResponse{Success: true, ContactID: contactID, DealID: result.Details.ID.String()}
}

// findByEmail returns "" when Zoho answers 204 for no matches.
func (z *ZohoAdapter) findByEmail(ctx context.Context, email string) string {
	q := url.Values{}
	q.Set("email", email)
	resp, err := z.call(ctx, "search_contact", http.MethodGet, z.baseURL+"/Contacts/search?"+q.Encode(), z.headers(), nil)
	if err != nil || resp.StatusCode != http.StatusOK {
		return ""
	}
	var body struct {
		Data []struct {
			ID jsonID `json:"id"`
		} `json:"data"`
	}
	if err := resp.Decode(&body); err != nil || len(body.Data) == 0 {
		return ""
	}
	return body.Data[0].ID.String()
}
