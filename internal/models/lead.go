// internal/models/lead.go
package models

import "strings"

const DefaultCurrency = "BRL"

// ContactData is the canonical lead pushed to a CRM. Email is the only key
// that is unique across providers.
type ContactData struct {
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone,omitempty"`
	Company string   `json:"company,omitempty"`
	Website string   `json:"website,omitempty"`
	Message string   `json:"message,omitempty"`
	Source  string   `json:"source,omitempty"`
	Tags    []string `json:"tags,omitempty"`

	// CustomFields holds scalar values merged into the vendor payload last,
	// so a custom key overrides the adapter-built key of the same name.
	CustomFields map[string]interface{} `json:"customFields,omitempty"`
}

type DealData struct {
	Title        string                 `json:"title"`
	Value        *float64               `json:"value,omitempty"`
	Currency     string                 `json:"currency,omitempty"`
	Stage        string                 `json:"stage,omitempty"`
	CustomFields map[string]interface{} `json:"customFields,omitempty"`
}

// CurrencyOrDefault returns Currency or BRL.
func (d DealData) CurrencyOrDefault() string {
	if d.Currency == "" {
		return DefaultCurrency
	}
	return d.Currency
}

// CRMResponse is the outcome of an adapter call. Failures are values.
type CRMResponse struct {
	Success   bool   `json:"success"`
	ContactID string `json:"contactId,omitempty"`
	DealID    string `json:"dealId,omitempty"`
	Error     string `json:"error,omitempty"`
}

func CRMFailure(msg string) CRMResponse {
	return CRMResponse{Success: false, Error: msg}
}

// SplitName returns the first whitespace-separated token and the rest joined
// by single spaces. A single token yields an empty last name.
func SplitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

// MergeCustomFields copies custom into payload, overwriting existing keys.
func MergeCustomFields(payload map[string]interface{}, custom map[string]interface{}) map[string]interface{} {
	if payload == nil {
		payload = make(map[string]interface{}, len(custom))
	}
	for k, v := range custom {
		payload[k] = v
	}
	return payload
}
