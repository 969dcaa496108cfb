package crm

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

const (
	hubspotContactsPath = "/crm/v3/objects/contacts"
	hubspotWorkflowPath = "/automation/v3/workflows/wf-1/enrollments/contacts/c-7"
)

func newTestHubSpot(t *testing.T, f *fakeVendor, workflowID string) *HubSpotAdapter {
	return NewHubSpotAdapter("hs-key", workflowID, f.server.URL, testClient(), logger.NewTestLogger(t))
}

// ==========================
// CreateContact Tests
// ==========================

func TestHubSpot_CreateContact_Properties(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, hubspotContactsPath, respond(http.StatusCreated, `{"id":"c-7"}`))
	adapter := newTestHubSpot(t, f, "")

	resp := adapter.CreateContact(context.Background(), models.ContactData{
		Name:         "João Pedro Souza",
		Email:        "joao@example.com",
		Phone:        "+55 11 99999-0000",
		Source:       "blog",
		CustomFields: map[string]interface{}{"hs_lead_status": "OPEN", "utm_source": "google"},
	})

	require.True(t, resp.Success)
	assert.Equal(t, "c-7", resp.ContactID)

	calls := f.calls(http.MethodPost, hubspotContactsPath)
	require.Len(t, calls, 1)
	assert.Equal(t, "Bearer hs-key", calls[0].Header.Get("Authorization"))
	props := calls[0].Body["properties"].(map[string]interface{})
	assert.Equal(t, "João", props["firstname"])
	assert.Equal(t, "Pedro Souza", props["lastname"])
	assert.Equal(t, "", props["company"])
	assert.Equal(t, "OPEN", props["hs_lead_status"])
	assert.Equal(t, "google", props["utm_source"])
}

func TestHubSpot_CreateContact_WorkflowEnrollment(t *testing.T) {
	tests := []struct {
		name       string
		workflowID string
		source     string
		wantCalls  int
	}{
		{name: "website source enrolls", workflowID: "wf-1", source: "website", wantCalls: 1},
		{name: "seo-audit source enrolls", workflowID: "wf-1", source: "seo-audit", wantCalls: 1},
		{name: "other source skipped", workflowID: "wf-1", source: "newsletter", wantCalls: 0},
		{name: "no workflow configured", workflowID: "", source: "website", wantCalls: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFakeVendor(t)
			f.on(http.MethodPost, hubspotContactsPath, respond(http.StatusCreated, `{"id":"c-7"}`))
			f.on(http.MethodPost, hubspotWorkflowPath, respond(http.StatusNoContent, ``))
			adapter := newTestHubSpot(t, f, tt.workflowID)

			resp := adapter.CreateContact(context.Background(), models.ContactData{
				Name: "Ana", Email: "ana@example.com", Source: tt.source,
			})

			assert.True(t, resp.Success)
			assert.Len(t, f.calls(http.MethodPost, hubspotWorkflowPath), tt.wantCalls)
		})
	}
}

func TestHubSpot_CreateContact_WorkflowFailureKeepsSuccess(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, hubspotContactsPath, respond(http.StatusCreated, `{"id":"c-7"}`))
	f.on(http.MethodPost, hubspotWorkflowPath, respond(http.StatusBadRequest, `{"message":"not active"}`))
	log, logs := observedLogger(zapcore.WarnLevel)
	adapter := NewHubSpotAdapter("hs-key", "wf-1", f.server.URL, testClient(), log)

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "ana@example.com", Source: "website"})

	assert.True(t, resp.Success)
	assert.Equal(t, "c-7", resp.ContactID)
	assert.Equal(t, 1, logs.FilterMessage("failed to enroll contact in HubSpot workflow").Len())
}

func TestHubSpot_CreateContact_ConflictLooksUpOnce(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, hubspotContactsPath, respond(http.StatusConflict, `{"message":"Contact already exists. Existing ID: 812"}`))
	f.on(http.MethodGet, hubspotContactsPath+"/ana@example.com", respond(http.StatusOK, `{"id":"812"}`))
	adapter := newTestHubSpot(t, f, "wf-1")

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "ana@example.com", Source: "website"})

	assert.True(t, resp.Success)
	assert.Equal(t, "812", resp.ContactID)
	lookups := f.calls(http.MethodGet, hubspotContactsPath+"/ana@example.com")
	require.Len(t, lookups, 1)
	assert.Equal(t, "email", lookups[0].Query["idProperty"][0])
	// existing contacts are not re-enrolled
	assert.Equal(t, 2, f.total())
}

func TestHubSpot_CreateContact_SameEmailTwiceYieldsSameID(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, hubspotContactsPath, createdThenConflict(
		respond(http.StatusCreated, `{"id":"812"}`),
		respond(http.StatusConflict, `{"message":"Contact already exists. Existing ID: 812"}`),
	))
	f.on(http.MethodGet, hubspotContactsPath+"/ana@example.com", respond(http.StatusOK, `{"id":"812"}`))
	adapter := newTestHubSpot(t, f, "")
	data := models.ContactData{Name: "Ana", Email: "ana@example.com"}

	first := adapter.CreateContact(context.Background(), data)
	second := adapter.CreateContact(context.Background(), data)

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, first.ContactID, second.ContactID)
	assert.Len(t, f.calls(http.MethodGet, hubspotContactsPath+"/ana@example.com"), 1)
}

func TestHubSpot_CreateContact_MissingIDIsFailure(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, hubspotContactsPath, respond(http.StatusCreated, `{}`))
	log, logs := observedLogger(zapcore.WarnLevel)
	adapter := NewHubSpotAdapter("hs-key", "wf-1", f.server.URL, testClient(), log)

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "ana@example.com", Source: "website"})

	assert.False(t, resp.Success)
	assert.Empty(t, resp.ContactID)
	assert.Equal(t, "HubSpot did not return a contact id", resp.Error)
	// no enrollment without an id
	assert.Equal(t, 1, f.total())
	assert.Equal(t, 1, logs.FilterMessage("crm request failed").Len())
}

func TestHubSpot_CreateContact_Failure(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, hubspotContactsPath, respond(http.StatusBadRequest, `{"message":"Property values were not valid"}`))
	adapter := newTestHubSpot(t, f, "")

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "nope"})

	assert.False(t, resp.Success)
	assert.Equal(t, "Property values were not valid", resp.Error)
	assert.Equal(t, 1, f.total())
}

// ==========================
// CreateDeal Tests
// ==========================

func TestHubSpot_CreateDeal_Association(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/crm/v3/objects/deals", respond(http.StatusCreated, `{"id":"d-3"}`))
	adapter := newTestHubSpot(t, f, "")
	value := 2499.9

	resp := CreateDeal(context.Background(), adapter, "c-7", models.DealData{
		Title:    "Consultoria",
		Value:    &value,
		Currency: "USD",
	})

	require.True(t, resp.Success)
	assert.Equal(t, "d-3", resp.DealID)
	assert.Equal(t, "c-7", resp.ContactID)

	body := f.calls(http.MethodPost, "/crm/v3/objects/deals")[0].Body
	props := body["properties"].(map[string]interface{})
	assert.Equal(t, "2499.9", props["amount"])
	assert.Equal(t, "appointmentscheduled", props["dealstage"])
	assert.Equal(t, "USD", props["deal_currency_code"])

	assoc := body["associations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "c-7", assoc["to"].(map[string]interface{})["id"])
	kind := assoc["types"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "HUBSPOT_DEFINED", kind["associationCategory"])
	assert.Equal(t, float64(3), kind["associationTypeId"])
}

func TestHubSpot_CreateDeal_Failure(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/crm/v3/objects/deals", respond(http.StatusBadRequest, `{"message":"invalid stage"}`))
	adapter := newTestHubSpot(t, f, "")

	resp := adapter.CreateDeal(context.Background(), "c-7", models.DealData{Title: "X", Stage: "bogus"})

	assert.False(t, resp.Success)
	assert.Equal(t, "invalid stage", resp.Error)
}
