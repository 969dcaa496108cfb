package crm

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"site-integrations/internal/common/logger"
	"site-integrations/internal/models"
)

func newTestZoho(t *testing.T, f *fakeVendor) *ZohoAdapter {
	return NewZohoAdapter("zoho-oauth", f.server.URL, testClient(), logger.NewTestLogger(t))
}

// ==========================
// CreateContact Tests
// ==========================

func TestZoho_CreateContact_Record(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/Contacts", respond(http.StatusCreated,
		`{"data":[{"code":"SUCCESS","status":"success","message":"record added","details":{"id":"4150868000000224005"}}]}`))
	adapter := newTestZoho(t, f)

	resp := adapter.CreateContact(context.Background(), models.ContactData{
		Name:    "Ana Lima",
		Email:   "ana@example.com",
		Message: "Preciso de um site",
		Tags:    []string{"lead", "seo"},
	})

	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "4150868000000224005", resp.ContactID)

	calls := f.calls(http.MethodPost, "/Contacts")
	require.Len(t, calls, 1)
	assert.Equal(t, "Zoho-oauthtoken zoho-oauth", calls[0].Header.Get("Authorization"))
	record := calls[0].Body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Ana", record["First_Name"])
	assert.Equal(t, "Lima", record["Last_Name"])
	assert.Equal(t, "Preciso de um site", record["Description"])
	assert.Equal(t, "website", record["Lead_Source"])
	assert.Len(t, record["Tag"], 2)
}

func TestZoho_CreateContact_DuplicateLooksUpOnce(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/Contacts", respond(http.StatusAccepted,
		`{"data":[{"code":"DUPLICATE_DATA","status":"error","message":"duplicate data","details":{"api_name":"Email"}}]}`))
	f.on(http.MethodGet, "/Contacts/search", respond(http.StatusOK, `{"data":[{"id":"4150868000000999001"}]}`))
	adapter := newTestZoho(t, f)

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "ana@example.com"})

	assert.True(t, resp.Success)
	assert.Equal(t, "4150868000000999001", resp.ContactID)
	searches := f.calls(http.MethodGet, "/Contacts/search")
	require.Len(t, searches, 1)
	assert.Equal(t, "ana@example.com", searches[0].Query["email"][0])
}

func TestZoho_CreateContact_SameEmailTwiceYieldsSameID(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/Contacts", createdThenConflict(
		respond(http.StatusCreated, `{"data":[{"code":"SUCCESS","status":"success","details":{"id":"4150868000000224005"}}]}`),
		respond(http.StatusAccepted, `{"data":[{"code":"DUPLICATE_DATA","status":"error","message":"duplicate data"}]}`),
	))
	f.on(http.MethodGet, "/Contacts/search", respond(http.StatusOK, `{"data":[{"id":"4150868000000224005"}]}`))
	adapter := newTestZoho(t, f)
	data := models.ContactData{Name: "Ana", Email: "ana@example.com"}

	first := adapter.CreateContact(context.Background(), data)
	second := adapter.CreateContact(context.Background(), data)

	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, first.ContactID, second.ContactID)
	assert.Len(t, f.calls(http.MethodGet, "/Contacts/search"), 1)
}

func TestZoho_CreateContact_DuplicateNoMatch(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/Contacts", respond(http.StatusAccepted,
		`{"data":[{"code":"DUPLICATE_DATA","status":"error","message":"duplicate data"}]}`))
	f.on(http.MethodGet, "/Contacts/search", respond(http.StatusNoContent, ``))
	adapter := newTestZoho(t, f)

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "ana@example.com"})

	assert.False(t, resp.Success)
	assert.Equal(t, "duplicate data", resp.Error)
}

func TestZoho_CreateContact_RequestLevelError(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/Contacts", respond(http.StatusUnauthorized,
		`{"code":"INVALID_TOKEN","status":"error","message":"invalid oauth token"}`))
	adapter := newTestZoho(t, f)

	resp := adapter.CreateContact(context.Background(), models.ContactData{Name: "Ana", Email: "ana@example.com"})

	assert.False(t, resp.Success)
	assert.Equal(t, "invalid oauth token", resp.Error)
	assert.Empty(t, f.calls(http.MethodGet, "/Contacts/search"))
}

// ==========================
// CreateDeal Tests
// ==========================

func TestZoho_CreateDeal(t *testing.T) {
	f := newFakeVendor(t)
	f.on(http.MethodPost, "/Deals", respond(http.StatusCreated,
		`{"data":[{"code":"SUCCESS","status":"success","details":{"id":"777"}}]}`))
	adapter := newTestZoho(t, f)

	resp := CreateDeal(context.Background(), adapter, "415", models.DealData{Title: "Site novo"})

	require.True(t, resp.Success)
	assert.Equal(t, "777", resp.DealID)
	record := f.calls(http.MethodPost, "/Deals")[0].Body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Qualification", record["Stage"])
	assert.Equal(t, "BRL", record["Currency"])
	assert.NotContains(t, record, "Amount")
	assert.Equal(t, "415", record["Contact_Name"].(map[string]interface{})["id"])
}
