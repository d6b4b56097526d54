package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-service/internal/model"
)

func TestCreateTenancyWithGroupChat(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")

	path := fmt.Sprintf("/api/properties/%d/tenancies", propertyID)
	rec := doRequest(e, http.MethodPost, path, token, `{"rent_due":1000.00,"lease_start_date":"2024-01-01"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, float64(1000), body["rent_due"])
	assert.Equal(t, "2024-01-01", body["lease_start_date"])

	// Omitted end date comes back as an explicit null, not a missing key.
	end, present := body["lease_end_date"]
	assert.True(t, present)
	assert.Nil(t, end)

	chat := body["group_chat"].(map[string]interface{})
	assert.Equal(t, "Property Chat - 1 Main St", chat["group_name"])
	assert.NotZero(t, chat["group_chat_id"])
}

func TestCreateTenancyNullEndDateRoundTrip(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)

	rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/tenancies/%d", tenancyID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	end, present := body["lease_end_date"]
	assert.True(t, present)
	assert.Nil(t, end)
}

func TestCreateTenancyMissingFields(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")

	path := fmt.Sprintf("/api/properties/%d/tenancies", propertyID)
	rec := doRequest(e, http.MethodPost, path, token, `{"rent_due":1000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Missing required fields", decodeBody(t, rec)["error"])
}

func TestCreateTenancyInvalidDate(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")

	path := fmt.Sprintf("/api/properties/%d/tenancies", propertyID)
	rec := doRequest(e, http.MethodPost, path, token, `{"rent_due":1000,"lease_start_date":"01/01/2024"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid date format. Use YYYY-MM-DD", decodeBody(t, rec)["error"])
}

func TestCreateTenancyEndBeforeStart(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")

	path := fmt.Sprintf("/api/properties/%d/tenancies", propertyID)
	rec := doRequest(e, http.MethodPost, path, token, `{"rent_due":1000,"lease_start_date":"2024-06-01","lease_end_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Lease end date cannot be before start date", decodeBody(t, rec)["error"])
}

func TestCreateTenancyUnknownProperty(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")

	rec := doRequest(e, http.MethodPost, "/api/properties/999/tenancies", token, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Property not found", decodeBody(t, rec)["error"])
}

func TestListTenanciesForProperty(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)
	createTenancy(t, e, token, propertyID, `{"rent_due":1200,"lease_start_date":"2025-01-01","lease_end_date":"2025-12-31"}`)

	rec := doRequest(e, http.MethodGet, fmt.Sprintf("/api/properties/%d/tenancies", propertyID), token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"2025-12-31"`)
}

func TestTenantReadAccess(t *testing.T) {
	e, db := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	registerUser(t, e, "t@example.com", "Tenant")
	landlordToken := loginUser(t, e, "l@example.com")
	tenantToken := loginUser(t, e, "t@example.com")

	propertyID := createProperty(t, e, landlordToken, "1 Main St")
	tenancyID := createTenancy(t, e, landlordToken, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)
	tenancyPath := fmt.Sprintf("/api/tenancies/%d", tenancyID)

	// Unlinked tenants are denied even though they authenticate.
	rec := doRequest(e, http.MethodGet, tenancyPath, tenantToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized access to tenancy", decodeBody(t, rec)["error"])

	var tenant model.User
	require.NoError(t, db.Where("email = ?", "t@example.com").First(&tenant).Error)

	linkBody := fmt.Sprintf(`{"tenant_id":%d}`, tenant.ID)
	rec = doRequest(e, http.MethodPost, tenancyPath+"/tenants", landlordToken, linkBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Linking twice conflicts.
	rec = doRequest(e, http.MethodPost, tenancyPath+"/tenants", landlordToken, linkBody)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Linked tenants may read...
	rec = doRequest(e, http.MethodGet, tenancyPath, tenantToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// ...but never update.
	rec = doRequest(e, http.MethodPut, tenancyPath, tenantToken, `{"rent_due":1}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Unauthorized access to tenancy", decodeBody(t, rec)["error"])
}

func TestLinkTenantValidation(t *testing.T) {
	e, db := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	registerUser(t, e, "other-landlord@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")

	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)
	path := fmt.Sprintf("/api/tenancies/%d/tenants", tenancyID)

	rec := doRequest(e, http.MethodPost, path, token, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(e, http.MethodPost, path, token, `{"tenant_id":999}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Linking a landlord account is rejected.
	var other model.User
	require.NoError(t, db.Where("email = ?", "other-landlord@example.com").First(&other).Error)
	rec = doRequest(e, http.MethodPost, path, token, fmt.Sprintf(`{"tenant_id":%d}`, other.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateTenancyFields(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)
	path := fmt.Sprintf("/api/tenancies/%d", tenancyID)

	// Numeric strings are accepted for rent_due.
	rec := doRequest(e, http.MethodPut, path, token, `{"rent_due":"1250.50","lease_end_date":"2024-12-31"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, 1250.50, body["rent_due"])
	assert.Equal(t, "2024-12-31", body["lease_end_date"])

	// Explicit null clears the end date.
	rec = doRequest(e, http.MethodPut, path, token, `{"lease_end_date":null}`)
	require.Equal(t, http.StatusOK, rec.Code)
	end, present := decodeBody(t, rec)["lease_end_date"]
	assert.True(t, present)
	assert.Nil(t, end)
}

func TestUpdateTenancyInvalidRentDue(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)

	rec := doRequest(e, http.MethodPut, fmt.Sprintf("/api/tenancies/%d", tenancyID), token, `{"rent_due":"lots"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid rent_due value", decodeBody(t, rec)["error"])
}

func TestUpdateTenancyInvalidDateField(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)

	rec := doRequest(e, http.MethodPut, fmt.Sprintf("/api/tenancies/%d", tenancyID), token, `{"lease_end_date":"31-12-2024"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid lease_end_date format. Use YYYY-MM-DD", decodeBody(t, rec)["error"])
}

func TestUpdateTenancyNoData(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-01-01"}`)

	rec := doRequest(e, http.MethodPut, fmt.Sprintf("/api/tenancies/%d", tenancyID), token, `{"unrelated":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No update data provided", decodeBody(t, rec)["error"])
}

func TestUpdateTenancyNotFound(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")

	rec := doRequest(e, http.MethodPut, "/api/tenancies/999", token, `{"rent_due":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Tenancy not found", decodeBody(t, rec)["error"])
}

func TestUpdateTenancyDateRangeRejectsWholeRequest(t *testing.T) {
	e, _ := newTestApp(t)

	registerUser(t, e, "l@example.com", "Landlord")
	token := loginUser(t, e, "l@example.com")
	propertyID := createProperty(t, e, token, "1 Main St")
	tenancyID := createTenancy(t, e, token, propertyID, `{"rent_due":1000,"lease_start_date":"2024-06-01"}`)
	path := fmt.Sprintf("/api/tenancies/%d", tenancyID)

	rec := doRequest(e, http.MethodPut, path, token, `{"rent_due":9999,"lease_end_date":"2024-01-01"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Lease end date cannot be before start date", decodeBody(t, rec)["error"])

	// Nothing from the rejected request persisted, including rent_due.
	rec = doRequest(e, http.MethodGet, path, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, float64(1000), body["rent_due"])
	assert.Nil(t, body["lease_end_date"])
}
