package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"rental-service/internal/middleware"
	"rental-service/internal/model"
	"rental-service/internal/store"
)

// newTestApp wires the full route table over an in-memory database,
// mirroring the server setup in cmd/main.go.
func newTestApp(t *testing.T) (*echo.Echo, *gorm.DB) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&model.User{},
		&model.Landlord{},
		&model.Tenant{},
		&model.Property{},
		&model.GroupChat{},
		&model.Tenancy{},
		&model.TenancyTenant{},
		&model.Message{},
	)
	require.NoError(t, err)

	stores := store.New(db)
	authHandler := NewAuthHandler(stores.Users)
	propertyHandler := NewPropertyHandler(stores.Users, stores.Properties)
	tenancyHandler := NewTenancyHandler(stores.Users, stores.Properties, stores.Tenancies)

	e := echo.New()

	auth := e.Group("/api/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/users/profile", authHandler.Profile)

	properties := api.Group("/properties")
	properties.POST("", propertyHandler.Create)
	properties.GET("", propertyHandler.List)
	properties.GET("/:id", propertyHandler.Get)
	properties.PUT("/:id", propertyHandler.Update)
	properties.POST("/:id/tenancies", tenancyHandler.CreateForProperty)
	properties.GET("/:id/tenancies", tenancyHandler.ListForProperty)

	tenancies := api.Group("/tenancies")
	tenancies.GET("/:id", tenancyHandler.Get)
	tenancies.PUT("/:id", tenancyHandler.Update)
	tenancies.POST("/:id/tenants", tenancyHandler.LinkTenant)

	return e, db
}

func doRequest(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func registerUser(t *testing.T, e *echo.Echo, email, role string) {
	body := fmt.Sprintf(`{"first_name":"Test","last_name":"User","email":%q,"password":"pw123456","role":%q}`, email, role)
	rec := doRequest(e, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func loginUser(t *testing.T, e *echo.Echo, email string) string {
	body := fmt.Sprintf(`{"email":%q,"password":"pw123456"}`, email)
	rec := doRequest(e, http.MethodPost, "/api/auth/login", "", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token, ok := decodeBody(t, rec)["token"].(string)
	require.True(t, ok)
	return token
}

// createProperty returns the new property's id.
func createProperty(t *testing.T, e *echo.Echo, token, address string) uint {
	body := fmt.Sprintf(`{"address":%q}`, address)
	rec := doRequest(e, http.MethodPost, "/api/properties", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, ok := decodeBody(t, rec)["property_id"].(float64)
	require.True(t, ok)
	return uint(id)
}

// createTenancy returns the new tenancy's id.
func createTenancy(t *testing.T, e *echo.Echo, token string, propertyID uint, body string) uint {
	rec := doRequest(e, http.MethodPost, fmt.Sprintf("/api/properties/%d/tenancies", propertyID), token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	id, ok := decodeBody(t, rec)["tenancy_id"].(float64)
	require.True(t, ok)
	return uint(id)
}
