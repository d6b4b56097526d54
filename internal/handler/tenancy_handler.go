package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"rental-service/internal/authz"
	"rental-service/internal/model"
	"rental-service/internal/store"
	"rental-service/pkg/logger"
	"rental-service/prometheus"
)

// TenancyHandler serves the tenancy lifecycle: creation under a
// property, reads for landlords and linked tenants, updates and tenant
// linking for the owning landlord.
type TenancyHandler struct {
	users      store.UserStore
	properties store.PropertyStore
	tenancies  store.TenancyStore
}

// NewTenancyHandler creates a tenancy handler over the given stores.
func NewTenancyHandler(users store.UserStore, properties store.PropertyStore, tenancies store.TenancyStore) *TenancyHandler {
	return &TenancyHandler{users: users, properties: properties, tenancies: tenancies}
}

// CreateForProperty creates a tenancy under the landlord's property. The
// group chat and the tenancy commit in one transaction; neither record
// exists if either insert fails.
func (h *TenancyHandler) CreateForProperty(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenancyOperation("create")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}
	if err := authz.RequireLandlord(actor); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	property, err := h.properties.FindByID(pathID(c, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		log.Error("Failed to load property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while creating the tenancy."})
	}
	if err := authz.CanAccessProperty(actor, property); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	var req struct {
		RentDue        *float64 `json:"rent_due"`
		LeaseStartDate string   `json:"lease_start_date"`
		LeaseEndDate   string   `json:"lease_end_date"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenancy request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if req.RentDue == nil || req.LeaseStartDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing required fields"})
	}

	startDate, err := time.Parse(dateLayout, req.LeaseStartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
	}
	var endDate *time.Time
	if req.LeaseEndDate != "" {
		parsed, err := time.Parse(dateLayout, req.LeaseEndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid date format. Use YYYY-MM-DD"})
		}
		endDate = &parsed
	}
	if endDate != nil && endDate.Before(startDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Lease end date cannot be before start date"})
	}

	tenancy := model.Tenancy{
		PropertyID:     property.ID,
		RentDue:        *req.RentDue,
		LeaseStartDate: &startDate,
		LeaseEndDate:   endDate,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.tenancies.CreateWithGroupChat(&tenancy, "Property Chat - "+property.Address); err != nil {
		log.Error("Failed to create tenancy", zap.Uint("property_id", property.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while creating the tenancy."})
	}

	log.Info("Tenancy created",
		zap.Uint("tenancy_id", tenancy.ID),
		zap.Uint("property_id", property.ID),
		zap.Uint("group_chat_id", tenancy.GroupChatID))
	return c.JSON(http.StatusCreated, tenancyJSON(&tenancy))
}

// ListForProperty returns all tenancies of the landlord's property.
func (h *TenancyHandler) ListForProperty(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenancyOperation("list")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}

	property, err := h.properties.FindByID(pathID(c, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		log.Error("Failed to load property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while retrieving tenancies."})
	}
	if err := authz.CanAccessProperty(actor, property); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	tenancies, err := h.tenancies.ListByProperty(property.ID)
	if err != nil {
		log.Error("Failed to list tenancies", zap.Uint("property_id", property.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while retrieving tenancies."})
	}

	response := make([]echo.Map, 0, len(tenancies))
	for i := range tenancies {
		response = append(response, tenancyJSON(&tenancies[i]))
	}
	return c.JSON(http.StatusOK, response)
}

// Get returns a tenancy to its owning landlord or a linked tenant.
func (h *TenancyHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenancyOperation("get")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}

	tenancy, property, err := h.loadTenancy(c)
	if err != nil {
		return respondTenancyLoad(c, err)
	}

	linked := false
	if actor.Role == model.RoleTenant {
		linked, err = h.tenancies.IsTenantLinked(tenancy.ID, actor.UserID)
		if err != nil {
			log.Error("Failed to check tenancy link", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while retrieving the tenancy."})
		}
	}
	if err := authz.CanReadTenancy(actor, property, linked); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	return c.JSON(http.StatusOK, tenancyJSON(tenancy))
}

// Update applies a partial tenancy update. All supplied fields are
// validated against the loaded record before anything is saved; a
// failing date-range postcondition rejects the whole request.
func (h *TenancyHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenancyOperation("update")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}

	tenancy, property, err := h.loadTenancy(c)
	if err != nil {
		return respondTenancyLoad(c, err)
	}
	if err := authz.CanManageTenancy(actor, property); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	// Decoded as a map so an absent field, an explicit null and a value
	// are three distinguishable cases.
	var data map[string]interface{}
	if err := c.Bind(&data); err != nil || len(data) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No update data provided"})
	}

	rentDue, hasRentDue := data["rent_due"]
	startValue, hasStart := data["lease_start_date"]
	endValue, hasEnd := data["lease_end_date"]
	if !hasRentDue && !hasStart && !hasEnd {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No update data provided"})
	}

	if hasRentDue {
		value, ok := coerceFloat(rentDue)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid rent_due value"})
		}
		tenancy.RentDue = value
	}

	if hasStart {
		date, ok := coerceDate(startValue)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid lease_start_date format. Use YYYY-MM-DD"})
		}
		tenancy.LeaseStartDate = date
	}
	if hasEnd {
		date, ok := coerceDate(endValue)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid lease_end_date format. Use YYYY-MM-DD"})
		}
		tenancy.LeaseEndDate = date
	}

	// Postcondition over the whole update, not per field.
	if tenancy.LeaseStartDate != nil && tenancy.LeaseEndDate != nil &&
		tenancy.LeaseEndDate.Before(*tenancy.LeaseStartDate) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Lease end date cannot be before start date"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.tenancies.Save(tenancy); err != nil {
		log.Error("Failed to update tenancy", zap.Uint("tenancy_id", tenancy.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while updating the tenancy."})
	}

	log.Info("Tenancy updated", zap.Uint("tenancy_id", tenancy.ID))
	return c.JSON(http.StatusOK, tenancyJSON(tenancy))
}

// LinkTenant links a tenant to the tenancy, granting read access.
func (h *TenancyHandler) LinkTenant(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordTenancyOperation("link_tenant")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}

	tenancy, property, err := h.loadTenancy(c)
	if err != nil {
		return respondTenancyLoad(c, err)
	}
	if err := authz.CanManageTenancy(actor, property); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	var req struct {
		TenantID uint `json:"tenant_id"`
	}
	if err := c.Bind(&req); err != nil || req.TenantID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "tenant_id is required"})
	}

	tenant, err := h.users.FindByID(req.TenantID)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenant not found"})
	}
	if tenant.Role != model.RoleTenant {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "User is not a tenant"})
	}

	linked, err := h.tenancies.IsTenantLinked(tenancy.ID, tenant.ID)
	if err != nil {
		log.Error("Failed to check tenancy link", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while linking the tenant."})
	}
	if linked {
		return c.JSON(http.StatusConflict, echo.Map{"error": "Tenant already linked to tenancy"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.tenancies.LinkTenant(tenancy.ID, tenant.ID); err != nil {
		log.Error("Failed to link tenant", zap.Uint("tenancy_id", tenancy.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while linking the tenant."})
	}

	log.Info("Tenant linked to tenancy",
		zap.Uint("tenancy_id", tenancy.ID),
		zap.Uint("tenant_id", tenant.ID))
	return c.JSON(http.StatusCreated, echo.Map{"message": "Tenant linked to tenancy"})
}

var errTenancyNotFound = errors.New("tenancy not found")

// loadTenancy resolves the :id parameter to a tenancy and its property.
func (h *TenancyHandler) loadTenancy(c echo.Context) (*model.Tenancy, *model.Property, error) {
	tenancy, err := h.tenancies.FindByID(pathID(c, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, errTenancyNotFound
		}
		return nil, nil, err
	}
	property, err := h.properties.FindByID(tenancy.PropertyID)
	if err != nil {
		return nil, nil, err
	}
	return tenancy, property, nil
}

func respondTenancyLoad(c echo.Context, err error) error {
	if errors.Is(err, errTenancyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Tenancy not found"})
	}
	logger.FromContext(c).Error("Failed to load tenancy", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while retrieving the tenancy."})
}

// coerceFloat accepts JSON numbers and numeric strings.
func coerceFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceDate accepts explicit null (clearing the field) or a YYYY-MM-DD
// string.
func coerceDate(value interface{}) (*time.Time, bool) {
	if value == nil {
		return nil, true
	}
	s, ok := value.(string)
	if !ok {
		return nil, false
	}
	parsed, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, false
	}
	return &parsed, true
}
