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

// PropertyHandler serves the property lifecycle for landlords.
type PropertyHandler struct {
	users      store.UserStore
	properties store.PropertyStore
}

// NewPropertyHandler creates a property handler over the given stores.
func NewPropertyHandler(users store.UserStore, properties store.PropertyStore) *PropertyHandler {
	return &PropertyHandler{users: users, properties: properties}
}

// Create registers a new property for the authenticated landlord with
// status "vacant".
func (h *PropertyHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("create")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}
	if err := authz.RequireLandlord(actor); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	var req struct {
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil || req.Address == "" {
		log.Error("Missing property details", zap.Uint("user_id", actor.UserID))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing property details"})
	}

	property := model.Property{
		LandlordID: actor.UserID,
		Address:    req.Address,
		Status:     model.PropertyStatusVacant,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	if err := h.properties.Create(&property); err != nil {
		log.Error("Failed to create property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while creating the property."})
	}

	log.Info("Property created",
		zap.Uint("property_id", property.ID),
		zap.Uint("landlord_id", property.LandlordID))
	return c.JSON(http.StatusCreated, propertyJSON(&property))
}

// List returns the landlord's properties, optionally filtered by exact
// status, with 1-based pagination.
func (h *PropertyHandler) List(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("list")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}
	if err := authz.RequireLandlord(actor); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	page := 1
	if v, err := strconv.Atoi(c.QueryParam("page")); err == nil {
		page = v
	}
	perPage := 10
	if v, err := strconv.Atoi(c.QueryParam("per_page")); err == nil {
		perPage = v
	}
	status := c.QueryParam("status")

	defer prometheus.TrackDBOperation("query")(time.Now())
	result, err := h.properties.ListByLandlord(actor.UserID, page, perPage, status)
	if err != nil {
		log.Error("Failed to list properties", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while retrieving properties."})
	}

	properties := make([]echo.Map, 0, len(result.Properties))
	for i := range result.Properties {
		properties = append(properties, propertyJSON(&result.Properties[i]))
	}

	return c.JSON(http.StatusOK, echo.Map{
		"total":      result.Total,
		"page":       result.Page,
		"per_page":   result.PerPage,
		"properties": properties,
	})
}

// Get returns one property. Existence is checked before ownership, so a
// foreign landlord probing a real id gets 403, a missing id 404.
func (h *PropertyHandler) Get(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("get")

	actor, err := resolveActor(c, h.users)
	if err != nil {
		return unauthorizedJSON(c)
	}
	if err := authz.RequireLandlord(actor); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	property, err := h.properties.FindByID(pathID(c, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Property not found"})
		}
		log.Error("Failed to load property", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while retrieving the property."})
	}
	if err := authz.CanAccessProperty(actor, property); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	log.Info("Property retrieved", zap.Uint("property_id", property.ID))
	return c.JSON(http.StatusOK, propertyJSON(property))
}

// Update changes a property's address. Status is not touched here.
func (h *PropertyHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordPropertyOperation("update")

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
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while updating the property."})
	}
	if err := authz.CanAccessProperty(actor, property); err != nil {
		prometheus.RecordAuthError("forbidden")
		return forbiddenJSON(c, err)
	}

	var req struct {
		Address string `json:"address"`
	}
	if err := c.Bind(&req); err != nil || req.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Missing or invalid 'address' in the request body."})
	}

	property.Address = req.Address
	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.properties.Save(property); err != nil {
		log.Error("Failed to update property", zap.Uint("property_id", property.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "An error occurred while updating the property."})
	}

	log.Info("Property updated", zap.Uint("property_id", property.ID))
	return c.JSON(http.StatusOK, propertyJSON(property))
}
