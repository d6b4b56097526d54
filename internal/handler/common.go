package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"rental-service/internal/authz"
	"rental-service/internal/model"
	"rental-service/internal/store"
)

// dateLayout is the only accepted wire format for lease dates.
const dateLayout = "2006-01-02"

var errUnresolvedIdentity = errors.New("identity does not resolve to a user")

// resolveActor turns the token identity stored by the auth middleware
// into an actor backed by an existing user row. Tokens for deleted users
// fail here.
func resolveActor(c echo.Context, users store.UserStore) (authz.Actor, error) {
	userID, ok := c.Get("user_id").(uint)
	if !ok {
		return authz.Actor{}, errUnresolvedIdentity
	}
	user, err := users.FindByID(userID)
	if err != nil {
		return authz.Actor{}, errUnresolvedIdentity
	}
	return authz.Actor{UserID: user.ID, Role: user.Role}, nil
}

func unauthorizedJSON(c echo.Context) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": "Unauthorized"})
}

func forbiddenJSON(c echo.Context, err error) error {
	return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
}

// pathID parses a numeric path parameter. Zero means malformed.
func pathID(c echo.Context, name string) uint {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

func propertyJSON(property *model.Property) echo.Map {
	tenancyIDs := make([]uint, 0, len(property.Tenancies))
	for _, tenancy := range property.Tenancies {
		tenancyIDs = append(tenancyIDs, tenancy.ID)
	}
	return echo.Map{
		"property_id": property.ID,
		"landlord_id": property.LandlordID,
		"address":     property.Address,
		"status":      property.Status,
		"tenancies":   tenancyIDs,
	}
}

func tenancyJSON(tenancy *model.Tenancy) echo.Map {
	var start, end interface{}
	if tenancy.LeaseStartDate != nil {
		start = tenancy.LeaseStartDate.Format(dateLayout)
	}
	if tenancy.LeaseEndDate != nil {
		end = tenancy.LeaseEndDate.Format(dateLayout)
	}
	return echo.Map{
		"tenancy_id":       tenancy.ID,
		"property_id":      tenancy.PropertyID,
		"rent_due":         tenancy.RentDue,
		"lease_start_date": start,
		"lease_end_date":   end,
		"group_chat": echo.Map{
			"group_chat_id": tenancy.GroupChat.ID,
			"group_name":    tenancy.GroupChat.Name,
		},
	}
}
