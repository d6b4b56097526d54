// Package store defines the persistence ports for rental entities and
// their GORM implementations. Handlers receive these interfaces instead
// of a shared database handle.
package store

import (
	"errors"

	"gorm.io/gorm"

	"rental-service/internal/model"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("record not found")

// UserStore persists users and their role records.
type UserStore interface {
	// CreateWithRole creates the user and its Landlord/Tenant row in one
	// transaction. Neither row exists if either insert fails.
	CreateWithRole(user *model.User) error
	FindByEmail(email string) (*model.User, error)
	FindByID(id uint) (*model.User, error)
}

// PropertyPage is one page of a landlord's property listing.
type PropertyPage struct {
	Total      int64
	Page       int
	PerPage    int
	Properties []model.Property
}

// PropertyStore persists properties.
type PropertyStore interface {
	Create(property *model.Property) error
	// FindByID loads a property with its tenancies.
	FindByID(id uint) (*model.Property, error)
	// ListByLandlord returns the landlord's properties, optionally
	// filtered by exact status, paginated with 1-based page numbers.
	// Total counts the filtered set.
	ListByLandlord(landlordID uint, page, perPage int, status string) (*PropertyPage, error)
	Save(property *model.Property) error
}

// TenancyStore persists tenancies, their group chats and tenant links.
type TenancyStore interface {
	// CreateWithGroupChat creates the group chat and the tenancy
	// referencing it in one transaction. Neither record exists if either
	// insert fails.
	CreateWithGroupChat(tenancy *model.Tenancy, chatName string) error
	// FindByID loads a tenancy with its group chat.
	FindByID(id uint) (*model.Tenancy, error)
	ListByProperty(propertyID uint) ([]model.Tenancy, error)
	Save(tenancy *model.Tenancy) error
	IsTenantLinked(tenancyID, tenantID uint) (bool, error)
	LinkTenant(tenancyID, tenantID uint) error
}

// Stores bundles the ports built over one database handle.
type Stores struct {
	Users      UserStore
	Properties PropertyStore
	Tenancies  TenancyStore
}

// New builds GORM-backed stores over db.
func New(db *gorm.DB) *Stores {
	return &Stores{
		Users:      &userStore{db: db},
		Properties: &propertyStore{db: db},
		Tenancies:  &tenancyStore{db: db},
	}
}

func translateErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
