package model

import "time"

// Property status values. Only "vacant" is assigned by the service;
// transitions are caller-controlled.
const (
	PropertyStatusVacant = "vacant"
	PropertyStatusRented = "rented"
)

// Property represents a rental property owned by exactly one landlord.
type Property struct {
	ID         uint      `json:"property_id" gorm:"primaryKey"`
	LandlordID uint      `json:"landlord_id" gorm:"index;not null"`
	Address    string    `json:"address" gorm:"type:text;not null"`
	Status     string    `json:"status" gorm:"type:varchar(50);not null;default:'vacant'"`
	CreatedAt  time.Time `json:"-"`
	UpdatedAt  time.Time `json:"-"`

	// Relations
	Tenancies []Tenancy `json:"-" gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
}
