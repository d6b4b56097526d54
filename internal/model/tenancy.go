package model

import "time"

// Tenancy is a lease on a property. Every tenancy owns exactly one
// group chat, created in the same transaction.
type Tenancy struct {
	ID             uint       `json:"tenancy_id" gorm:"primaryKey"`
	PropertyID     uint       `json:"property_id" gorm:"index;not null"`
	RentDue        float64    `json:"rent_due" gorm:"type:decimal(10,2);not null"`
	LeaseStartDate *time.Time `json:"-" gorm:"type:date;not null"`
	LeaseEndDate   *time.Time `json:"-" gorm:"type:date"`
	GroupChatID    uint       `json:"-" gorm:"uniqueIndex;not null"`
	CreatedAt      time.Time  `json:"-"`
	UpdatedAt      time.Time  `json:"-"`

	// Relations
	GroupChat GroupChat `json:"-" gorm:"foreignKey:GroupChatID"`
}

// TenancyTenant links a tenant to a tenancy, granting read access.
type TenancyTenant struct {
	TenancyID uint `json:"tenancy_id" gorm:"primaryKey;autoIncrement:false"`
	TenantID  uint `json:"tenant_id" gorm:"primaryKey;autoIncrement:false"`

	// Relations
	Tenancy Tenancy `json:"-" gorm:"foreignKey:TenancyID;constraint:OnDelete:CASCADE"`
	Tenant  Tenant  `json:"-" gorm:"foreignKey:TenantID;references:TenantID;constraint:OnDelete:CASCADE"`
}
