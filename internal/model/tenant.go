package model

// Tenant is the role record for a user with the Tenant role.
type Tenant struct {
	TenantID uint `json:"tenant_id" gorm:"primaryKey"`

	// Relations
	User User `json:"-" gorm:"foreignKey:TenantID;references:ID;constraint:OnDelete:CASCADE"`
}
