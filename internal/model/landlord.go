package model

// Landlord is the role record for a user with the Landlord role,
// created in the same transaction as the User row.
type Landlord struct {
	LandlordID uint `json:"landlord_id" gorm:"primaryKey"`

	// Relations
	User       User       `json:"-" gorm:"foreignKey:LandlordID;references:ID;constraint:OnDelete:CASCADE"`
	Properties []Property `json:"properties,omitempty" gorm:"foreignKey:LandlordID;constraint:OnDelete:CASCADE"`
}
