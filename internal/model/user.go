package model

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role is the closed set of account roles. A user holds exactly one role,
// assigned at registration and immutable afterwards.
type Role string

const (
	RoleLandlord Role = "Landlord"
	RoleTenant   Role = "Tenant"
)

// ParseRole canonicalizes a role string, accepting any casing.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(s) {
	case "landlord":
		return RoleLandlord, true
	case "tenant":
		return RoleTenant, true
	default:
		return "", false
	}
}

// User represents the user model stored in the database
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	FirstName string         `json:"first_name" gorm:"type:varchar(255);not null"`
	LastName  string         `json:"last_name" gorm:"type:varchar(255);not null"`
	Email     string         `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"type:varchar(255);not null"`
	Role      Role           `json:"role" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
