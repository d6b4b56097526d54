package store

import (
	"gorm.io/gorm"

	"rental-service/internal/model"
)

type userStore struct {
	db *gorm.DB
}

func (s *userStore) CreateWithRole(user *model.User) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		switch user.Role {
		case model.RoleLandlord:
			return tx.Create(&model.Landlord{LandlordID: user.ID}).Error
		case model.RoleTenant:
			return tx.Create(&model.Tenant{TenantID: user.ID}).Error
		default:
			return gorm.ErrInvalidData
		}
	})
}

func (s *userStore) FindByEmail(email string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}

func (s *userStore) FindByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &user, nil
}
