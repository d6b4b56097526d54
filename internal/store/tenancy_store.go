package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rental-service/internal/model"
)

type tenancyStore struct {
	db *gorm.DB
}

func (s *tenancyStore) CreateWithGroupChat(tenancy *model.Tenancy, chatName string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		chat := model.GroupChat{Name: chatName}
		if err := tx.Create(&chat).Error; err != nil {
			return err
		}
		tenancy.GroupChatID = chat.ID
		if err := tx.Create(tenancy).Error; err != nil {
			return err
		}
		tenancy.GroupChat = chat
		return nil
	})
}

func (s *tenancyStore) FindByID(id uint) (*model.Tenancy, error) {
	var tenancy model.Tenancy
	if err := s.db.Preload("GroupChat").First(&tenancy, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &tenancy, nil
}

func (s *tenancyStore) ListByProperty(propertyID uint) ([]model.Tenancy, error) {
	var tenancies []model.Tenancy
	err := s.db.Preload("GroupChat").
		Where("property_id = ?", propertyID).
		Order("id").
		Find(&tenancies).Error
	if err != nil {
		return nil, err
	}
	return tenancies, nil
}

func (s *tenancyStore) Save(tenancy *model.Tenancy) error {
	return s.db.Omit(clause.Associations).Save(tenancy).Error
}

func (s *tenancyStore) IsTenantLinked(tenancyID, tenantID uint) (bool, error) {
	var count int64
	err := s.db.Model(&model.TenancyTenant{}).
		Where("tenancy_id = ? AND tenant_id = ?", tenancyID, tenantID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (s *tenancyStore) LinkTenant(tenancyID, tenantID uint) error {
	return s.db.Create(&model.TenancyTenant{TenancyID: tenancyID, TenantID: tenantID}).Error
}
