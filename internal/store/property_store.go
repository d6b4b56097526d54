package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rental-service/internal/model"
)

type propertyStore struct {
	db *gorm.DB
}

func (s *propertyStore) Create(property *model.Property) error {
	return s.db.Create(property).Error
}

func (s *propertyStore) FindByID(id uint) (*model.Property, error) {
	var property model.Property
	if err := s.db.Preload("Tenancies").First(&property, id).Error; err != nil {
		return nil, translateErr(err)
	}
	return &property, nil
}

func (s *propertyStore) ListByLandlord(landlordID uint, page, perPage int, status string) (*PropertyPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 10
	}

	query := s.db.Model(&model.Property{}).Where("landlord_id = ?", landlordID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	var properties []model.Property
	err := query.Session(&gorm.Session{}).
		Preload("Tenancies").
		Order("id").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&properties).Error
	if err != nil {
		return nil, err
	}

	return &PropertyPage{
		Total:      total,
		Page:       page,
		PerPage:    perPage,
		Properties: properties,
	}, nil
}

func (s *propertyStore) Save(property *model.Property) error {
	return s.db.Omit(clause.Associations).Save(property).Error
}
