package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"moneymanager/internal/models"
)

type CategoryService struct {
	db *gorm.DB
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

type CategoryInput struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
	Type string `json:"type"`
}

// Create adds a category for the profile. Names are unique per profile;
// two different profiles may both own a "Food" category.
func (s *CategoryService) Create(ctx context.Context, profileID uint, in CategoryInput) (*models.Category, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("category name is required: %w", ErrInvalidArgument)
	}
	if !models.ValidCategoryType(in.Type) {
		return nil, fmt.Errorf("category type %q: %w", in.Type, ErrInvalidArgument)
	}
	taken, err := s.nameTaken(ctx, profileID, in.Name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("category %q for profile %d: %w", in.Name, profileID, ErrConflict)
	}
	category := models.Category{
		ProfileID: profileID,
		Name:      in.Name,
		Icon:      in.Icon,
		Type:      in.Type,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return &category, nil
}

// List returns every category owned by the profile.
func (s *CategoryService) List(ctx context.Context, profileID uint) ([]models.Category, error) {
	var categories []models.Category
	err := s.db.WithContext(ctx).Where("profile_id = ?", profileID).Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// ListByType returns the profile's categories of the given type.
func (s *CategoryService) ListByType(ctx context.Context, profileID uint, typ string) ([]models.Category, error) {
	if !models.ValidCategoryType(typ) {
		return nil, fmt.Errorf("category type %q: %w", typ, ErrInvalidArgument)
	}
	var categories []models.Category
	err := s.db.WithContext(ctx).
		Where("profile_id = ? AND type = ?", profileID, typ).
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories by type: %w", err)
	}
	return categories, nil
}

// Update changes a category's name and icon. The type is fixed at creation.
func (s *CategoryService) Update(ctx context.Context, profileID, categoryID uint, in CategoryInput) (*models.Category, error) {
	category, err := s.ByIDForProfile(ctx, profileID, categoryID)
	if err != nil {
		return nil, err
	}
	if in.Name != "" && in.Name != category.Name {
		taken, err := s.nameTaken(ctx, profileID, in.Name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("category %q for profile %d: %w", in.Name, profileID, ErrConflict)
		}
		category.Name = in.Name
	}
	category.Icon = in.Icon
	if err := s.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}
	return category, nil
}

// ByIDForProfile loads a category only when the profile owns it.
func (s *CategoryService) ByIDForProfile(ctx context.Context, profileID, categoryID uint) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Where("id = ? AND profile_id = ?", categoryID, profileID).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("category %d for profile %d: %w", categoryID, profileID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup category: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) nameTaken(ctx context.Context, profileID uint, name string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.Category{}).
		Where("profile_id = ? AND name = ?", profileID, name).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("check category name: %w", err)
	}
	return count > 0, nil
}
