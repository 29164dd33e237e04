package repository

import (
	"errors"
	"strings"

	"github.com/storyhub/internal/models"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryRepository handles category data access
type CategoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List retrieves all categories ordered by name
func (r *CategoryRepository) List() ([]models.Category, error) {
	var categories []models.Category
	result := r.db.Order("name ASC").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}
	return categories, nil
}

// GetByName retrieves a category by name or slug, case-insensitively
func (r *CategoryRepository) GetByName(name string) (*models.Category, error) {
	var category models.Category
	needle := strings.ToLower(strings.TrimSpace(name))
	result := r.db.Where("LOWER(name) = ? OR slug = ?", needle, needle).First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, result.Error
	}
	return &category, nil
}

// Seed inserts the default categories if the table is empty
func (r *CategoryRepository) Seed() error {
	var count int64
	if err := r.db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	categories := make([]models.Category, len(models.DefaultCategories))
	copy(categories, models.DefaultCategories)
	return r.db.Create(&categories).Error
}
