package repository

import (
	"errors"

	"github.com/storyhub/internal/models"
	"gorm.io/gorm"
)

var (
	ErrStoryNotFound = errors.New("story not found")
)

// StoryFilter holds the server-side feed query parameters
type StoryFilter struct {
	Category string // category slug, empty for all
	Search   string // matches title or content
	Sort     string // newest (default), oldest, title
	Page     int
	PageSize int
}

// StoryRepository handles story data access
type StoryRepository struct {
	db *gorm.DB
}

// NewStoryRepository creates a new StoryRepository
func NewStoryRepository(db *gorm.DB) *StoryRepository {
	return &StoryRepository{db: db}
}

// Create creates a new story
func (r *StoryRepository) Create(story *models.Story) error {
	return r.db.Create(story).Error
}

// GetByID retrieves a story by ID with its author and category
func (r *StoryRepository) GetByID(id uint) (*models.Story, error) {
	var story models.Story
	result := r.db.Preload("User").Preload("Category").First(&story, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, result.Error
	}
	return &story, nil
}

// GetByUserID retrieves all stories by a user, newest first
func (r *StoryRepository) GetByUserID(userID uint) ([]models.Story, error) {
	var stories []models.Story
	result := r.db.Preload("User").Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&stories)
	if result.Error != nil {
		return nil, result.Error
	}
	return stories, nil
}

// ListPaginated retrieves stories matching the filter with pagination.
// Filtering, sorting and paging are pushed into the query so the payload
// stays bounded as the table grows.
func (r *StoryRepository) ListPaginated(filter StoryFilter) ([]models.Story, int64, error) {
	query := r.db.Model(&models.Story{}).Select("stories.*")

	if filter.Category != "" {
		query = query.
			Joins("JOIN categories ON categories.id = stories.category_id").
			Where("categories.slug = ?", filter.Category)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("stories.title ILIKE ? OR stories.content ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch filter.Sort {
	case "oldest":
		query = query.Order("stories.created_at ASC")
	case "title":
		query = query.Order("stories.title ASC")
	default:
		query = query.Order("stories.created_at DESC")
	}

	var stories []models.Story
	offset := (filter.Page - 1) * filter.PageSize
	result := query.Preload("User").Preload("Category").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&stories)
	if result.Error != nil {
		return nil, 0, result.Error
	}

	return stories, total, nil
}

// Delete soft deletes a story
func (r *StoryRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Story{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStoryNotFound
	}
	return nil
}
