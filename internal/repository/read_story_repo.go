package repository

import (
	"github.com/storyhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReadStoryRepository handles read-tracking data access
type ReadStoryRepository struct {
	db *gorm.DB
}

// NewReadStoryRepository creates a new ReadStoryRepository
func NewReadStoryRepository(db *gorm.DB) *ReadStoryRepository {
	return &ReadStoryRepository{db: db}
}

// MarkRead records that a user has read a story. Clients fire this on
// every story open, so repeats are a no-op rather than an error.
func (r *ReadStoryRepository) MarkRead(userID, storyID uint) error {
	read := &models.ReadStory{UserID: userID, StoryID: storyID}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(read).Error
}

// GetStoriesByUserID retrieves the stories a user has read, most recently
// read first, each joined with its author and category
func (r *ReadStoryRepository) GetStoriesByUserID(userID uint) ([]models.Story, error) {
	var stories []models.Story
	result := r.db.Model(&models.Story{}).Select("stories.*").
		Preload("User").Preload("Category").
		Joins("JOIN storiesread ON storiesread.story_id = stories.id").
		Where("storiesread.user_id = ?", userID).
		Order("storiesread.created_at DESC").
		Find(&stories)
	if result.Error != nil {
		return nil, result.Error
	}
	return stories, nil
}

// DeleteByStoryID removes all read marks of a story
func (r *ReadStoryRepository) DeleteByStoryID(storyID uint) error {
	return r.db.Where("story_id = ?", storyID).Delete(&models.ReadStory{}).Error
}
