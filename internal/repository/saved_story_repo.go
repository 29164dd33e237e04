package repository

import (
	"errors"

	"github.com/storyhub/internal/models"
	"gorm.io/gorm"
)

var (
	ErrAlreadySaved = errors.New("story already saved")
	ErrNotSaved     = errors.New("story not saved")
)

// SavedStoryRepository handles bookmark data access
type SavedStoryRepository struct {
	db *gorm.DB
}

// NewSavedStoryRepository creates a new SavedStoryRepository
func NewSavedStoryRepository(db *gorm.DB) *SavedStoryRepository {
	return &SavedStoryRepository{db: db}
}

// Save bookmarks a story for a user. The composite unique index on
// (user_id, story_id) rejects concurrent duplicates that slip past any
// caller-side check; gorm's TranslateError maps the violation to
// ErrDuplicatedKey.
func (r *SavedStoryRepository) Save(userID, storyID uint) error {
	saved := &models.SavedStory{UserID: userID, StoryID: storyID}
	err := r.db.Create(saved).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadySaved
		}
		return err
	}
	return nil
}

// Unsave removes a user's bookmark of a story
func (r *SavedStoryRepository) Unsave(userID, storyID uint) error {
	result := r.db.Where("user_id = ? AND story_id = ?", userID, storyID).
		Delete(&models.SavedStory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotSaved
	}
	return nil
}

// Exists reports whether the user has saved the story
func (r *SavedStoryRepository) Exists(userID, storyID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.SavedStory{}).
		Where("user_id = ? AND story_id = ?", userID, storyID).
		Count(&count).Error
	return count > 0, err
}

// GetStoriesByUserID retrieves the stories a user has saved, most recently
// saved first, each joined with its author and category
func (r *SavedStoryRepository) GetStoriesByUserID(userID uint) ([]models.Story, error) {
	var stories []models.Story
	result := r.db.Model(&models.Story{}).Select("stories.*").
		Preload("User").Preload("Category").
		Joins("JOIN storiessaved ON storiessaved.story_id = stories.id").
		Where("storiessaved.user_id = ?", userID).
		Order("storiessaved.created_at DESC").
		Find(&stories)
	if result.Error != nil {
		return nil, result.Error
	}
	return stories, nil
}

// DeleteByStoryID removes all bookmarks of a story
func (r *SavedStoryRepository) DeleteByStoryID(storyID uint) error {
	return r.db.Where("story_id = ?", storyID).Delete(&models.SavedStory{}).Error
}
