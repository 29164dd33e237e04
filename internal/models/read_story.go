package models

import "time"

// ReadStory marks a story as read by a user. Same composite index shape as
// SavedStory, but inserts are idempotent since clients mark a story read on
// every open.
type ReadStory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_story_read" json:"user_id"`
	StoryID   uint      `gorm:"not null;index;uniqueIndex:idx_user_story_read" json:"story_id"`
	CreatedAt time.Time `json:"read_at"`

	Story Story `gorm:"foreignKey:StoryID" json:"-"`
}

// TableName specifies the table name for ReadStory model
func (ReadStory) TableName() string {
	return "storiesread"
}
