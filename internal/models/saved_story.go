package models

import "time"

// SavedStory records a user's bookmark of a story. The composite unique
// index makes concurrent duplicate saves fail at the constraint rather
// than relying on the handler's pre-check.
type SavedStory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_story_save" json:"user_id"`
	StoryID   uint      `gorm:"not null;index;uniqueIndex:idx_user_story_save" json:"story_id"`
	CreatedAt time.Time `json:"saved_at"`

	Story Story `gorm:"foreignKey:StoryID" json:"-"`
}

// TableName specifies the table name for SavedStory model
func (SavedStory) TableName() string {
	return "storiessaved"
}
