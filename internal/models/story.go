package models

import (
	"time"

	"gorm.io/gorm"
)

// Story represents a user-authored story
type Story struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	UserID     uint           `gorm:"not null;index" json:"user_id"`
	Title      string         `gorm:"size:200;not null" json:"title"`
	Content    string         `gorm:"type:text;not null" json:"content"`
	CategoryID uint           `gorm:"not null;index" json:"category_id"`
	Img        string         `gorm:"size:255" json:"img"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	User     User     `gorm:"foreignKey:UserID" json:"-"`
	Category Category `gorm:"foreignKey:CategoryID" json:"-"`
}

// TableName specifies the table name for Story model
func (Story) TableName() string {
	return "stories"
}

// StoryView is a story joined with its author and category, the shape
// every list and detail endpoint returns
type StoryView struct {
	ID                 uint      `json:"id"`
	UserID             uint      `json:"user_id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	Category           string    `json:"category"`
	Img                string    `json:"img"`
	CreatedAt          time.Time `json:"created_at"`
	Username           string    `json:"username"`
	AuthorProfileImage string    `json:"author_profile_image"`
}

// View returns the joined representation of the story. User and Category
// must be preloaded.
func (s *Story) View() StoryView {
	return StoryView{
		ID:                 s.ID,
		UserID:             s.UserID,
		Title:              s.Title,
		Content:            s.Content,
		Category:           s.Category.Name,
		Img:                s.Img,
		CreatedAt:          s.CreatedAt,
		Username:           s.User.Username,
		AuthorProfileImage: s.User.ProfileImage,
	}
}

// Views maps a story slice to its joined representation
func Views(stories []Story) []StoryView {
	views := make([]StoryView, 0, len(stories))
	for i := range stories {
		views = append(views, stories[i].View())
	}
	return views
}
