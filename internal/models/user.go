package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered user
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:50;not null" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Firstname    string         `gorm:"size:50" json:"firstname"`
	Lastname     string         `gorm:"size:50" json:"lastname"`
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	Bio          string         `gorm:"type:text" json:"bio"`
	ProfileImage string         `gorm:"size:255" json:"profile_image"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Stories      []Story      `gorm:"foreignKey:UserID" json:"stories,omitempty"`
	SavedStories []SavedStory `gorm:"foreignKey:UserID" json:"saved_stories,omitempty"`
	ReadStories  []ReadStory  `gorm:"foreignKey:UserID" json:"read_stories,omitempty"`
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// PublicProfile is the subset of user fields safe to return to any caller
type PublicProfile struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns the public view of the user
func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Username:     u.Username,
		Firstname:    u.Firstname,
		Lastname:     u.Lastname,
		Email:        u.Email,
		Bio:          u.Bio,
		ProfileImage: u.ProfileImage,
		CreatedAt:    u.CreatedAt,
	}
}
