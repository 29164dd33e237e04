package handler_test

import (
	"encoding/json"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/storyhub/internal/models"
	"github.com/storyhub/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RegisterResponse represents the POST /api/auth/register response
type RegisterResponse struct {
	Message string               `json:"message"`
	User    models.PublicProfile `json:"user"`
}

// LoginResponse represents the POST /api/auth/login response
type LoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ProfileUpdateResponse represents the PUT /api/auth/update-profile response
type ProfileUpdateResponse struct {
	Message string               `json:"message"`
	Token   string               `json:"token"`
	User    models.PublicProfile `json:"user"`
}

// FeedResponse represents the GET /api/auth/stories_all response
type FeedResponse struct {
	Stories    []models.StoryView `json:"stories"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"page_size"`
	TotalPages int                `json:"total_pages"`
}

func TestRegisterResponseFormat(t *testing.T) {
	mockResponse := `{
		"message": "user registered successfully",
		"user": {
			"id": 12,
			"username": "ana",
			"firstname": "Ana",
			"lastname": "Petrova",
			"email": "ana@example.com",
			"bio": "",
			"profile_image": "",
			"created_at": "2025-06-01T10:00:00Z"
		}
	}`

	var resp RegisterResponse
	err := json.Unmarshal([]byte(mockResponse), &resp)
	require.NoError(t, err, "Response should be valid JSON")

	assert.Equal(t, "ana", resp.User.Username)
	assert.Equal(t, uint(12), resp.User.ID)
	assert.NotContains(t, mockResponse, "password", "password must never appear in responses")
}

func TestUserJSONNeverLeaksPasswordHash(t *testing.T) {
	user := models.User{
		ID:           3,
		Username:     "bo",
		Email:        "bo@example.com",
		PasswordHash: "$2a$10$secret",
	}

	data, err := json.Marshal(user)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "password")
}

func TestLoginResponseFormat(t *testing.T) {
	mockResponse := `{"message": "login successful", "token": "eyJhbGciOiJIUzI1NiJ9.x.y"}`

	var resp LoginResponse
	err := json.Unmarshal([]byte(mockResponse), &resp)
	require.NoError(t, err)

	assert.NotEmpty(t, resp.Token)
}

func TestErrorBodyFormat(t *testing.T) {
	mockResponse := `{"error": "story already saved"}`

	var body response.ErrorBody
	err := json.Unmarshal([]byte(mockResponse), &body)
	require.NoError(t, err)

	assert.Equal(t, "story already saved", body.Error)
}

func TestFeedResponseFormat(t *testing.T) {
	mockResponse := `{
		"stories": [{
			"id": 5,
			"user_id": 2,
			"title": "The Lighthouse",
			"content": "It was a dark night...",
			"category": "Mystery",
			"img": "1717240000-abc.png",
			"created_at": "2025-06-01T10:00:00Z",
			"username": "ana",
			"author_profile_image": ""
		}],
		"total": 41,
		"page": 2,
		"page_size": 20,
		"total_pages": 3
	}`

	var resp FeedResponse
	err := json.Unmarshal([]byte(mockResponse), &resp)
	require.NoError(t, err)

	require.Len(t, resp.Stories, 1)
	assert.Equal(t, "The Lighthouse", resp.Stories[0].Title)
	assert.Equal(t, "Mystery", resp.Stories[0].Category)
	assert.Equal(t, "ana", resp.Stories[0].Username)
	assert.Equal(t, int64(41), resp.Total)
	assert.Equal(t, 3, resp.TotalPages)
}

func TestStoryViewJoinsAuthor(t *testing.T) {
	story := models.Story{
		ID:      9,
		UserID:  4,
		Title:   "Roots",
		Content: "…",
		Img:     "cover.png",
		User: models.User{
			ID:           4,
			Username:     "mira",
			ProfileImage: "avatar.png",
		},
		Category: models.Category{ID: 2, Name: "Romance", Slug: "romance"},
	}

	view := story.View()
	assert.Equal(t, uint(9), view.ID)
	assert.Equal(t, "mira", view.Username)
	assert.Equal(t, "avatar.png", view.AuthorProfileImage)
	assert.Equal(t, "Romance", view.Category)
}
