package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/storyhub/internal/middleware"
	"github.com/storyhub/internal/repository"
	"github.com/storyhub/internal/service"
	"github.com/storyhub/internal/upload"
	"github.com/storyhub/pkg/response"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// StoryHandler handles story publishing, the feed, bookmarks and read marks
type StoryHandler struct {
	storyService *service.StoryService
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(storyService *service.StoryService) *StoryHandler {
	return &StoryHandler{
		storyService: storyService,
	}
}

// Create publishes a story from a multipart form with an optional image
// POST /api/auth/stories
func (h *StoryHandler) Create(c *gin.Context) {
	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))
	category := strings.TrimSpace(c.PostForm("category"))

	if title == "" || content == "" || category == "" {
		response.BadRequest(c, "title, content and category are required")
		return
	}

	// Optional image; only a present file is validated
	fh, err := c.FormFile("img")
	if err != nil {
		fh = nil
	}

	story, err := h.storyService.Create(c.Request.Context(), middleware.GetUserID(c), title, content, category, fh)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			response.BadRequest(c, "unknown category")
		case errors.Is(err, upload.ErrNotImage), errors.Is(err, upload.ErrTooLarge):
			response.BadRequest(c, err.Error())
		default:
			response.InternalError(c, "failed to create story")
		}
		return
	}

	response.Created(c, story.View())
}

// ListByUsername returns a user's stories, newest first
// GET /api/auth/stories/user/:username
func (h *StoryHandler) ListByUsername(c *gin.Context) {
	views, err := h.storyService.ListByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load stories")
		return
	}

	response.Success(c, views)
}

// GetByID returns a single story with its author
// GET /api/auth/stories/id/:id
func (h *StoryHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"))
	if !ok {
		return
	}

	story, err := h.storyService.GetByID(id)
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			response.NotFound(c, "story not found")
			return
		}
		response.InternalError(c, "failed to load story")
		return
	}

	response.Success(c, story.View())
}

// Delete removes the caller's own story
// DELETE /api/auth/stories/id/:id
func (h *StoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, c.Param("id"))
	if !ok {
		return
	}

	err := h.storyService.Delete(c.Request.Context(), id, middleware.GetUserID(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoryNotFound):
			response.NotFound(c, "story not found")
		case errors.Is(err, service.ErrNotStoryOwner):
			response.Forbidden(c, "only the story owner can delete it")
		default:
			response.InternalError(c, "failed to delete story")
		}
		return
	}

	response.Success(c, gin.H{"message": "story deleted successfully"})
}

// ListAll returns the paginated, filterable story feed
// GET /api/auth/stories_all?category=&search=&sort=&page=&page_size=
func (h *StoryHandler) ListAll(c *gin.Context) {
	filter := repository.StoryFilter{
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("search")),
		Sort:     c.Query("sort"),
		Page:     1,
		PageSize: defaultPageSize,
	}

	if v := c.Query("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if v := c.Query("page_size"); v != "" {
		if size, err := strconv.Atoi(v); err == nil && size > 0 {
			if size > maxPageSize {
				size = maxPageSize
			}
			filter.PageSize = size
		}
	}

	views, total, err := h.storyService.List(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, "failed to load stories")
		return
	}

	response.SuccessPaginated(c, views, total, filter.Page, filter.PageSize)
}

// SaveRequest represents the save-story and read-story request body
type SaveRequest struct {
	StoryID uint `json:"storyId" binding:"required"`
}

// Save bookmarks a story for the caller
// POST /api/auth/save_story
func (h *StoryHandler) Save(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.storyService.Save(middleware.GetUserID(c), req.StoryID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadySaved):
			response.BadRequest(c, "story already saved")
		case errors.Is(err, service.ErrStoryNotFound):
			response.NotFound(c, "story not found")
		default:
			response.InternalError(c, "failed to save story")
		}
		return
	}

	response.Created(c, gin.H{"message": "story saved successfully"})
}

// Unsave removes the caller's bookmark
// DELETE /api/auth/save_story/:storyId
func (h *StoryHandler) Unsave(c *gin.Context) {
	id, ok := parseID(c, c.Param("storyId"))
	if !ok {
		return
	}

	err := h.storyService.Unsave(middleware.GetUserID(c), id)
	if err != nil {
		if errors.Is(err, service.ErrNotSaved) {
			response.BadRequest(c, "story not saved")
			return
		}
		response.InternalError(c, "failed to unsave story")
		return
	}

	response.Success(c, gin.H{"message": "story unsaved successfully"})
}

// ListSaved returns the stories a user has bookmarked
// GET /api/auth/saved_stories/:userId
func (h *StoryHandler) ListSaved(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"))
	if !ok {
		return
	}

	views, err := h.storyService.ListSaved(userID)
	if err != nil {
		response.InternalError(c, "failed to load saved stories")
		return
	}

	response.Success(c, views)
}

// MarkRead records that the caller has read a story
// POST /api/auth/read_story
func (h *StoryHandler) MarkRead(c *gin.Context) {
	var req SaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	err := h.storyService.MarkRead(middleware.GetUserID(c), req.StoryID)
	if err != nil {
		if errors.Is(err, service.ErrStoryNotFound) {
			response.NotFound(c, "story not found")
			return
		}
		response.InternalError(c, "failed to mark story as read")
		return
	}

	response.Created(c, gin.H{"message": "story marked as read"})
}

// ListRead returns the stories a user has read
// GET /api/auth/read_stories/:userId
func (h *StoryHandler) ListRead(c *gin.Context) {
	userID, ok := parseID(c, c.Param("userId"))
	if !ok {
		return
	}

	views, err := h.storyService.ListRead(userID)
	if err != nil {
		response.InternalError(c, "failed to load read stories")
		return
	}

	response.Success(c, views)
}

// ListCategories returns all story categories
// GET /api/auth/categories
func (h *StoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.storyService.ListCategories()
	if err != nil {
		response.InternalError(c, "failed to load categories")
		return
	}

	response.Success(c, categories)
}

// parseID parses a numeric path parameter, writing a 400 on failure
func parseID(c *gin.Context, raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// RegisterRoutes registers story routes
func (h *StoryHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.POST("/stories", authMiddleware, h.Create)
	rg.GET("/stories/user/:username", h.ListByUsername)
	rg.GET("/stories/id/:id", authMiddleware, h.GetByID)
	rg.DELETE("/stories/id/:id", authMiddleware, h.Delete)
	rg.GET("/stories_all", authMiddleware, h.ListAll)

	rg.POST("/save_story", authMiddleware, h.Save)
	rg.DELETE("/save_story/:storyId", authMiddleware, h.Unsave)
	rg.GET("/saved_stories/:userId", authMiddleware, h.ListSaved)

	rg.POST("/read_story", authMiddleware, h.MarkRead)
	rg.GET("/read_stories/:userId", authMiddleware, h.ListRead)

	rg.GET("/categories", h.ListCategories)
}
