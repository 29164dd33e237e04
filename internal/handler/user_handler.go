package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/storyhub/internal/middleware"
	"github.com/storyhub/internal/service"
	"github.com/storyhub/internal/upload"
	"github.com/storyhub/pkg/response"
)

// UserHandler handles profile operations
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me returns the caller's profile, read fresh from the database
// GET /api/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetProfile(middleware.GetUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load profile")
		return
	}

	response.Success(c, user.Public())
}

// GetByUsername returns any user's public profile
// GET /api/auth/users/:username
func (h *UserHandler) GetByUsername(c *gin.Context) {
	user, err := h.userService.GetByUsername(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to load profile")
		return
	}

	response.Success(c, gin.H{"user": user.Public()})
}

// UpdateProfile updates the caller's bio and name fields
// PUT /api/auth/update-profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, token, err := h.userService.UpdateProfile(middleware.GetUserID(c), &req)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, gin.H{
		"message": "profile updated successfully",
		"token":   token,
		"user":    user.Public(),
	})
}

// UploadProfileImage stores a new avatar for the caller
// POST /api/auth/upload-profile-image
func (h *UserHandler) UploadProfileImage(c *gin.Context) {
	fh, err := c.FormFile("profileImage")
	if err != nil {
		response.BadRequest(c, "profileImage file is required")
		return
	}

	imageName, token, err := h.userService.UploadProfileImage(c.Request.Context(), middleware.GetUserID(c), fh)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrNotImage), errors.Is(err, upload.ErrTooLarge):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFound(c, "user not found")
		default:
			response.InternalError(c, "failed to upload image")
		}
		return
	}

	response.Success(c, gin.H{
		"message":   "profile image updated successfully",
		"token":     token,
		"imageName": imageName,
	})
}

// RegisterRoutes registers profile routes
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	rg.GET("/me", authMiddleware, h.Me)
	rg.GET("/users/:username", h.GetByUsername)
	rg.PUT("/update-profile", authMiddleware, h.UpdateProfile)
	rg.POST("/upload-profile-image", authMiddleware, h.UploadProfileImage)
}
