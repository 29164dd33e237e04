package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/storyhub/internal/models"
	"github.com/storyhub/internal/repository"
	"github.com/storyhub/internal/upload"
)

// UserService handles profile operations
type UserService struct {
	userRepo    *repository.UserRepository
	authService *AuthService
	imageSaver  *upload.Saver
	feedCache   *FeedCache
}

// NewUserService creates a new UserService
func NewUserService(userRepo *repository.UserRepository, authService *AuthService, imageSaver *upload.Saver, feedCache *FeedCache) *UserService {
	return &UserService{
		userRepo:    userRepo,
		authService: authService,
		imageSaver:  imageSaver,
		feedCache:   feedCache,
	}
}

// UpdateProfileRequest represents the profile update request
type UpdateProfileRequest struct {
	Bio       string `json:"bio" binding:"max=2000"`
	Firstname string `json:"firstname" binding:"required,max=50"`
	Lastname  string `json:"lastname" binding:"required,max=50"`
}

// GetProfile retrieves a user's profile by ID
func (s *UserService) GetProfile(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// GetByUsername retrieves a user's profile by username
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// UpdateProfile updates the caller's profile fields and returns the updated
// record with a freshly signed token
func (s *UserService) UpdateProfile(userID uint, req *UpdateProfileRequest) (*models.User, string, error) {
	if err := s.userRepo.UpdateProfile(userID, req.Bio, req.Firstname, req.Lastname); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.authService.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// UploadProfileImage stores the uploaded avatar, updates the profile and
// returns the generated filename with a freshly signed token
func (s *UserService) UploadProfileImage(ctx context.Context, userID uint, fh *multipart.FileHeader) (string, string, error) {
	imageName, err := s.imageSaver.Save(fh)
	if err != nil {
		return "", "", err
	}

	if err := s.userRepo.UpdateProfileImage(userID, imageName); err != nil {
		s.imageSaver.Remove(imageName)
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", "", ErrUserNotFound
		}
		return "", "", err
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", "", err
	}

	token, err := s.authService.GenerateToken(user)
	if err != nil {
		return "", "", err
	}

	// Cached feed pages embed the author's avatar filename
	s.feedCache.Invalidate(ctx)

	return imageName, token, nil
}
