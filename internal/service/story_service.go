package service

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/storyhub/internal/models"
	"github.com/storyhub/internal/repository"
	"github.com/storyhub/internal/upload"
)

var (
	ErrStoryNotFound    = errors.New("story not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrAlreadySaved     = errors.New("story already saved")
	ErrNotSaved         = errors.New("story not saved")
	ErrNotStoryOwner    = errors.New("not the story owner")
)

// StoryService handles story publishing, the feed, bookmarks and read marks
type StoryService struct {
	storyRepo    *repository.StoryRepository
	categoryRepo *repository.CategoryRepository
	savedRepo    *repository.SavedStoryRepository
	readRepo     *repository.ReadStoryRepository
	userRepo     *repository.UserRepository
	imageSaver   *upload.Saver
	feedCache    *FeedCache
}

// NewStoryService creates a new StoryService
func NewStoryService(
	storyRepo *repository.StoryRepository,
	categoryRepo *repository.CategoryRepository,
	savedRepo *repository.SavedStoryRepository,
	readRepo *repository.ReadStoryRepository,
	userRepo *repository.UserRepository,
	imageSaver *upload.Saver,
	feedCache *FeedCache,
) *StoryService {
	return &StoryService{
		storyRepo:    storyRepo,
		categoryRepo: categoryRepo,
		savedRepo:    savedRepo,
		readRepo:     readRepo,
		userRepo:     userRepo,
		imageSaver:   imageSaver,
		feedCache:    feedCache,
	}
}

// Create publishes a story owned by userID. The category is a name or slug
// resolved against the categories table; img is optional.
func (s *StoryService) Create(ctx context.Context, userID uint, title, content, category string, img *multipart.FileHeader) (*models.Story, error) {
	cat, err := s.categoryRepo.GetByName(category)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var imageName string
	if img != nil {
		imageName, err = s.imageSaver.Save(img)
		if err != nil {
			return nil, err
		}
	}

	story := &models.Story{
		UserID:     userID,
		Title:      title,
		Content:    content,
		CategoryID: cat.ID,
		Img:        imageName,
	}
	if err := s.storyRepo.Create(story); err != nil {
		// The image was already on disk; don't leave it orphaned
		s.imageSaver.Remove(imageName)
		return nil, err
	}

	// Reload with author and category for the response and the fanout
	created, err := s.storyRepo.GetByID(story.ID)
	if err != nil {
		return nil, err
	}

	s.feedCache.Invalidate(ctx)
	s.feedCache.PublishStory(ctx, created.View())

	return created, nil
}

// GetByID retrieves a story with its author
func (s *StoryService) GetByID(id uint) (*models.Story, error) {
	story, err := s.storyRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			return nil, ErrStoryNotFound
		}
		return nil, err
	}
	return story, nil
}

// ListByUsername retrieves a user's stories newest-first. An unknown
// username is an error, never an empty list.
func (s *StoryService) ListByUsername(username string) ([]models.StoryView, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	stories, err := s.storyRepo.GetByUserID(user.ID)
	if err != nil {
		return nil, err
	}
	return models.Views(stories), nil
}

// List retrieves the feed page matching the filter. The unfiltered first
// page is the hot path and is served from the redis cache when possible.
func (s *StoryService) List(ctx context.Context, filter repository.StoryFilter) ([]models.StoryView, int64, error) {
	cacheable := filter.Category == "" && filter.Search == "" &&
		(filter.Sort == "" || filter.Sort == "newest") && filter.Page == 1

	if cacheable {
		if feed, ok := s.feedCache.Get(ctx); ok && len(feed.Stories) >= filter.PageSize {
			return feed.Stories[:filter.PageSize], feed.Total, nil
		}
	}

	stories, total, err := s.storyRepo.ListPaginated(filter)
	if err != nil {
		return nil, 0, err
	}
	views := models.Views(stories)

	if cacheable {
		s.feedCache.Set(ctx, &CachedFeed{Stories: views, Total: total})
	}

	return views, total, nil
}

// Delete removes a story. Only the owner may delete; bookmarks and read
// marks referencing it are removed as well.
func (s *StoryService) Delete(ctx context.Context, storyID, userID uint) error {
	story, err := s.storyRepo.GetByID(storyID)
	if err != nil {
		if errors.Is(err, repository.ErrStoryNotFound) {
			return ErrStoryNotFound
		}
		return err
	}
	if story.UserID != userID {
		return ErrNotStoryOwner
	}

	if err := s.savedRepo.DeleteByStoryID(storyID); err != nil {
		return err
	}
	if err := s.readRepo.DeleteByStoryID(storyID); err != nil {
		return err
	}
	if err := s.storyRepo.Delete(storyID); err != nil {
		return err
	}
	s.imageSaver.Remove(story.Img)

	s.feedCache.Invalidate(ctx)
	return nil
}

// Save bookmarks a story for the user
func (s *StoryService) Save(userID, storyID uint) error {
	if _, err := s.GetByID(storyID); err != nil {
		return err
	}

	if err := s.savedRepo.Save(userID, storyID); err != nil {
		if errors.Is(err, repository.ErrAlreadySaved) {
			return ErrAlreadySaved
		}
		return err
	}
	return nil
}

// Unsave removes the user's bookmark of a story
func (s *StoryService) Unsave(userID, storyID uint) error {
	if err := s.savedRepo.Unsave(userID, storyID); err != nil {
		if errors.Is(err, repository.ErrNotSaved) {
			return ErrNotSaved
		}
		return err
	}
	return nil
}

// ListSaved retrieves the stories a user has saved
func (s *StoryService) ListSaved(userID uint) ([]models.StoryView, error) {
	stories, err := s.savedRepo.GetStoriesByUserID(userID)
	if err != nil {
		return nil, err
	}
	return models.Views(stories), nil
}

// MarkRead records that the user has read a story; repeats are a no-op
func (s *StoryService) MarkRead(userID, storyID uint) error {
	if _, err := s.GetByID(storyID); err != nil {
		return err
	}
	return s.readRepo.MarkRead(userID, storyID)
}

// ListRead retrieves the stories a user has read
func (s *StoryService) ListRead(userID uint) ([]models.StoryView, error) {
	stories, err := s.readRepo.GetStoriesByUserID(userID)
	if err != nil {
		return nil, err
	}
	return models.Views(stories), nil
}

// ListCategories retrieves all story categories
func (s *StoryService) ListCategories() ([]models.Category, error) {
	return s.categoryRepo.List()
}
