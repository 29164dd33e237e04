package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Client is a typed HTTP client for the StoryHub API. It holds the bearer
// token and attaches it to every request, replacing the global default
// auth header the browser client used.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// New creates a new Client for the given base URL, e.g. http://localhost:8080
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetToken stores the bearer token attached to subsequent requests
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the stored bearer token
func (c *Client) Token() string {
	return c.token
}

// APIError is a non-2xx response decoded from the API's error body
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// User is a public user profile
type User struct {
	ID           uint      `json:"id"`
	Username     string    `json:"username"`
	Firstname    string    `json:"firstname"`
	Lastname     string    `json:"lastname"`
	Email        string    `json:"email"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

// Story is a story joined with its author
type Story struct {
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

// Category is a story category
type Category struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// FeedPage is one page of the story feed
type FeedPage struct {
	Stories    []Story `json:"stories"`
	Total      int64   `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// FeedQuery holds the feed's server-side query parameters
type FeedQuery struct {
	Category string
	Search   string
	Sort     string
	Page     int
	PageSize int
}

// RegisterRequest holds the registration fields
type RegisterRequest struct {
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, bytes.NewReader(data), "application/json", out)
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	var resp struct {
		Message string `json:"message"`
		User    User   `json:"user"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Login authenticates and stores the returned token on the client
func (c *Client) Login(ctx context.Context, username, password string) error {
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/api/auth/login", payload, &resp); err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// Me returns the caller's profile
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, "", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UserByUsername returns a public profile
func (c *Client) UserByUsername(ctx context.Context, username string) (*User, error) {
	var resp struct {
		User User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/auth/users/"+url.PathEscape(username), nil, "", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// UpdateProfile updates bio and name fields, refreshing the stored token
func (c *Client) UpdateProfile(ctx context.Context, bio, firstname, lastname string) (*User, error) {
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    User   `json:"user"`
	}
	payload := map[string]string{"bio": bio, "firstname": firstname, "lastname": lastname}
	if err := c.doJSON(ctx, http.MethodPut, "/api/auth/update-profile", payload, &resp); err != nil {
		return nil, err
	}
	c.token = resp.Token
	return &resp.User, nil
}

// UploadProfileImage uploads a new avatar from a local file, refreshing
// the stored token. Returns the generated image name.
func (c *Client) UploadProfileImage(ctx context.Context, path string) (string, error) {
	body, contentType, err := fileForm("profileImage", path, nil)
	if err != nil {
		return "", err
	}

	var resp struct {
		Message   string `json:"message"`
		Token     string `json:"token"`
		ImageName string `json:"imageName"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/upload-profile-image", body, contentType, &resp); err != nil {
		return "", err
	}
	c.token = resp.Token
	return resp.ImageName, nil
}

// CreateStory publishes a story; imagePath is optional ("" for none)
func (c *Client) CreateStory(ctx context.Context, title, content, category, imagePath string) (*Story, error) {
	fields := map[string]string{
		"title":    title,
		"content":  content,
		"category": category,
	}

	var body io.Reader
	var contentType string
	var err error
	if imagePath != "" {
		body, contentType, err = fileForm("img", imagePath, fields)
	} else {
		body, contentType, err = textForm(fields)
	}
	if err != nil {
		return nil, err
	}

	var story Story
	if err := c.do(ctx, http.MethodPost, "/api/auth/stories", body, contentType, &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// StoriesByUser returns a user's stories, newest first
func (c *Client) StoriesByUser(ctx context.Context, username string) ([]Story, error) {
	var stories []Story
	if err := c.do(ctx, http.MethodGet, "/api/auth/stories/user/"+url.PathEscape(username), nil, "", &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// StoryByID returns a single story
func (c *Client) StoryByID(ctx context.Context, id uint) (*Story, error) {
	var story Story
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/auth/stories/id/%d", id), nil, "", &story); err != nil {
		return nil, err
	}
	return &story, nil
}

// DeleteStory deletes the caller's own story
func (c *Client) DeleteStory(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/auth/stories/id/%d", id), nil, "", nil)
}

// Feed returns one page of the story feed
func (c *Client) Feed(ctx context.Context, query FeedQuery) (*FeedPage, error) {
	params := url.Values{}
	if query.Category != "" {
		params.Set("category", query.Category)
	}
	if query.Search != "" {
		params.Set("search", query.Search)
	}
	if query.Sort != "" {
		params.Set("sort", query.Sort)
	}
	if query.Page > 0 {
		params.Set("page", strconv.Itoa(query.Page))
	}
	if query.PageSize > 0 {
		params.Set("page_size", strconv.Itoa(query.PageSize))
	}

	path := "/api/auth/stories_all"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var page FeedPage
	if err := c.do(ctx, http.MethodGet, path, nil, "", &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SaveStory bookmarks a story
func (c *Client) SaveStory(ctx context.Context, storyID uint) error {
	payload := map[string]uint{"storyId": storyID}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/save_story", payload, nil)
}

// UnsaveStory removes a bookmark
func (c *Client) UnsaveStory(ctx context.Context, storyID uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/auth/save_story/%d", storyID), nil, "", nil)
}

// SavedStories returns the stories a user has bookmarked
func (c *Client) SavedStories(ctx context.Context, userID uint) ([]Story, error) {
	var stories []Story
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/auth/saved_stories/%d", userID), nil, "", &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// MarkRead records that the caller has read a story
func (c *Client) MarkRead(ctx context.Context, storyID uint) error {
	payload := map[string]uint{"storyId": storyID}
	return c.doJSON(ctx, http.MethodPost, "/api/auth/read_story", payload, nil)
}

// ReadStories returns the stories a user has read
func (c *Client) ReadStories(ctx context.Context, userID uint) ([]Story, error) {
	var stories []Story
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/auth/read_stories/%d", userID), nil, "", &stories); err != nil {
		return nil, err
	}
	return stories, nil
}

// Categories returns all story categories
func (c *Client) Categories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, http.MethodGet, "/api/auth/categories", nil, "", &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// textForm builds a multipart body holding only text fields
func textForm(fields map[string]string) (io.Reader, string, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return buf, writer.FormDataContentType(), nil
}

// fileForm builds a multipart body with one file plus optional text fields
func fileForm(fieldName, path string, fields map[string]string) (io.Reader, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	defer file.Close()

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)

	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", err
		}
	}

	part, err := writer.CreateFormFile(fieldName, filepath.Base(path))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}
	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return buf, writer.FormDataContentType(), nil
}
