package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginStoresToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ana", body["username"])

		json.NewEncoder(w).Encode(map[string]string{
			"message": "login successful",
			"token":   "tok-123",
		})
	}))
	defer server.Close()

	c := New(server.URL)
	require.NoError(t, c.Login(context.Background(), "ana", "hunter22"))
	assert.Equal(t, "tok-123", c.Token())
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(User{ID: 1, Username: "ana"})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok-456")

	user, err := c.Me(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-456", gotAuth)
	assert.Equal(t, "ana", user.Username)
}

func TestAPIErrorDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "story already saved"})
	}))
	defer server.Close()

	c := New(server.URL)
	err := c.SaveStory(context.Background(), 5)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "story already saved", apiErr.Message)
}

func TestFeedQueryParameters(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/stories_all", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "mystery", q.Get("category"))
		assert.Equal(t, "lighthouse", q.Get("search"))
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("page_size"))

		json.NewEncoder(w).Encode(FeedPage{
			Stories:  []Story{{ID: 1, Title: "The Lighthouse"}},
			Total:    1,
			Page:     2,
			PageSize: 10,
		})
	}))
	defer server.Close()

	c := New(server.URL)
	c.SetToken("tok")

	page, err := c.Feed(context.Background(), FeedQuery{
		Category: "mystery",
		Search:   "lighthouse",
		Page:     2,
		PageSize: 10,
	})
	require.NoError(t, err)
	require.Len(t, page.Stories, 1)
	assert.Equal(t, "The Lighthouse", page.Stories[0].Title)
}

func TestFeedSearchTermEscaped(t *testing.T) {
	var gotSearch string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSearch = r.URL.Query().Get("search")
		json.NewEncoder(w).Encode(FeedPage{})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Feed(context.Background(), FeedQuery{Search: "dark & stormy night"})
	require.NoError(t, err)

	assert.Equal(t, "dark & stormy night", gotSearch,
		"spaces and ampersands must survive the round trip")
}

func TestUsernamePathSegmentEscaped(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode([]Story{})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.StoriesByUser(context.Background(), "ana?x=1")
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/stories/user/ana?x=1", gotPath,
		"reserved characters must stay inside the path segment, not start a query")
}

func TestStoriesByUserPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/auth/stories/user/ana", r.URL.Path)
		json.NewEncoder(w).Encode([]Story{})
	}))
	defer server.Close()

	c := New(server.URL)
	stories, err := c.StoriesByUser(context.Background(), "ana")
	require.NoError(t, err)
	assert.Empty(t, stories)
}
