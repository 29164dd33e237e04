package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storyhub/internal/models"
)

const (
	// StoryUpdatesChannel is the redis pub/sub channel newly published
	// stories are announced on. Every instance's relay worker forwards the
	// messages into its local websocket hub.
	StoryUpdatesChannel = "story_updates"

	feedCacheKey = "feed:recent"
	feedCacheTTL = 30 * time.Second
)

// CachedFeed is the cached first page of the unfiltered feed
type CachedFeed struct {
	Stories []models.StoryView `json:"stories"`
	Total   int64              `json:"total"`
}

// FeedCache caches the hot first page of the story feed in redis and
// announces new stories on the updates channel
type FeedCache struct {
	rdb *redis.Client
}

// NewFeedCache creates a new FeedCache
func NewFeedCache(rdb *redis.Client) *FeedCache {
	return &FeedCache{rdb: rdb}
}

// Get returns the cached feed page, or false on miss or decode failure
func (c *FeedCache) Get(ctx context.Context) (*CachedFeed, bool) {
	data, err := c.rdb.Get(ctx, feedCacheKey).Bytes()
	if err != nil {
		return nil, false
	}

	var feed CachedFeed
	if err := json.Unmarshal(data, &feed); err != nil {
		return nil, false
	}
	return &feed, true
}

// Set stores the feed page with a short TTL. Cache failures are logged,
// never surfaced: the feed still works straight off the database.
// Writers that change anything a cached page embeds (stories, author
// avatars) must call Invalidate; everything else is stale for at most
// the TTL.
func (c *FeedCache) Set(ctx context.Context, feed *CachedFeed) {
	data, err := json.Marshal(feed)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, feedCacheKey, data, feedCacheTTL).Err(); err != nil {
		log.Printf("[FeedCache] failed to cache feed: %v", err)
	}
}

// Invalidate drops the cached feed page
func (c *FeedCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Del(ctx, feedCacheKey).Err(); err != nil {
		log.Printf("[FeedCache] failed to invalidate feed: %v", err)
	}
}

// PublishStory announces a newly published story on the updates channel
func (c *FeedCache) PublishStory(ctx context.Context, view models.StoryView) {
	data, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := c.rdb.Publish(ctx, StoryUpdatesChannel, data).Err(); err != nil {
		log.Printf("[FeedCache] failed to publish story update: %v", err)
	}
}
