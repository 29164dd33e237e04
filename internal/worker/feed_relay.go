package worker

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/storyhub/internal/service"
	"github.com/storyhub/internal/ws"
)

// FeedRelay subscribes to the story updates channel and forwards each
// announcement into the local websocket hub. Publishing goes through redis
// even for single-instance deployments so every instance, local or not,
// fans out the same way.
type FeedRelay struct {
	rdb *redis.Client
	hub *ws.Hub
}

// NewFeedRelay creates a new FeedRelay
func NewFeedRelay(rdb *redis.Client, hub *ws.Hub) *FeedRelay {
	return &FeedRelay{rdb: rdb, hub: hub}
}

// Start runs the relay loop until ctx is cancelled, resubscribing after
// transient redis failures
func (r *FeedRelay) Start(ctx context.Context) {
	log.Printf("[FeedRelay] started on channel %q", service.StoryUpdatesChannel)

	for {
		pubsub := r.rdb.Subscribe(ctx, service.StoryUpdatesChannel)
		ch := pubsub.Channel()

	recv:
		for {
			select {
			case <-ctx.Done():
				pubsub.Close()
				log.Printf("[FeedRelay] stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					break recv
				}
				r.hub.BroadcastRaw([]byte(msg.Payload))
			}
		}

		pubsub.Close()

		select {
		case <-ctx.Done():
			log.Printf("[FeedRelay] stopped")
			return
		case <-time.After(5 * time.Second):
			log.Printf("[FeedRelay] resubscribing")
		}
	}
}
