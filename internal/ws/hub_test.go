package ws

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDetachAfterHubShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(stopped)
	}()

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	cancel()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on context cancellation")
	}

	// A read pump that notices the closed connection only now must still
	// be able to detach even though nobody receives on unregister anymore
	detached := make(chan struct{})
	go func() {
		client.detach()
		close(detached)
	}()

	select {
	case <-detached:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after hub shutdown")
	}
}

func TestBroadcastReachesRegisteredClient(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	client := &Client{hub: hub, send: make(chan []byte, 1)}
	hub.register <- client

	hub.BroadcastRaw([]byte(`{"id":1}`))

	select {
	case msg := <-client.send:
		require.JSONEq(t, `{"id":1}`, string(msg))
	case <-time.After(time.Second):
		t.Fatal("broadcast did not reach the client")
	}
}
