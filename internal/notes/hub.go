// Package notes fans out collaborative notes updates over Redis pub/sub,
// one channel per project. The notes content itself is persisted by the
// project service; the hub only carries live update events to connected
// editors.
package notes

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// NoteUpdate is one broadcast notes save.
type NoteUpdate struct {
	ProjectID string    `json:"projectId"`
	Content   string    `json:"content"`
	Editor    string    `json:"editor"`
	SavedAt   time.Time `json:"savedAt"`
}

// Hub publishes and subscribes notes updates for projects.
type Hub struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// NewHub creates a hub over the given Redis client.
func NewHub(rdb *redis.Client, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{rdb: rdb, logger: logger}
}

// Close releases the underlying Redis connection.
func (h *Hub) Close() error {
	return h.rdb.Close()
}

func channelFor(projectID string) string {
	return "okrd:notes:" + projectID
}

// Publish broadcasts a notes update to every subscriber of the project.
func (h *Hub) Publish(ctx context.Context, update NoteUpdate) error {
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("encoding note update: %w", err)
	}
	if err := h.rdb.Publish(ctx, channelFor(update.ProjectID), payload).Err(); err != nil {
		return fmt.Errorf("publishing note update: %w", err)
	}
	return nil
}

// Subscription delivers notes updates for one project until closed.
// Delivery is at-most-once; a slow consumer may miss updates, which is
// acceptable because every update carries the full content.
type Subscription struct {
	events chan NoteUpdate
	cancel context.CancelFunc
}

// Events returns the update channel. It closes when the subscription ends.
func (s *Subscription) Events() <-chan NoteUpdate {
	return s.events
}

// Close stops the subscription and closes the events channel.
func (s *Subscription) Close() {
	s.cancel()
}

// Subscribe starts listening for a project's notes updates. The
// subscription ends when Close is called or the context is cancelled.
func (h *Hub) Subscribe(ctx context.Context, projectID string) (*Subscription, error) {
	pubsub := h.rdb.Subscribe(ctx, channelFor(projectID))
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, fmt.Errorf("subscribing to notes: %w", err)
	}

	events := make(chan NoteUpdate, 10)
	subCtx, cancel := context.WithCancel(ctx)

	go func() {
		defer close(events)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var update NoteUpdate
				if err := json.Unmarshal([]byte(msg.Payload), &update); err != nil {
					h.logger.Warn("dropping malformed note update", "project_id", projectID, "error", err)
					continue
				}
				select {
				case events <- update:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{events: events, cancel: cancel}, nil
}
