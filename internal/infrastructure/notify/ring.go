// Package notify buffers user-facing notifications until the presentation
// layer drains them.
package notify

import (
	"context"
	"sync"

	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/logging"
	"github.com/wise-old-man/wise-old-man-sub003/internal/usecase"
)

const defaultCapacity = 64

// Ring is a bounded in-memory notifier. When full, the oldest notification
// is dropped; a mutation must never block on its toast.
type Ring struct {
	mu       sync.Mutex
	rows     []usecase.Notification
	capacity int
	logger   *logging.Logger
}

func NewRing(capacity int, logger *logging.Logger) *Ring {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Ring{
		rows:     make([]usecase.Notification, 0, capacity),
		capacity: capacity,
		logger:   logger,
	}
}

func (r *Ring) Notify(ctx context.Context, n usecase.Notification) {
	r.mu.Lock()
	if len(r.rows) >= r.capacity {
		r.rows = r.rows[1:]
	}
	r.rows = append(r.rows, n)
	r.mu.Unlock()

	r.logger.InfoContext(ctx, "notification dispatched",
		"level", string(n.Level),
		"message", n.Message,
	)
}

// Drain returns every pending notification in arrival order and clears the
// buffer.
func (r *Ring) Drain() []usecase.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]usecase.Notification, len(r.rows))
	copy(out, r.rows)
	r.rows = r.rows[:0]
	return out
}

// Pending reports the buffered notification count without draining.
func (r *Ring) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}
