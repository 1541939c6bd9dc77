package usecase

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
)

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelError   NotificationLevel = "error"
)

// Notification is one user-facing toast emitted after a mutation completes.
type Notification struct {
	Level   NotificationLevel
	Message string
	At      time.Time
}

// Notifier receives notifications; the dispatcher must never block or fail a
// mutation on its account.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}

func notifySuccess(ctx context.Context, n Notifier, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: LevelSuccess, Message: message, At: time.Now().UTC()})
}

func notifyInfo(ctx context.Context, n Notifier, message string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: LevelInfo, Message: message, At: time.Now().UTC()})
}

func notifyFailure(ctx context.Context, n Notifier, err error, fallback string) {
	if n == nil {
		return
	}
	n.Notify(ctx, Notification{Level: LevelError, Message: failureMessage(err, fallback), At: time.Now().UTC()})
}

// failureMessage prefers the remote envelope's message verbatim; anything else
// collapses to the operation's generic fallback so internals never leak into a
// toast.
func failureMessage(err error, fallback string) string {
	var apiErr *womapi.APIError
	if crerr.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
