package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
)

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Notify(ctx context.Context, n Notification) {
	m.Called(ctx, n)
}

func TestNotifyFailure_PrefersRemoteMessage(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	notifier := &mockNotifier{}
	notifier.
		On("Notify", ctx, mock.MatchedBy(func(n Notification) bool {
			return n.Level == LevelError && n.Message == "Invalid metric."
		})).
		Once()

	notifyFailure(ctx, notifier, &womapi.APIError{StatusCode: 400, Message: "Invalid metric."}, "Failed to update zezima.")

	notifier.AssertExpectations(t)
}

func TestNotifyFailure_FallsBackOnOpaqueErrors(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	notifier := &mockNotifier{}
	notifier.
		On("Notify", ctx, mock.MatchedBy(func(n Notification) bool {
			return n.Level == LevelError && n.Message == "Failed to update zezima."
		})).
		Once()

	notifyFailure(ctx, notifier, errors.New("dial tcp: connection refused"), "Failed to update zezima.")

	notifier.AssertExpectations(t)
}

func TestNotifySuccess_SkipsNilNotifier(t *testing.T) {
	t.Parallel()

	// Must not panic.
	notifySuccess(context.Background(), nil, "ok")
	notifyFailure(context.Background(), nil, errors.New("x"), "fallback")
}
