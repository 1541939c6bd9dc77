package usecase

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

func clanFixture(id int64, now time.Time) group.Group {
	return group.Group{
		ID:   id,
		Name: "Ironclad",
		Memberships: []group.Membership{
			{Role: group.RoleOwner, Player: player.Player{Username: "fresh one", UpdatedAt: now.Add(-time.Hour)}},
			{Role: group.RoleMember, Player: player.Player{Username: "stale one", UpdatedAt: now.Add(-48 * time.Hour)}},
			{Role: group.RoleMember, Player: player.Player{Username: "never tracked"}},
		},
	}
}

func TestGroupServiceOutdatedMembers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	st := store.New()
	api := &fakeAPI{
		getGroupFn: func(_ context.Context, id int64) (group.Group, error) {
			return clanFixture(id, now), nil
		},
	}

	svc := NewGroupService(api, st, NopNotifier{}, 2)
	svc.now = func() time.Time { return now }

	outdated, err := svc.OutdatedMembers(ctx, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outdated) != 2 {
		t.Fatalf("expected two outdated members, got %d", len(outdated))
	}
	// Never-tracked members sort first: the zero time is the oldest.
	if outdated[0].Player.Username != "never tracked" {
		t.Fatalf("unexpected order: %+v", outdated)
	}
	if outdated[1].Player.Username != "stale one" {
		t.Fatalf("unexpected order: %+v", outdated)
	}
}

func TestGroupServiceUpdateAllMembers(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

	t.Run("updates every outdated member through the pool", func(t *testing.T) {
		st := store.New()
		var tracked int32
		api := &fakeAPI{
			getGroupFn: func(_ context.Context, id int64) (group.Group, error) {
				return clanFixture(id, now), nil
			},
			trackPlayerFn: func(_ context.Context, username string) (player.Player, error) {
				atomic.AddInt32(&tracked, 1)
				return player.Player{Username: username, UpdatedAt: now}, nil
			},
		}
		notifier := &recordingNotifier{}

		svc := NewGroupService(api, st, notifier, 2)
		svc.now = func() time.Time { return now }

		result, err := svc.UpdateAllMembers(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.MemberCount != 2 || result.SuccessCount != 2 || result.FailedCount != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
		if atomic.LoadInt32(&tracked) != 2 {
			t.Fatalf("expected 2 track calls, got %d", tracked)
		}
		if note, _ := notifier.last(); note.Level != LevelSuccess {
			t.Fatalf("expected success summary, got %+v", note)
		}
		if _, ok := st.Player("stale one"); !ok {
			t.Fatalf("updated member missing from the cache")
		}
	})

	t.Run("partial failure yields a mixed summary with per-member rows", func(t *testing.T) {
		st := store.New()
		api := &fakeAPI{
			getGroupFn: func(_ context.Context, id int64) (group.Group, error) {
				return clanFixture(id, now), nil
			},
			trackPlayerFn: func(_ context.Context, username string) (player.Player, error) {
				if username == "stale one" {
					return player.Player{}, &womapi.APIError{StatusCode: 400, Message: "Failed to load hiscores."}
				}
				return player.Player{Username: username, UpdatedAt: now}, nil
			},
		}
		notifier := &recordingNotifier{}

		svc := NewGroupService(api, st, notifier, 2)
		svc.now = func() time.Time { return now }

		result, err := svc.UpdateAllMembers(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.SuccessCount != 1 || result.FailedCount != 1 {
			t.Fatalf("unexpected counts: %+v", result)
		}

		var failedRow MemberUpdateResult
		for _, row := range result.Members {
			if !row.Updated {
				failedRow = row
			}
		}
		if failedRow.Username != "stale one" || failedRow.Message != "Failed to load hiscores." {
			t.Fatalf("unexpected failed row: %+v", failedRow)
		}
		if note, _ := notifier.last(); note.Level != LevelInfo {
			t.Fatalf("expected mixed summary, got %+v", note)
		}
	})

	t.Run("nothing to update short-circuits", func(t *testing.T) {
		st := store.New()
		api := &fakeAPI{
			getGroupFn: func(_ context.Context, id int64) (group.Group, error) {
				return group.Group{ID: id, Name: "Fresh Clan", Memberships: []group.Membership{
					{Role: group.RoleOwner, Player: player.Player{Username: "fresh one", UpdatedAt: now.Add(-time.Minute)}},
				}}, nil
			},
			trackPlayerFn: func(_ context.Context, _ string) (player.Player, error) {
				t.Fatal("track must not be called")
				return player.Player{}, nil
			},
		}

		svc := NewGroupService(api, st, NopNotifier{}, 2)
		svc.now = func() time.Time { return now }

		result, err := svc.UpdateAllMembers(ctx, 3)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if result.MemberCount != 0 {
			t.Fatalf("unexpected result: %+v", result)
		}
	})
}

func TestGroupServiceLeaderboard(t *testing.T) {
	ctx := context.Background()

	t.Run("orders rows by gained descending", func(t *testing.T) {
		api := &fakeAPI{
			getGroupGainedFn: func(_ context.Context, id int64, m, period string) ([]group.GainedEntry, error) {
				if m != "zulrah" || period != "week" {
					t.Fatalf("unexpected query: metric=%q period=%q", m, period)
				}
				return []group.GainedEntry{
					{Player: player.Player{Username: "bob"}, Gained: 12},
					{Player: player.Player{Username: "alice"}, Gained: 45},
				}, nil
			},
		}

		svc := NewGroupService(api, store.New(), NopNotifier{}, 2)
		entries, err := svc.Leaderboard(ctx, 3, "zulrah", group.PeriodWeek)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(entries) != 2 || entries[0].Player.Username != "alice" {
			t.Fatalf("unexpected order: %+v", entries)
		}
	})

	t.Run("defaults to the weekly window", func(t *testing.T) {
		var gotPeriod string
		api := &fakeAPI{
			getGroupGainedFn: func(_ context.Context, _ int64, _, period string) ([]group.GainedEntry, error) {
				gotPeriod = period
				return nil, nil
			},
		}

		svc := NewGroupService(api, store.New(), NopNotifier{}, 2)
		if _, err := svc.Leaderboard(ctx, 3, "overall", ""); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPeriod != "week" {
			t.Fatalf("expected default week period, got %q", gotPeriod)
		}
	})

	t.Run("rejects unknown metrics and periods", func(t *testing.T) {
		svc := NewGroupService(&fakeAPI{}, store.New(), NopNotifier{}, 2)

		if _, err := svc.Leaderboard(ctx, 3, "overalll", group.PeriodWeek); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for metric, got %v", err)
		}
		if _, err := svc.Leaderboard(ctx, 3, "overall", "fortnight"); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for period, got %v", err)
		}
	})
}

func TestGroupServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("evicts the cached group", func(t *testing.T) {
		st := store.New()
		st.MergeGroup(group.Group{ID: 3, Name: "Ironclad"})

		svc := NewGroupService(&fakeAPI{}, st, NopNotifier{}, 2)
		if err := svc.Delete(ctx, 3, "111-222-333"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := st.Group(3); ok {
			t.Fatalf("group not evicted")
		}
	})

	t.Run("requires a verification code", func(t *testing.T) {
		svc := NewGroupService(&fakeAPI{}, store.New(), NopNotifier{}, 2)
		if err := svc.Delete(ctx, 3, ""); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}
