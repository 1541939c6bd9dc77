package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

func TestPlayerServiceSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("merges results into the cache", func(t *testing.T) {
		st := store.New()
		st.MergePlayer(player.Player{Username: "zezima", Country: "SE"})

		api := &fakeAPI{
			searchPlayersFn: func(_ context.Context, query string, _ int) ([]player.Player, error) {
				if query != "zezima" {
					t.Fatalf("unexpected query: %q", query)
				}
				return []player.Player{{Username: "zezima", DisplayName: "Zezima", Exp: 100}}, nil
			},
		}

		svc := NewPlayerService(api, st, store.NewRequestTokens(), NopNotifier{})
		results, err := svc.Search(ctx, "zezima", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("expected one result, got %d", len(results))
		}
		if results[0].Country != "SE" {
			t.Fatalf("merge dropped the cached country: %+v", results[0])
		}
		if results[0].DisplayName != "Zezima" || results[0].Exp != 100 {
			t.Fatalf("fresh fields missing: %+v", results[0])
		}
	})

	t.Run("stale completion writes nothing", func(t *testing.T) {
		st := store.New()
		tokens := store.NewRequestTokens()

		api := &fakeAPI{
			searchPlayersFn: func(_ context.Context, _ string, _ int) ([]player.Player, error) {
				// A newer search supersedes this one while it is in flight.
				tokens.Issue("players:search")
				return []player.Player{{Username: "stale result"}}, nil
			},
		}

		svc := NewPlayerService(api, st, tokens, NopNotifier{})
		results, err := svc.Search(ctx, "old query", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Fatalf("stale search must return cache contents, got %+v", results)
		}
		if _, ok := st.Player("stale result"); ok {
			t.Fatalf("stale search wrote into the cache")
		}
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		svc := NewPlayerService(&fakeAPI{}, store.New(), store.NewRequestTokens(), NopNotifier{})
		if _, err := svc.Search(ctx, "   ", 10); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestPlayerServiceTrack(t *testing.T) {
	ctx := context.Background()

	t.Run("success fans out and notifies", func(t *testing.T) {
		st := store.New()
		st.MergeCompetition(fixtureCompetitionWith("lynx titan"))

		api := &fakeAPI{
			trackPlayerFn: func(_ context.Context, username string) (player.Player, error) {
				return player.Player{Username: username, DisplayName: "Lynx Titan", Exp: 200}, nil
			},
		}
		notifier := &recordingNotifier{}

		svc := NewPlayerService(api, st, store.NewRequestTokens(), notifier)
		updated, err := svc.Track(ctx, "lynx titan")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Exp != 200 {
			t.Fatalf("unexpected player: %+v", updated)
		}

		comp, _ := st.Competition(1)
		if comp.Participants[0].Player.Exp != 200 {
			t.Fatalf("fan-out missed the embedded copy: %+v", comp.Participants[0].Player)
		}

		note, ok := notifier.last()
		if !ok || note.Level != LevelSuccess {
			t.Fatalf("expected success notification, got %+v", note)
		}
	})

	t.Run("failure surfaces the remote message verbatim", func(t *testing.T) {
		st := store.New()
		api := &fakeAPI{
			trackPlayerFn: func(_ context.Context, _ string) (player.Player, error) {
				return player.Player{}, &womapi.APIError{StatusCode: 400, Message: "Failed to load hiscores: Invalid username."}
			},
		}
		notifier := &recordingNotifier{}

		svc := NewPlayerService(api, st, store.NewRequestTokens(), notifier)
		if _, err := svc.Track(ctx, "no such name"); err == nil {
			t.Fatalf("expected error")
		}

		note, ok := notifier.last()
		if !ok || note.Level != LevelError {
			t.Fatalf("expected error notification, got %+v", note)
		}
		if note.Message != "Failed to load hiscores: Invalid username." {
			t.Fatalf("remote message was rewritten: %q", note.Message)
		}
		if _, ok := st.LastError(store.KindPlayers); !ok {
			t.Fatalf("failure was not recorded on the players slot")
		}
	})

	t.Run("opaque failure falls back to a generic message", func(t *testing.T) {
		api := &fakeAPI{
			trackPlayerFn: func(_ context.Context, _ string) (player.Player, error) {
				return player.Player{}, errors.New("dial tcp: connection refused")
			},
		}
		notifier := &recordingNotifier{}

		svc := NewPlayerService(api, store.New(), store.NewRequestTokens(), notifier)
		_, _ = svc.Track(ctx, "zezima")

		note, _ := notifier.last()
		if note.Message != "Failed to update zezima." {
			t.Fatalf("internals leaked into the toast: %q", note.Message)
		}
	})
}

func fixtureCompetitionWith(username string) competition.Competition {
	return competition.Competition{
		ID:       1,
		Title:    "Weekly Overall",
		Metric:   "overall",
		StartsAt: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC),
		EndsAt:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		Participants: []competition.Participant{
			{Player: player.Player{Username: username, Exp: 50}},
		},
	}
}
