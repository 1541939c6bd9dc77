package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

const searchTokenKey = "players:search"

type PlayerService struct {
	api      StatsAPI
	store    *store.Store
	tokens   *store.RequestTokens
	notifier Notifier
}

func NewPlayerService(api StatsAPI, st *store.Store, tokens *store.RequestTokens, notifier Notifier) *PlayerService {
	return &PlayerService{
		api:      api,
		store:    st,
		tokens:   tokens,
		notifier: notifier,
	}
}

// Search queries the remote API and merges the results into the cache. Each
// call invalidates every earlier in-flight search: a completion that is no
// longer the latest writes nothing and returns the cache as it stands, so a
// slow response can never overwrite a newer one.
func (s *PlayerService) Search(ctx context.Context, query string, limit int) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Search")
	defer span.End()

	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrInvalidInput)
	}

	token := s.tokens.Issue(searchTokenKey)

	results, err := s.api.SearchPlayers(ctx, query, limit)
	if err != nil {
		s.store.RecordError(store.KindPlayers, err.Error())
		return nil, fmt.Errorf("search players: %w", err)
	}

	if !s.tokens.Current(searchTokenKey, token) {
		return s.store.Players(), nil
	}

	merged := make([]player.Player, 0, len(results))
	for _, p := range results {
		merged = append(merged, s.store.MergePlayer(p))
	}
	return merged, nil
}

// GetDetails returns the full player record, merged over whatever partial
// record an earlier list response left in the cache.
func (s *PlayerService) GetDetails(ctx context.Context, username string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.GetDetails")
	defer span.End()

	if strings.TrimSpace(username) == "" {
		return player.Player{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	fetched, err := s.api.GetPlayerDetails(ctx, username)
	if err != nil {
		s.store.RecordError(store.KindPlayers, err.Error())
		return player.Player{}, fmt.Errorf("get player details: %w", err)
	}

	return s.store.MergePlayer(fetched), nil
}

// Track asks the remote API to re-measure the player, then fans the fresh
// record out to every cached copy and reports the outcome as a notification.
func (s *PlayerService) Track(ctx context.Context, username string) (player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerService.Track")
	defer span.End()

	if strings.TrimSpace(username) == "" {
		return player.Player{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	updated, err := s.api.TrackPlayer(ctx, username)
	if err != nil {
		s.store.RecordError(store.KindPlayers, err.Error())
		notifyFailure(ctx, s.notifier, err, fmt.Sprintf("Failed to update %s.", username))
		return player.Player{}, fmt.Errorf("track player: %w", err)
	}

	merged := s.store.MergePlayer(updated)
	s.store.FanOutPlayerUpdate(merged)
	notifySuccess(ctx, s.notifier, fmt.Sprintf("%s has been updated.", displayName(merged)))
	return merged, nil
}

func displayName(p player.Player) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Username
}
