package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/achievement"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

type AchievementService struct {
	api   StatsAPI
	store *store.Store
}

func NewAchievementService(api StatsAPI, st *store.Store) *AchievementService {
	return &AchievementService{api: api, store: st}
}

// AchievementView is one achievement annotated with its timestamp-confidence
// classification, ready for display.
type AchievementView struct {
	Achievement achievement.Achievement
	Tier        achievement.AccuracyTier
	TierLabel   string
	Bound       string
}

// ListForPlayer fetches the player's achievement progress, caches it, and
// classifies each earned achievement's timestamp accuracy. Unearned
// achievements classify as unknown regardless of their recorded gap.
func (s *AchievementService) ListForPlayer(ctx context.Context, username string) ([]AchievementView, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AchievementService.ListForPlayer")
	defer span.End()

	if strings.TrimSpace(username) == "" {
		return nil, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}

	achievements, err := s.api.GetPlayerAchievements(ctx, username)
	if err != nil {
		s.store.RecordError(store.KindAchievements, err.Error())
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	s.store.SetAchievements(username, achievements)

	views := make([]AchievementView, 0, len(achievements))
	for _, a := range achievements {
		view := AchievementView{Achievement: a, Tier: achievement.AccuracyUnknown}
		if a.Achieved() {
			view.Tier = achievement.ClassifyAccuracy(a.Accuracy)
			view.Bound = achievement.AccuracyBound(a.Accuracy)
		}
		view.TierLabel = view.Tier.String()
		views = append(views, view)
	}
	return views, nil
}
