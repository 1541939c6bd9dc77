package usecase

import (
	"context"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

type DashboardService struct {
	competitions *CompetitionService
	groups       *GroupService
	store        *store.Store
	now          func() time.Time
}

func NewDashboardService(competitions *CompetitionService, groups *GroupService, st *store.Store) *DashboardService {
	return &DashboardService{
		competitions: competitions,
		groups:       groups,
		store:        st,
		now:          time.Now,
	}
}

type DashboardOverview struct {
	Counts          map[store.Kind]int    `json:"counts"`
	OutdatedPlayers int                   `json:"outdated_players"`
	Errors          map[store.Kind]string `json:"errors,omitempty"`
	RefreshedAt     time.Time             `json:"refreshed_at"`
}

// Overview warms the competition and group caches in parallel and reports
// entity counts plus any per-kind refresh errors. A failed refresh degrades
// to the cached contents instead of failing the overview.
func (s *DashboardService) Overview(ctx context.Context) DashboardOverview {
	ctx, span := startUsecaseSpan(ctx, "usecase.DashboardService.Overview")
	defer span.End()

	var wg conc.WaitGroup
	wg.Go(func() {
		_, _ = s.competitions.List(ctx)
	})
	wg.Go(func() {
		_, _ = s.groups.List(ctx)
	})
	wg.Wait()

	now := s.now().UTC()
	outdated := 0
	for _, p := range s.store.Players() {
		if IsOutdated(p, now) {
			outdated++
		}
	}

	overview := DashboardOverview{
		Counts:          s.store.Counts(),
		OutdatedPlayers: outdated,
		RefreshedAt:     now,
	}

	errs := make(map[store.Kind]string)
	for _, kind := range []store.Kind{store.KindPlayers, store.KindCompetitions, store.KindGroups, store.KindSnapshots, store.KindAchievements} {
		if message, ok := s.store.LastError(kind); ok {
			errs[kind] = message
		}
	}
	if len(errs) > 0 {
		overview.Errors = errs
	}
	return overview
}
