package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/achievement"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
)

type fakeAPI struct {
	searchPlayersFn         func(ctx context.Context, query string, limit int) ([]player.Player, error)
	getPlayerDetailsFn      func(ctx context.Context, username string) (player.Player, error)
	trackPlayerFn           func(ctx context.Context, username string) (player.Player, error)
	getPlayerSnapshotsFn    func(ctx context.Context, username string, startDate, endDate time.Time) ([]snapshot.Snapshot, error)
	getPlayerAchievementsFn func(ctx context.Context, username string) ([]achievement.Achievement, error)
	listCompetitionsFn      func(ctx context.Context) ([]competition.Competition, error)
	getCompetitionFn        func(ctx context.Context, id int64) (competition.Competition, error)
	createCompetitionFn     func(ctx context.Context, input womapi.CompetitionInput) (competition.Competition, string, error)
	editCompetitionFn       func(ctx context.Context, id int64, input womapi.CompetitionInput) (competition.Competition, error)
	deleteCompetitionFn     func(ctx context.Context, id int64, verificationCode string) error
	listGroupsFn            func(ctx context.Context) ([]group.Group, error)
	getGroupFn              func(ctx context.Context, id int64) (group.Group, error)
	getGroupGainedFn        func(ctx context.Context, id int64, metric, period string) ([]group.GainedEntry, error)
	deleteGroupFn           func(ctx context.Context, id int64, verificationCode string) error
}

func (f *fakeAPI) SearchPlayers(ctx context.Context, query string, limit int) ([]player.Player, error) {
	if f.searchPlayersFn == nil {
		return nil, nil
	}
	return f.searchPlayersFn(ctx, query, limit)
}

func (f *fakeAPI) GetPlayerDetails(ctx context.Context, username string) (player.Player, error) {
	if f.getPlayerDetailsFn == nil {
		return player.Player{}, nil
	}
	return f.getPlayerDetailsFn(ctx, username)
}

func (f *fakeAPI) TrackPlayer(ctx context.Context, username string) (player.Player, error) {
	if f.trackPlayerFn == nil {
		return player.Player{}, nil
	}
	return f.trackPlayerFn(ctx, username)
}

func (f *fakeAPI) GetPlayerSnapshots(ctx context.Context, username string, startDate, endDate time.Time) ([]snapshot.Snapshot, error) {
	if f.getPlayerSnapshotsFn == nil {
		return nil, nil
	}
	return f.getPlayerSnapshotsFn(ctx, username, startDate, endDate)
}

func (f *fakeAPI) GetPlayerAchievements(ctx context.Context, username string) ([]achievement.Achievement, error) {
	if f.getPlayerAchievementsFn == nil {
		return nil, nil
	}
	return f.getPlayerAchievementsFn(ctx, username)
}

func (f *fakeAPI) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	if f.listCompetitionsFn == nil {
		return nil, nil
	}
	return f.listCompetitionsFn(ctx)
}

func (f *fakeAPI) GetCompetition(ctx context.Context, id int64) (competition.Competition, error) {
	if f.getCompetitionFn == nil {
		return competition.Competition{}, nil
	}
	return f.getCompetitionFn(ctx, id)
}

func (f *fakeAPI) CreateCompetition(ctx context.Context, input womapi.CompetitionInput) (competition.Competition, string, error) {
	if f.createCompetitionFn == nil {
		return competition.Competition{}, "", nil
	}
	return f.createCompetitionFn(ctx, input)
}

func (f *fakeAPI) EditCompetition(ctx context.Context, id int64, input womapi.CompetitionInput) (competition.Competition, error) {
	if f.editCompetitionFn == nil {
		return competition.Competition{}, nil
	}
	return f.editCompetitionFn(ctx, id, input)
}

func (f *fakeAPI) DeleteCompetition(ctx context.Context, id int64, verificationCode string) error {
	if f.deleteCompetitionFn == nil {
		return nil
	}
	return f.deleteCompetitionFn(ctx, id, verificationCode)
}

func (f *fakeAPI) ListGroups(ctx context.Context) ([]group.Group, error) {
	if f.listGroupsFn == nil {
		return nil, nil
	}
	return f.listGroupsFn(ctx)
}

func (f *fakeAPI) GetGroup(ctx context.Context, id int64) (group.Group, error) {
	if f.getGroupFn == nil {
		return group.Group{}, nil
	}
	return f.getGroupFn(ctx, id)
}

func (f *fakeAPI) GetGroupGained(ctx context.Context, id int64, metric, period string) ([]group.GainedEntry, error) {
	if f.getGroupGainedFn == nil {
		return nil, nil
	}
	return f.getGroupGainedFn(ctx, id, metric, period)
}

func (f *fakeAPI) DeleteGroup(ctx context.Context, id int64, verificationCode string) error {
	if f.deleteGroupFn == nil {
		return nil
	}
	return f.deleteGroupFn(ctx, id, verificationCode)
}

type recordingNotifier struct {
	mu   sync.Mutex
	rows []Notification
}

func (r *recordingNotifier) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append(r.rows, n)
}

func (r *recordingNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.rows))
	copy(out, r.rows)
	return out
}

func (r *recordingNotifier) last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rows) == 0 {
		return Notification{}, false
	}
	return r.rows[len(r.rows)-1], true
}
