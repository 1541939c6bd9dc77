package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

// outdatedAfter is the staleness cutoff for a member's last measurement.
const outdatedAfter = 24 * time.Hour

type GroupService struct {
	api        StatsAPI
	store      *store.Store
	notifier   Notifier
	maxWorkers int
	now        func() time.Time
}

func NewGroupService(api StatsAPI, st *store.Store, notifier Notifier, maxWorkers int) *GroupService {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &GroupService{
		api:        api,
		store:      st,
		notifier:   notifier,
		maxWorkers: maxWorkers,
		now:        time.Now,
	}
}

func (s *GroupService) List(ctx context.Context) ([]group.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.List")
	defer span.End()

	items, err := s.api.ListGroups(ctx)
	if err != nil {
		s.store.RecordError(store.KindGroups, err.Error())
		return nil, fmt.Errorf("list groups: %w", err)
	}

	s.store.ReplaceAllGroups(items)
	return s.store.Groups(), nil
}

func (s *GroupService) Get(ctx context.Context, id int64) (group.Group, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.Get")
	defer span.End()

	if id <= 0 {
		return group.Group{}, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}

	fetched, err := s.api.GetGroup(ctx, id)
	if err != nil {
		s.store.RecordError(store.KindGroups, err.Error())
		return group.Group{}, fmt.Errorf("get group %d: %w", id, err)
	}

	return s.store.MergeGroup(fetched), nil
}

func (s *GroupService) Delete(ctx context.Context, id int64, verificationCode string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(verificationCode) == "" {
		return fmt.Errorf("%w: verification code is required", ErrInvalidInput)
	}

	if err := s.api.DeleteGroup(ctx, id, verificationCode); err != nil {
		notifyFailure(ctx, s.notifier, err, "Failed to delete group.")
		return fmt.Errorf("delete group %d: %w", id, err)
	}

	s.store.EvictGroup(id)
	notifySuccess(ctx, s.notifier, "Group deleted.")
	return nil
}

// Leaderboard returns the group's gained ranking for one metric over a
// rolling period. Rows arrive ordered from the remote API; the stable re-sort
// pins the order even if the upstream changes its default.
func (s *GroupService) Leaderboard(ctx context.Context, id int64, m metric.Metric, period group.Period) ([]group.GainedEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.Leaderboard")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: group id is required", ErrInvalidInput)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if period == "" {
		period = group.PeriodWeek
	}
	if err := period.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	entries, err := s.api.GetGroupGained(ctx, id, string(m), string(period))
	if err != nil {
		s.store.RecordError(store.KindGroups, err.Error())
		return nil, fmt.Errorf("group %d gained leaderboard: %w", id, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Gained > entries[j].Gained
	})
	return entries, nil
}

// OutdatedMembers returns the group's members whose last measurement is older
// than the staleness cutoff, oldest first. Members never measured count as
// outdated.
func (s *GroupService) OutdatedMembers(ctx context.Context, id int64) ([]group.Membership, error) {
	g, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().Add(-outdatedAfter)
	outdated := make([]group.Membership, 0, len(g.Memberships))
	for _, m := range g.Memberships {
		if m.Player.UpdatedAt.IsZero() || m.Player.UpdatedAt.Before(cutoff) {
			outdated = append(outdated, m)
		}
	}

	sort.SliceStable(outdated, func(i, j int) bool {
		return outdated[i].Player.UpdatedAt.Before(outdated[j].Player.UpdatedAt)
	})
	return outdated, nil
}

type MemberUpdateResult struct {
	Username string `json:"username"`
	Updated  bool   `json:"updated"`
	Message  string `json:"message,omitempty"`
}

type GroupUpdateResult struct {
	GroupID      int64                `json:"group_id"`
	MemberCount  int                  `json:"member_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	WorkerCount  int                  `json:"worker_count"`
	Members      []MemberUpdateResult `json:"members"`
}

// UpdateAllMembers re-measures every outdated member of a group through a
// bounded worker pool. Each success fans out into cached competitions and
// groups; one summary notification reports the batch outcome.
func (s *GroupService) UpdateAllMembers(ctx context.Context, id int64) (GroupUpdateResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.GroupService.UpdateAllMembers")
	defer span.End()

	members, err := s.OutdatedMembers(ctx, id)
	if err != nil {
		return GroupUpdateResult{}, err
	}

	workerCount := s.maxWorkers
	if workerCount > len(members) && len(members) > 0 {
		workerCount = len(members)
	}

	result := GroupUpdateResult{
		GroupID:     id,
		MemberCount: len(members),
		WorkerCount: workerCount,
		Members:     make([]MemberUpdateResult, 0, len(members)),
	}
	if len(members) == 0 {
		notifyInfo(ctx, s.notifier, "All group members are up to date.")
		return result, nil
	}

	rows := make(chan MemberUpdateResult, len(members))

	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return GroupUpdateResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, member := range members {
		username := member.Player.Username
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := MemberUpdateResult{Username: username}
			updated, trackErr := s.api.TrackPlayer(ctx, username)
			if trackErr != nil {
				row.Message = failureMessage(trackErr, "update failed")
				failedCount.Add(1)
			} else {
				merged := s.store.MergePlayer(updated)
				s.store.FanOutPlayerUpdate(merged)
				row.Updated = true
				successCount.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return GroupUpdateResult{}, fmt.Errorf("submit member update to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.Members = append(result.Members, row)
	}
	sort.SliceStable(result.Members, func(i, j int) bool {
		return result.Members[i].Username < result.Members[j].Username
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())

	switch {
	case result.FailedCount == 0:
		notifySuccess(ctx, s.notifier, fmt.Sprintf("Updated %d group members.", result.SuccessCount))
	case result.SuccessCount == 0:
		notifyFailure(ctx, s.notifier, nil, fmt.Sprintf("Failed to update %d group members.", result.FailedCount))
	default:
		notifyInfo(ctx, s.notifier, fmt.Sprintf("Updated %d of %d group members.", result.SuccessCount, result.MemberCount))
	}
	return result, nil
}

// used by the dashboard's member staleness panel
func IsOutdated(p player.Player, now time.Time) bool {
	return p.UpdatedAt.IsZero() || p.UpdatedAt.Before(now.Add(-outdatedAfter))
}
