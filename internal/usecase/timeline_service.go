package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/timeline"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

// defaultGainedWindow caps how far back the gained view reaches when the
// caller does not narrow it.
const defaultGainedWindow = 365 * 24 * time.Hour

type TimelineService struct {
	api   StatsAPI
	store *store.Store
	now   func() time.Time
}

func NewTimelineService(api StatsAPI, st *store.Store) *TimelineService {
	return &TimelineService{api: api, store: st, now: time.Now}
}

// GainedResult pairs the daily grid with the overall progress across the same
// window for one metric.
type GainedResult struct {
	Metric   metric.Metric
	Start    time.Time
	End      time.Time
	Series   timeline.Series
	Progress snapshot.Progress
}

// PlayerGained fetches the player's snapshots over [start, end], caches them,
// and derives the daily gained series plus the window-wide delta for the
// requested metric. A zero start or end falls back to the default window
// ending now.
func (s *TimelineService) PlayerGained(ctx context.Context, username string, m metric.Metric, start, end time.Time) (GainedResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.PlayerGained")
	defer span.End()

	if strings.TrimSpace(username) == "" {
		return GainedResult{}, fmt.Errorf("%w: username is required", ErrInvalidInput)
	}
	if err := m.Validate(); err != nil {
		return GainedResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if end.IsZero() {
		end = s.now().UTC()
	}
	if start.IsZero() {
		start = end.Add(-defaultGainedWindow)
	}
	if end.Before(start) {
		return GainedResult{}, fmt.Errorf("%w: range end precedes start", ErrInvalidInput)
	}

	snapshots, err := s.api.GetPlayerSnapshots(ctx, username, start, end)
	if err != nil {
		s.store.RecordError(store.KindSnapshots, err.Error())
		return GainedResult{}, fmt.Errorf("get snapshots: %w", err)
	}
	s.store.SetSnapshots(username, snapshots)

	result := GainedResult{Metric: m, Start: start, End: end}
	if len(snapshots) == 0 {
		return result, nil
	}

	samples := make([]timeline.Sample, 0, len(snapshots))
	for _, snap := range snapshots {
		stat := snap.Stat(m)
		if !stat.Value.IsRanked() {
			continue
		}
		samples = append(samples, timeline.Sample{At: snap.ObservedAt, Value: stat.Value.OrZero()})
	}
	if len(samples) > 0 {
		series, err := timeline.BucketDaily(samples, start, end)
		if err != nil {
			return GainedResult{}, fmt.Errorf("bucket snapshots: %w", err)
		}
		result.Series = series
	}

	result.Progress = snapshot.ComputeBetween(m, snapshots[0], snapshots[len(snapshots)-1])
	return result, nil
}
