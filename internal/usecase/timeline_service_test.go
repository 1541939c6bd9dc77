package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

func snapshotAt(at time.Time, exp int64) snapshot.Snapshot {
	return snapshot.Snapshot{
		PlayerID:   2,
		ObservedAt: at,
		Stats: map[metric.Metric]snapshot.Stat{
			"overall": {Rank: metric.Ranked(1), Value: metric.Ranked(exp)},
		},
	}
}

func TestTimelineServicePlayerGained(t *testing.T) {
	ctx := context.Background()
	day := func(d int) time.Time { return time.Date(2026, 8, d, 10, 0, 0, 0, time.UTC) }

	t.Run("buckets the window and caches the snapshots", func(t *testing.T) {
		st := store.New()
		api := &fakeAPI{
			getPlayerSnapshotsFn: func(_ context.Context, _ string, _, _ time.Time) ([]snapshot.Snapshot, error) {
				return []snapshot.Snapshot{
					snapshotAt(day(1), 1000),
					snapshotAt(day(3), 1600),
					snapshotAt(day(5), 1900),
				}, nil
			},
		}

		svc := NewTimelineService(api, st)
		result, err := svc.PlayerGained(ctx, "zezima", "overall", day(1), day(5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := len(result.Series.Buckets); got != 5 {
			t.Fatalf("expected 5 daily buckets, got %d", got)
		}
		if result.Series.Total != 900 {
			t.Fatalf("total gained = %d, want 900", result.Series.Total)
		}
		if result.Progress.Gained != 900 {
			t.Fatalf("window delta = %d, want 900", result.Progress.Gained)
		}
		if got := len(st.Snapshots("zezima")); got != 3 {
			t.Fatalf("snapshots not cached: %d", got)
		}
	})

	t.Run("empty window returns an empty result", func(t *testing.T) {
		api := &fakeAPI{
			getPlayerSnapshotsFn: func(_ context.Context, _ string, _, _ time.Time) ([]snapshot.Snapshot, error) {
				return nil, nil
			},
		}

		svc := NewTimelineService(api, store.New())
		result, err := svc.PlayerGained(ctx, "zezima", "overall", day(1), day(5))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Series.Empty() {
			t.Fatalf("expected an empty series: %+v", result.Series)
		}
	})

	t.Run("unknown metric is rejected", func(t *testing.T) {
		svc := NewTimelineService(&fakeAPI{}, store.New())
		_, err := svc.PlayerGained(ctx, "zezima", "overalll", day(1), day(5))
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("fetch failure records the snapshot error slot", func(t *testing.T) {
		st := store.New()
		api := &fakeAPI{
			getPlayerSnapshotsFn: func(_ context.Context, _ string, _, _ time.Time) ([]snapshot.Snapshot, error) {
				return nil, errors.New("boom")
			},
		}

		svc := NewTimelineService(api, st)
		if _, err := svc.PlayerGained(ctx, "zezima", "overall", day(1), day(5)); err == nil {
			t.Fatalf("expected error")
		}
		if _, ok := st.LastError(store.KindSnapshots); !ok {
			t.Fatalf("error slot not recorded")
		}
	})

	t.Run("zero range falls back to the default window", func(t *testing.T) {
		var gotStart, gotEnd time.Time
		api := &fakeAPI{
			getPlayerSnapshotsFn: func(_ context.Context, _ string, start, end time.Time) ([]snapshot.Snapshot, error) {
				gotStart, gotEnd = start, end
				return nil, nil
			},
		}

		svc := NewTimelineService(api, store.New())
		now := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
		svc.now = func() time.Time { return now }

		if _, err := svc.PlayerGained(ctx, "zezima", "overall", time.Time{}, time.Time{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !gotEnd.Equal(now) {
			t.Fatalf("end = %v, want %v", gotEnd, now)
		}
		if !gotStart.Equal(now.Add(-defaultGainedWindow)) {
			t.Fatalf("start = %v", gotStart)
		}
	})
}
