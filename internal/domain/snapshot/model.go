package snapshot

import (
	"fmt"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
)

// Stat is one metric's observation inside a snapshot.
type Stat struct {
	Rank  metric.Value
	Value metric.Value
}

// Snapshot is an immutable observation of one player's full metric set at a
// single instant. Snapshots form an append-only, time-ordered sequence per
// player; delta computation always pairs an earlier snapshot with a later one.
type Snapshot struct {
	ID         int64
	PlayerID   int64
	ObservedAt time.Time
	ImportedAt time.Time
	Stats      map[metric.Metric]Stat
}

func (s Snapshot) Validate() error {
	if s.PlayerID <= 0 {
		return fmt.Errorf("snapshot player id is required")
	}
	if s.ObservedAt.IsZero() {
		return fmt.Errorf("snapshot observation time is required")
	}
	for name := range s.Stats {
		if err := name.Validate(); err != nil {
			return fmt.Errorf("snapshot stat: %w", err)
		}
	}
	return nil
}

// Stat returns the observation for a metric, with the zero Stat (both values
// unranked) when the snapshot does not carry it.
func (s Snapshot) Stat(name metric.Metric) Stat {
	return s.Stats[name]
}
