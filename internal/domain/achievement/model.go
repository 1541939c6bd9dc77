package achievement

import (
	"fmt"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
)

// Achievement records a player crossing a metric threshold. CreatedAt is zero
// while the threshold is not yet reached. Accuracy is the gap between the
// last snapshot before the crossing and the first one after; zero or negative
// means the precision is unknown (imported or legacy data).
type Achievement struct {
	PlayerID  int64
	Metric    metric.Metric
	Name      string
	Threshold int64
	CreatedAt time.Time
	Accuracy  time.Duration
}

func (a Achievement) Achieved() bool {
	return !a.CreatedAt.IsZero()
}

func (a Achievement) Validate() error {
	if a.PlayerID <= 0 {
		return fmt.Errorf("achievement player id is required")
	}
	if err := a.Metric.Validate(); err != nil {
		return fmt.Errorf("achievement metric: %w", err)
	}
	if a.Threshold <= 0 {
		return fmt.Errorf("achievement threshold must be greater than zero")
	}
	return nil
}
