package competition

import (
	"fmt"
	"strings"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
)

// Progress is the remote API's official start/end/gained figures for one
// participant over the competition window.
type Progress struct {
	Start  int64
	End    int64
	Gained int64
}

// Participant is one competing player, carrying a denormalized copy of the
// player record. The copy is kept current by the store's fan-out update.
type Participant struct {
	Player   player.Player
	TeamName string
	Progress Progress
}

// Competition is a timed contest over a single metric, optionally split into
// named teams via participant team tags.
type Competition struct {
	ID               int64
	Title            string
	Metric           metric.Metric
	StartsAt         time.Time
	EndsAt           time.Time
	GroupID          int64
	Score            int
	CreatedAt        time.Time
	UpdatedAt        time.Time
	ParticipantCount int
	Participants     []Participant
}

func (c Competition) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("competition title is required")
	}
	if err := c.Metric.Validate(); err != nil {
		return fmt.Errorf("competition metric: %w", err)
	}
	if c.StartsAt.IsZero() || c.EndsAt.IsZero() {
		return fmt.Errorf("competition start and end times are required")
	}
	if !c.EndsAt.After(c.StartsAt) {
		return fmt.Errorf("competition must end after it starts")
	}
	return nil
}

// Status reflects where a competition sits relative to now.
type Status string

const (
	StatusUpcoming Status = "upcoming"
	StatusOngoing  Status = "ongoing"
	StatusFinished Status = "finished"
)

func (c Competition) StatusAt(now time.Time) Status {
	switch {
	case now.Before(c.StartsAt):
		return StatusUpcoming
	case now.Before(c.EndsAt):
		return StatusOngoing
	default:
		return StatusFinished
	}
}
