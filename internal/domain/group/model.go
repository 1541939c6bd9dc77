package group

import (
	"fmt"
	"strings"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
)

// Role is a member's rank within a group's clan hierarchy.
type Role string

const (
	RoleOwner     Role = "owner"
	RoleLeader    Role = "leader"
	RoleCaptain   Role = "captain"
	RoleMember    Role = "member"
)

// Membership binds a player to a group, carrying a denormalized copy of the
// player record kept current by the store's fan-out update.
type Membership struct {
	Player    player.Player
	Role      Role
	CreatedAt time.Time
}

// Period is a rolling window the remote API accepts for gained leaderboards.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) Validate() error {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return nil
	default:
		return fmt.Errorf("invalid period %q", string(p))
	}
}

// GainedEntry is one row of a group's gained leaderboard for a single metric.
type GainedEntry struct {
	Player    player.Player
	StartDate time.Time
	EndDate   time.Time
	Gained    int64
}

// Group is a player clan/community tracked as a unit.
type Group struct {
	ID          int64
	Name        string
	ClanChat    string
	Description string
	Homeworld   int
	Verified    bool
	Score       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	MemberCount int
	Memberships []Membership
}

func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("group name is required")
	}
	return nil
}
