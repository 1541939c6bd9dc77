package usecase

import (
	"context"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/achievement"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
)

// StatsAPI is the slice of the remote stats API the services consume.
// *womapi.Client satisfies it; tests substitute fakes.
type StatsAPI interface {
	SearchPlayers(ctx context.Context, query string, limit int) ([]player.Player, error)
	GetPlayerDetails(ctx context.Context, username string) (player.Player, error)
	TrackPlayer(ctx context.Context, username string) (player.Player, error)
	GetPlayerSnapshots(ctx context.Context, username string, startDate, endDate time.Time) ([]snapshot.Snapshot, error)
	GetPlayerAchievements(ctx context.Context, username string) ([]achievement.Achievement, error)

	ListCompetitions(ctx context.Context) ([]competition.Competition, error)
	GetCompetition(ctx context.Context, id int64) (competition.Competition, error)
	CreateCompetition(ctx context.Context, input womapi.CompetitionInput) (competition.Competition, string, error)
	EditCompetition(ctx context.Context, id int64, input womapi.CompetitionInput) (competition.Competition, error)
	DeleteCompetition(ctx context.Context, id int64, verificationCode string) error

	ListGroups(ctx context.Context) ([]group.Group, error)
	GetGroup(ctx context.Context, id int64) (group.Group, error)
	GetGroupGained(ctx context.Context, id int64, metric string, period string) ([]group.GainedEntry, error)
	DeleteGroup(ctx context.Context, id int64, verificationCode string) error
}
