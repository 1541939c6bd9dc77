package store

import (
	"reflect"
	"testing"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
)

func fixtureCompetition(id int64, title string, usernames ...string) competition.Competition {
	parts := make([]competition.Participant, 0, len(usernames))
	for _, name := range usernames {
		parts = append(parts, competition.Participant{
			Player: player.Player{Username: name, Exp: 100},
		})
	}
	return competition.Competition{
		ID:           id,
		Title:        title,
		Metric:       metric.Overall,
		StartsAt:     time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		EndsAt:       time.Date(2026, time.August, 8, 0, 0, 0, 0, time.UTC),
		Participants: parts,
	}
}

func fixtureGroup(id int64, name string, usernames ...string) group.Group {
	members := make([]group.Membership, 0, len(usernames))
	for _, username := range usernames {
		members = append(members, group.Membership{
			Player: player.Player{Username: username, Exp: 100},
			Role:   group.RoleMember,
		})
	}
	return group.Group{ID: id, Name: name, Memberships: members}
}

func TestFanOutPlayerUpdate(t *testing.T) {
	updatedAt := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)

	t.Run("updates every embedded copy and nothing else", func(t *testing.T) {
		s := New()
		s.MergeCompetition(fixtureCompetition(1, "C1", "zezima", "bystander"))
		s.MergeCompetition(fixtureCompetition(2, "C2", "zezima"))
		s.MergeCompetition(fixtureCompetition(3, "C3", "someone else"))
		s.MergeGroup(fixtureGroup(1, "G1", "zezima", "bystander"))

		before, _ := s.Competition(3)

		touched := s.FanOutPlayerUpdate(player.Player{
			Username:  "zezima",
			Exp:       999,
			UpdatedAt: updatedAt,
		})

		if touched != 3 {
			t.Fatalf("unexpected touched count: got=%d want=3", touched)
		}

		c1, _ := s.Competition(1)
		if c1.Participants[0].Player.Exp != 999 || !c1.Participants[0].Player.UpdatedAt.Equal(updatedAt) {
			t.Fatalf("embedded copy in C1 not updated: %+v", c1.Participants[0].Player)
		}
		if c1.Participants[1].Player.Exp != 100 {
			t.Fatalf("unrelated participant in C1 was touched: %+v", c1.Participants[1].Player)
		}

		g1, _ := s.Group(1)
		if g1.Memberships[0].Player.Exp != 999 {
			t.Fatalf("embedded copy in G1 not updated: %+v", g1.Memberships[0].Player)
		}
		if g1.Memberships[0].Role != group.RoleMember {
			t.Fatalf("fan-out touched a non-player field: role=%s", g1.Memberships[0].Role)
		}

		after, _ := s.Competition(3)
		if !reflect.DeepEqual(before, after) {
			t.Fatalf("competition without the subject changed:\nbefore: %+v\nafter:  %+v", before, after)
		}
	})

	t.Run("matches usernames after normalization", func(t *testing.T) {
		s := New()
		s.MergeGroup(fixtureGroup(5, "G5", "Lynx_Titan"))

		touched := s.FanOutPlayerUpdate(player.Player{Username: "lynx titan", Exp: 42})

		if touched != 1 {
			t.Fatalf("normalized username did not match: touched=%d", touched)
		}
	})

	t.Run("no embedding collections is a no-op", func(t *testing.T) {
		s := New()
		if touched := s.FanOutPlayerUpdate(player.Player{Username: "ghost"}); touched != 0 {
			t.Fatalf("unexpected touched count: got=%d want=0", touched)
		}
	})

	t.Run("does not mutate previously read slices", func(t *testing.T) {
		s := New()
		s.MergeCompetition(fixtureCompetition(9, "C9", "zezima"))
		read, _ := s.Competition(9)

		s.FanOutPlayerUpdate(player.Player{Username: "zezima", Exp: 555})

		if read.Participants[0].Player.Exp != 100 {
			t.Fatalf("earlier read was mutated in place: exp=%d", read.Participants[0].Player.Exp)
		}
	})
}
