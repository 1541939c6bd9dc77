package store

import (
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
)

// FanOutPlayerUpdate propagates a player mutation into every denormalized
// copy of that player held by cached composite entities: competition
// participant rows and group membership rows. It is the single sanctioned
// cross-kind write; it only touches the embedded player fields of matching
// rows and leaves every other row and field alone. Running it when no
// collection embeds the subject is a no-op.
//
// Returns the number of embedded copies updated.
func (s *Store) FanOutPlayerUpdate(p player.Player) int {
	key := player.NormalizeUsername(p.Username)
	touched := 0

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.competitions {
		if !embedsParticipant(c.Participants, key) {
			continue
		}
		// Copy-on-write so slices handed out by earlier reads stay stable.
		parts := make([]competition.Participant, len(c.Participants))
		copy(parts, c.Participants)
		for i := range parts {
			if player.NormalizeUsername(parts[i].Player.Username) == key {
				parts[i].Player = mergePlayer(parts[i].Player, p)
				touched++
			}
		}
		c.Participants = parts
		s.competitions[id] = c
	}

	for id, g := range s.groups {
		if !embedsMember(g.Memberships, key) {
			continue
		}
		members := make([]group.Membership, len(g.Memberships))
		copy(members, g.Memberships)
		for i := range members {
			if player.NormalizeUsername(members[i].Player.Username) == key {
				members[i].Player = mergePlayer(members[i].Player, p)
				touched++
			}
		}
		g.Memberships = members
		s.groups[id] = g
	}

	return touched
}

func embedsParticipant(parts []competition.Participant, key string) bool {
	for i := range parts {
		if player.NormalizeUsername(parts[i].Player.Username) == key {
			return true
		}
	}
	return false
}

func embedsMember(members []group.Membership, key string) bool {
	for i := range members {
		if player.NormalizeUsername(members[i].Player.Username) == key {
			return true
		}
	}
	return false
}
