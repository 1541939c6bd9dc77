// Package store holds the in-memory normalized session cache. It is the only
// shared mutable state in the service: every write goes through the replace,
// merge or evict operations here, and all derivation functions read from it.
// Writes apply in response-arrival order with no version reconciliation;
// last-applied wins.
package store

import (
	"sort"
	"sync"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/achievement"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
)

// Kind names one entity table, for the per-kind last-error slots.
type Kind string

const (
	KindPlayers      Kind = "players"
	KindCompetitions Kind = "competitions"
	KindGroups       Kind = "groups"
	KindSnapshots    Kind = "snapshots"
	KindAchievements Kind = "achievements"
)

type Store struct {
	mu sync.RWMutex

	players      map[string]player.Player
	competitions map[int64]competition.Competition
	groups       map[int64]group.Group

	// Per-player derived collections, keyed by normalized username.
	snapshots    map[string][]snapshot.Snapshot
	achievements map[string][]achievement.Achievement

	lastErr map[Kind]string
}

func New() *Store {
	return &Store{
		players:      make(map[string]player.Player),
		competitions: make(map[int64]competition.Competition),
		groups:       make(map[int64]group.Group),
		snapshots:    make(map[string][]snapshot.Snapshot),
		achievements: make(map[string][]achievement.Achievement),
		lastErr:      make(map[Kind]string),
	}
}

// RecordError flips the transient last-error slot for a kind. A failed fetch
// never touches table contents.
func (s *Store) RecordError(kind Kind, message string) {
	s.mu.Lock()
	s.lastErr[kind] = message
	s.mu.Unlock()
}

func (s *Store) ClearError(kind Kind) {
	s.mu.Lock()
	delete(s.lastErr, kind)
	s.mu.Unlock()
}

func (s *Store) LastError(kind Kind) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msg, ok := s.lastErr[kind]
	return msg, ok
}

// ReplaceAllPlayers rebuilds the player table from a list refresh, discarding
// prior contents entirely.
func (s *Store) ReplaceAllPlayers(items []player.Player) {
	next := make(map[string]player.Player, len(items))
	for _, p := range items {
		next[player.NormalizeUsername(p.Username)] = p
	}

	s.mu.Lock()
	s.players = next
	delete(s.lastErr, KindPlayers)
	s.mu.Unlock()
}

// MergePlayer applies a detail/edit/create payload: unknown keys insert as-is,
// known keys shallow-merge so fields absent from the payload survive. Returns
// the merged record.
func (s *Store) MergePlayer(p player.Player) player.Player {
	key := player.NormalizeUsername(p.Username)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.players[key]; ok {
		p = mergePlayer(existing, p)
	}
	s.players[key] = p
	delete(s.lastErr, KindPlayers)
	return p
}

func (s *Store) Player(username string) (player.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.players[player.NormalizeUsername(username)]
	return p, ok
}

func (s *Store) Players() []player.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]player.Player, 0, len(s.players))
	for _, p := range s.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

func (s *Store) ReplaceAllCompetitions(items []competition.Competition) {
	next := make(map[int64]competition.Competition, len(items))
	for _, c := range items {
		next[c.ID] = c
	}

	s.mu.Lock()
	s.competitions = next
	delete(s.lastErr, KindCompetitions)
	s.mu.Unlock()
}

func (s *Store) MergeCompetition(c competition.Competition) competition.Competition {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.competitions[c.ID]; ok {
		c = mergeCompetition(existing, c)
	}
	s.competitions[c.ID] = c
	delete(s.lastErr, KindCompetitions)
	return c
}

func (s *Store) EvictCompetition(id int64) {
	s.mu.Lock()
	delete(s.competitions, id)
	s.mu.Unlock()
}

func (s *Store) Competition(id int64) (competition.Competition, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.competitions[id]
	return c, ok
}

func (s *Store) Competitions() []competition.Competition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]competition.Competition, 0, len(s.competitions))
	for _, c := range s.competitions {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Store) ReplaceAllGroups(items []group.Group) {
	next := make(map[int64]group.Group, len(items))
	for _, g := range items {
		next[g.ID] = g
	}

	s.mu.Lock()
	s.groups = next
	delete(s.lastErr, KindGroups)
	s.mu.Unlock()
}

func (s *Store) MergeGroup(g group.Group) group.Group {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.groups[g.ID]; ok {
		g = mergeGroup(existing, g)
	}
	s.groups[g.ID] = g
	delete(s.lastErr, KindGroups)
	return g
}

func (s *Store) EvictGroup(id int64) {
	s.mu.Lock()
	delete(s.groups, id)
	s.mu.Unlock()
}

func (s *Store) Group(id int64) (group.Group, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groups[id]
	return g, ok
}

func (s *Store) Groups() []group.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]group.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SetSnapshots replaces a player's snapshot timeline. Snapshots are
// append-only on the remote side, so each fetch supersedes the previous one.
func (s *Store) SetSnapshots(username string, items []snapshot.Snapshot) {
	key := player.NormalizeUsername(username)
	s.mu.Lock()
	s.snapshots[key] = items
	delete(s.lastErr, KindSnapshots)
	s.mu.Unlock()
}

func (s *Store) Snapshots(username string) []snapshot.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.snapshots[player.NormalizeUsername(username)]
	out := make([]snapshot.Snapshot, len(items))
	copy(out, items)
	return out
}

func (s *Store) SetAchievements(username string, items []achievement.Achievement) {
	key := player.NormalizeUsername(username)
	s.mu.Lock()
	s.achievements[key] = items
	delete(s.lastErr, KindAchievements)
	s.mu.Unlock()
}

func (s *Store) Achievements(username string) []achievement.Achievement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := s.achievements[player.NormalizeUsername(username)]
	out := make([]achievement.Achievement, len(items))
	copy(out, items)
	return out
}

// Counts returns per-kind table sizes for the dashboard overview.
func (s *Store) Counts() map[Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[Kind]int{
		KindPlayers:      len(s.players),
		KindCompetitions: len(s.competitions),
		KindGroups:       len(s.groups),
		KindSnapshots:    len(s.snapshots),
		KindAchievements: len(s.achievements),
	}
}
