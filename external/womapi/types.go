package womapi

import (
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/achievement"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
)

// The mapping layer reads hydrated payload trees. By the time these run,
// every date-bearing field is already a time.Time (see hydrate.Deep), so the
// accessors below never parse strings.

type object = map[string]any

func asObject(v any) object {
	obj, _ := v.(object)
	return obj
}

func asArray(v any) []any {
	arr, _ := v.([]any)
	return arr
}

func getString(obj object, key string) string {
	s, _ := obj[key].(string)
	return s
}

func getBool(obj object, key string) bool {
	b, _ := obj[key].(bool)
	return b
}

func getFloat(obj object, key string) float64 {
	f, _ := obj[key].(float64)
	return f
}

func getInt(obj object, key string) int64 {
	return int64(getFloat(obj, key))
}

func getTime(obj object, key string) time.Time {
	t, _ := obj[key].(time.Time)
	return t
}

// getValue reads a hiscores figure, converting the wire -1 sentinel to the
// unranked case. A missing key is also unranked.
func getValue(obj object, key string) metric.Value {
	f, ok := obj[key].(float64)
	if !ok {
		return metric.Unranked()
	}
	return metric.FromWire(int64(f))
}

// getDuration reads a millisecond figure; the -1 sentinel and null both
// collapse to zero, which classifies as unknown accuracy downstream.
func getDuration(obj object, key string) time.Duration {
	f, ok := obj[key].(float64)
	if !ok || f < 0 {
		return 0
	}
	return time.Duration(f) * time.Millisecond
}

func mapPlayer(obj object) player.Player {
	return player.Player{
		ID:            getInt(obj, "id"),
		Username:      getString(obj, "username"),
		DisplayName:   getString(obj, "displayName"),
		Type:          player.Type(getString(obj, "type")),
		Build:         player.Build(getString(obj, "build")),
		Country:       getString(obj, "country"),
		Exp:           getInt(obj, "exp"),
		EHP:           getFloat(obj, "ehp"),
		EHB:           getFloat(obj, "ehb"),
		RegisteredAt:  getTime(obj, "registeredAt"),
		UpdatedAt:     getTime(obj, "updatedAt"),
		LastChangedAt: getTime(obj, "lastChangedAt"),
	}
}

func mapPlayers(tree any) []player.Player {
	items := asArray(tree)
	out := make([]player.Player, 0, len(items))
	for _, item := range items {
		out = append(out, mapPlayer(asObject(item)))
	}
	return out
}

// Snapshot data groups keyed by the field each group's figure lives in.
var snapshotGroups = map[string]string{
	"skills":     "experience",
	"bosses":     "kills",
	"activities": "score",
	"computed":   "value",
}

func mapSnapshot(obj object) snapshot.Snapshot {
	snap := snapshot.Snapshot{
		ID:         getInt(obj, "id"),
		PlayerID:   getInt(obj, "playerId"),
		ObservedAt: getTime(obj, "createdAt"),
		ImportedAt: getTime(obj, "importedAt"),
		Stats:      make(map[metric.Metric]snapshot.Stat, 64),
	}

	data := asObject(obj["data"])
	for groupKey, valueField := range snapshotGroups {
		for name, raw := range asObject(data[groupKey]) {
			m := metric.Metric(name)
			if !metric.IsValid(m) {
				continue
			}
			stat := asObject(raw)
			snap.Stats[m] = snapshot.Stat{
				Rank:  getValue(stat, "rank"),
				Value: getValue(stat, valueField),
			}
		}
	}

	return snap
}

func mapSnapshots(tree any) []snapshot.Snapshot {
	items := asArray(tree)
	out := make([]snapshot.Snapshot, 0, len(items))
	for _, item := range items {
		out = append(out, mapSnapshot(asObject(item)))
	}
	return out
}

func mapAchievement(obj object) achievement.Achievement {
	return achievement.Achievement{
		PlayerID:  getInt(obj, "playerId"),
		Metric:    metric.Metric(getString(obj, "metric")),
		Name:      getString(obj, "name"),
		Threshold: getInt(obj, "threshold"),
		CreatedAt: getTime(obj, "createdAt"),
		Accuracy:  getDuration(obj, "accuracy"),
	}
}

func mapAchievements(tree any) []achievement.Achievement {
	items := asArray(tree)
	out := make([]achievement.Achievement, 0, len(items))
	for _, item := range items {
		out = append(out, mapAchievement(asObject(item)))
	}
	return out
}

func mapParticipant(obj object) competition.Participant {
	progress := asObject(obj["progress"])
	return competition.Participant{
		Player:   mapPlayer(asObject(obj["player"])),
		TeamName: getString(obj, "teamName"),
		Progress: competition.Progress{
			Start:  getInt(progress, "start"),
			End:    getInt(progress, "end"),
			Gained: getInt(progress, "gained"),
		},
	}
}

func mapCompetition(obj object) competition.Competition {
	c := competition.Competition{
		ID:               getInt(obj, "id"),
		Title:            getString(obj, "title"),
		Metric:           metric.Metric(getString(obj, "metric")),
		StartsAt:         getTime(obj, "startsAt"),
		EndsAt:           getTime(obj, "endsAt"),
		GroupID:          getInt(obj, "groupId"),
		Score:            int(getInt(obj, "score")),
		CreatedAt:        getTime(obj, "createdAt"),
		UpdatedAt:        getTime(obj, "updatedAt"),
		ParticipantCount: int(getInt(obj, "participantCount")),
	}

	if raw, ok := obj["participations"]; ok {
		items := asArray(raw)
		c.Participants = make([]competition.Participant, 0, len(items))
		for _, item := range items {
			c.Participants = append(c.Participants, mapParticipant(asObject(item)))
		}
		if c.ParticipantCount == 0 {
			c.ParticipantCount = len(c.Participants)
		}
	}

	return c
}

func mapCompetitions(tree any) []competition.Competition {
	items := asArray(tree)
	out := make([]competition.Competition, 0, len(items))
	for _, item := range items {
		out = append(out, mapCompetition(asObject(item)))
	}
	return out
}

func mapMembership(obj object) group.Membership {
	return group.Membership{
		Player:    mapPlayer(asObject(obj["player"])),
		Role:      group.Role(getString(obj, "role")),
		CreatedAt: getTime(obj, "createdAt"),
	}
}

func mapGroup(obj object) group.Group {
	g := group.Group{
		ID:          getInt(obj, "id"),
		Name:        getString(obj, "name"),
		ClanChat:    getString(obj, "clanChat"),
		Description: getString(obj, "description"),
		Homeworld:   int(getInt(obj, "homeworld")),
		Verified:    getBool(obj, "verified"),
		Score:       int(getInt(obj, "score")),
		CreatedAt:   getTime(obj, "createdAt"),
		UpdatedAt:   getTime(obj, "updatedAt"),
		MemberCount: int(getInt(obj, "memberCount")),
	}

	if raw, ok := obj["memberships"]; ok {
		items := asArray(raw)
		g.Memberships = make([]group.Membership, 0, len(items))
		for _, item := range items {
			g.Memberships = append(g.Memberships, mapMembership(asObject(item)))
		}
		if g.MemberCount == 0 {
			g.MemberCount = len(g.Memberships)
		}
	}

	return g
}

func mapGainedEntry(obj object) group.GainedEntry {
	data := asObject(obj["data"])
	return group.GainedEntry{
		Player:    mapPlayer(asObject(obj["player"])),
		StartDate: getTime(obj, "startDate"),
		EndDate:   getTime(obj, "endDate"),
		Gained:    getInt(data, "gained"),
	}
}

func mapGainedEntries(tree any) []group.GainedEntry {
	items := asArray(tree)
	out := make([]group.GainedEntry, 0, len(items))
	for _, item := range items {
		out = append(out, mapGainedEntry(asObject(item)))
	}
	return out
}

func mapGroups(tree any) []group.Group {
	items := asArray(tree)
	out := make([]group.Group, 0, len(items))
	for _, item := range items {
		out = append(out, mapGroup(asObject(item)))
	}
	return out
}
