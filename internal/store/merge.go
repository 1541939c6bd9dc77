package store

import (
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
)

// The merge functions implement the patch-write policy: a field the incoming
// payload did not carry (decoded as its zero value) never clobbers a known
// value. Merging is additive, eviction is the only way to lose data.

func mergePlayer(existing, incoming player.Player) player.Player {
	out := existing

	if incoming.ID != 0 {
		out.ID = incoming.ID
	}
	if incoming.Username != "" {
		out.Username = incoming.Username
	}
	if incoming.DisplayName != "" {
		out.DisplayName = incoming.DisplayName
	}
	if incoming.Type != "" {
		out.Type = incoming.Type
	}
	if incoming.Build != "" {
		out.Build = incoming.Build
	}
	if incoming.Country != "" {
		out.Country = incoming.Country
	}
	if incoming.Exp != 0 {
		out.Exp = incoming.Exp
	}
	if incoming.EHP != 0 {
		out.EHP = incoming.EHP
	}
	if incoming.EHB != 0 {
		out.EHB = incoming.EHB
	}
	if !incoming.RegisteredAt.IsZero() {
		out.RegisteredAt = incoming.RegisteredAt
	}
	if !incoming.UpdatedAt.IsZero() {
		out.UpdatedAt = incoming.UpdatedAt
	}
	if !incoming.LastChangedAt.IsZero() {
		out.LastChangedAt = incoming.LastChangedAt
	}

	return out
}

func mergeCompetition(existing, incoming competition.Competition) competition.Competition {
	out := existing

	if incoming.Title != "" {
		out.Title = incoming.Title
	}
	if incoming.Metric != "" {
		out.Metric = incoming.Metric
	}
	if !incoming.StartsAt.IsZero() {
		out.StartsAt = incoming.StartsAt
	}
	if !incoming.EndsAt.IsZero() {
		out.EndsAt = incoming.EndsAt
	}
	if incoming.GroupID != 0 {
		out.GroupID = incoming.GroupID
	}
	if incoming.Score != 0 {
		out.Score = incoming.Score
	}
	if !incoming.CreatedAt.IsZero() {
		out.CreatedAt = incoming.CreatedAt
	}
	if !incoming.UpdatedAt.IsZero() {
		out.UpdatedAt = incoming.UpdatedAt
	}
	if incoming.ParticipantCount != 0 {
		out.ParticipantCount = incoming.ParticipantCount
	}
	// List payloads omit participants; only a detail payload replaces them.
	if incoming.Participants != nil {
		out.Participants = incoming.Participants
	}

	return out
}

func mergeGroup(existing, incoming group.Group) group.Group {
	out := existing

	if incoming.Name != "" {
		out.Name = incoming.Name
	}
	if incoming.ClanChat != "" {
		out.ClanChat = incoming.ClanChat
	}
	if incoming.Description != "" {
		out.Description = incoming.Description
	}
	if incoming.Homeworld != 0 {
		out.Homeworld = incoming.Homeworld
	}
	if incoming.Verified {
		out.Verified = true
	}
	if incoming.Score != 0 {
		out.Score = incoming.Score
	}
	if !incoming.CreatedAt.IsZero() {
		out.CreatedAt = incoming.CreatedAt
	}
	if !incoming.UpdatedAt.IsZero() {
		out.UpdatedAt = incoming.UpdatedAt
	}
	if incoming.MemberCount != 0 {
		out.MemberCount = incoming.MemberCount
	}
	if incoming.Memberships != nil {
		out.Memberships = incoming.Memberships
	}

	return out
}
