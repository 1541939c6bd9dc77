package httpapi

import (
	"fmt"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/usecase"
)

func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGroups")
	defer span.End()

	items, err := h.groupService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list groups failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]groupDTO, 0, len(items))
	for _, g := range items {
		out = append(out, groupToDTO(g))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroup")
	defer span.End()

	id, err := pathID(r, "groupID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	g, err := h.groupService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get group failed", "group_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, groupToDTO(g))
}

func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteGroup")
	defer span.End()

	id, err := pathID(r, "groupID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req verificationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	if err := h.groupService.Delete(ctx, id, req.VerificationCode); err != nil {
		h.logger.WarnContext(ctx, "delete group failed", "group_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"message": "group deleted"})
}

func (h *Handler) GetGroupLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetGroupLeaderboard")
	defer span.End()

	id, err := pathID(r, "groupID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	m := metric.Metric(r.URL.Query().Get("metric"))
	period := group.Period(r.URL.Query().Get("period"))

	entries, err := h.groupService.Leaderboard(ctx, id, m, period)
	if err != nil {
		h.logger.WarnContext(ctx, "group leaderboard failed", "group_id", id, "metric", string(m), "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]gainedEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, gainedEntryDTO{
			Username:    e.Player.Username,
			DisplayName: e.Player.DisplayName,
			StartDate:   formatTime(e.StartDate),
			EndDate:     formatTime(e.EndDate),
			Gained:      e.Gained,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) ListOutdatedMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOutdatedMembers")
	defer span.End()

	id, err := pathID(r, "groupID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	members, err := h.groupService.OutdatedMembers(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "list outdated members failed", "group_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]membershipDTO, 0, len(members))
	for _, m := range members {
		out = append(out, membershipToDTO(m))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) UpdateAllMembers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateAllMembers")
	defer span.End()

	id, err := pathID(r, "groupID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.groupService.UpdateAllMembers(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "update all members failed", "group_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

type groupDTO struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	ClanChat    string          `json:"clanChat,omitempty"`
	Description string          `json:"description,omitempty"`
	Homeworld   int             `json:"homeworld,omitempty"`
	Verified    bool            `json:"verified"`
	Score       int             `json:"score"`
	MemberCount int             `json:"memberCount"`
	CreatedAt   string          `json:"createdAt,omitempty"`
	Memberships []membershipDTO `json:"memberships,omitempty"`
}

type gainedEntryDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	StartDate   string `json:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty"`
	Gained      int64  `json:"gained"`
}

type membershipDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	JoinedAt    string `json:"joinedAt,omitempty"`
}

func groupToDTO(g group.Group) groupDTO {
	dto := groupDTO{
		ID:          g.ID,
		Name:        g.Name,
		ClanChat:    g.ClanChat,
		Description: g.Description,
		Homeworld:   g.Homeworld,
		Verified:    g.Verified,
		Score:       g.Score,
		MemberCount: g.MemberCount,
		CreatedAt:   formatTime(g.CreatedAt),
	}
	for _, m := range g.Memberships {
		dto.Memberships = append(dto.Memberships, membershipToDTO(m))
	}
	return dto
}

func membershipToDTO(m group.Membership) membershipDTO {
	return membershipDTO{
		Username:    m.Player.Username,
		DisplayName: m.Player.DisplayName,
		Role:        string(m.Role),
		UpdatedAt:   formatTime(m.Player.UpdatedAt),
		JoinedAt:    formatTime(m.CreatedAt),
	}
}
