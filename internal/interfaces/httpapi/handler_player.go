package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
	"github.com/wise-old-man/wise-old-man-sub003/internal/usecase"
)

func (h *Handler) SearchPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchPlayers")
	defer span.End()

	query := strings.TrimSpace(r.URL.Query().Get("username"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: limit must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		limit = parsed
	}

	results, err := h.playerService.Search(ctx, query, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "player search failed", "query", query, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]playerDTO, 0, len(results))
	for _, p := range results {
		items = append(items, playerToDTO(p))
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetPlayerDetails(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerDetails")
	defer span.End()

	username := r.PathValue("username")
	p, err := h.playerService.GetDetails(ctx, username)
	if err != nil {
		h.logger.WarnContext(ctx, "get player failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) TrackPlayer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TrackPlayer")
	defer span.End()

	username := r.PathValue("username")
	p, err := h.playerService.Track(ctx, username)
	if err != nil {
		h.logger.WarnContext(ctx, "track player failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerToDTO(p))
}

func (h *Handler) GetPlayerGained(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerGained")
	defer span.End()

	username := r.PathValue("username")
	m := metric.Metric(strings.TrimSpace(r.URL.Query().Get("metric")))

	start, err := parseTimeParam(r, "startDate")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	end, err := parseTimeParam(r, "endDate")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.timelineService.PlayerGained(ctx, username, m, start, end)
	if err != nil {
		h.logger.WarnContext(ctx, "player gained failed", "username", username, "metric", string(m), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gainedToDTO(result))
}

func (h *Handler) ListPlayerAchievements(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayerAchievements")
	defer span.End()

	username := r.PathValue("username")
	views, err := h.achievementService.ListForPlayer(ctx, username)
	if err != nil {
		h.logger.WarnContext(ctx, "list achievements failed", "username", username, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]achievementDTO, 0, len(views))
	for _, v := range views {
		items = append(items, achievementDTO{
			Name:      v.Achievement.Name,
			Metric:    string(v.Achievement.Metric),
			Threshold: v.Achievement.Threshold,
			Achieved:  v.Achievement.Achieved(),
			CreatedAt: formatTime(v.Achievement.CreatedAt),
			Accuracy:  v.TierLabel,
			Bound:     v.Bound,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, items)
}

func parseTimeParam(r *http.Request, name string) (time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return time.Time{}, nil
	}

	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s must be an RFC 3339 or YYYY-MM-DD date", usecase.ErrInvalidInput, name)
}

type playerDTO struct {
	ID            int64   `json:"id"`
	Username      string  `json:"username"`
	DisplayName   string  `json:"displayName"`
	Type          string  `json:"type"`
	Build         string  `json:"build"`
	Country       string  `json:"country,omitempty"`
	Exp           int64   `json:"exp"`
	EHP           float64 `json:"ehp"`
	EHB           float64 `json:"ehb"`
	RegisteredAt  string  `json:"registeredAt,omitempty"`
	UpdatedAt     string  `json:"updatedAt,omitempty"`
	LastChangedAt string  `json:"lastChangedAt,omitempty"`
}

type achievementDTO struct {
	Name      string `json:"name"`
	Metric    string `json:"metric"`
	Threshold int64  `json:"threshold"`
	Achieved  bool   `json:"achieved"`
	CreatedAt string `json:"createdAt,omitempty"`
	Accuracy  string `json:"accuracy"`
	Bound     string `json:"bound,omitempty"`
}

type gainedDTO struct {
	Metric        string      `json:"metric"`
	Start         string      `json:"startDate"`
	End           string      `json:"endDate"`
	Gained        int64       `json:"gained"`
	UnknownStart  bool        `json:"unknownStart"`
	PercentGained float64     `json:"percentGained"`
	Total         int64       `json:"total"`
	Buckets       []bucketDTO `json:"buckets"`
}

type bucketDTO struct {
	Date   string `json:"date"`
	Gained int64  `json:"gained"`
}

func playerToDTO(p player.Player) playerDTO {
	return playerDTO{
		ID:            p.ID,
		Username:      p.Username,
		DisplayName:   p.DisplayName,
		Type:          string(p.Type),
		Build:         string(p.Build),
		Country:       p.Country,
		Exp:           p.Exp,
		EHP:           p.EHP,
		EHB:           p.EHB,
		RegisteredAt:  formatTime(p.RegisteredAt),
		UpdatedAt:     formatTime(p.UpdatedAt),
		LastChangedAt: formatTime(p.LastChangedAt),
	}
}

func gainedToDTO(result usecase.GainedResult) gainedDTO {
	dto := gainedDTO{
		Metric:       string(result.Metric),
		Start:        formatTime(result.Start),
		End:          formatTime(result.End),
		Gained:       result.Progress.Gained,
		UnknownStart: result.Progress.UnknownStart,
		Total:        result.Series.Total,
		Buckets:      make([]bucketDTO, 0, len(result.Series.Buckets)),
	}
	if !result.Progress.UnknownStart {
		dto.PercentGained = snapshot.PercentGained(result.Metric, result.Progress.Start.OrZero(), result.Progress.End.OrZero())
	}
	for _, b := range result.Series.Buckets {
		dto.Buckets = append(dto.Buckets, bucketDTO{
			Date:   b.Date.Format(time.DateOnly),
			Gained: b.Gained,
		})
	}
	return dto
}
