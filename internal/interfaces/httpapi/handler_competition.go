package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/usecase"
)

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	items, err := h.competitionService.List(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]competitionDTO, 0, len(items))
	for _, c := range items {
		out = append(out, competitionToDTO(c))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetition")
	defer span.End()

	id, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	c, err := h.competitionService.Get(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "get competition failed", "competition_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(c))
}

func (h *Handler) CreateCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateCompetition")
	defer span.End()

	var req competitionWriteRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, code, err := h.competitionService.Create(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "create competition failed", "title", req.Title, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, createdCompetitionDTO{
		Competition:      competitionToDTO(created),
		VerificationCode: code,
	})
}

func (h *Handler) EditCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.EditCompetition")
	defer span.End()

	id, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req competitionWriteRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	edited, err := h.competitionService.Edit(ctx, id, input)
	if err != nil {
		h.logger.WarnContext(ctx, "edit competition failed", "competition_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, competitionToDTO(edited))
}

func (h *Handler) DeleteCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteCompetition")
	defer span.End()

	id, err := pathID(r, "competitionID")
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

	if err := h.competitionService.Delete(ctx, id, req.VerificationCode); err != nil {
		h.logger.WarnContext(ctx, "delete competition failed", "competition_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"message": "competition deleted"})
}

func (h *Handler) GetCompetitionTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCompetitionTeams")
	defer span.End()

	id, err := pathID(r, "competitionID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.competitionService.TeamStandings(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "competition teams failed", "competition_id", id, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]teamStandingDTO, 0, len(standings))
	for _, s := range standings {
		out = append(out, teamStandingToDTO(s))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", usecase.ErrInvalidInput, name)
	}
	return id, nil
}

type competitionWriteRequest struct {
	Title            string            `json:"title" validate:"required,max=100"`
	Metric           string            `json:"metric" validate:"required"`
	StartsAt         string            `json:"startsAt" validate:"required"`
	EndsAt           string            `json:"endsAt" validate:"required"`
	GroupID          int64             `json:"groupId"`
	Participants     []string          `json:"participants" validate:"dive,required"`
	Teams            []teamSpecRequest `json:"teams" validate:"dive"`
	VerificationCode string            `json:"verificationCode"`
}

type teamSpecRequest struct {
	Name         string   `json:"name" validate:"required,max=30"`
	Participants []string `json:"participants" validate:"required,min=1,dive,required"`
}

type verificationRequest struct {
	VerificationCode string `json:"verificationCode"`
}

func (req competitionWriteRequest) toInput() (womapi.CompetitionInput, error) {
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return womapi.CompetitionInput{}, fmt.Errorf("%w: startsAt must be an RFC 3339 timestamp", usecase.ErrInvalidInput)
	}
	endsAt, err := time.Parse(time.RFC3339, req.EndsAt)
	if err != nil {
		return womapi.CompetitionInput{}, fmt.Errorf("%w: endsAt must be an RFC 3339 timestamp", usecase.ErrInvalidInput)
	}
	if !endsAt.After(startsAt) {
		return womapi.CompetitionInput{}, fmt.Errorf("%w: endsAt must come after startsAt", usecase.ErrInvalidInput)
	}

	teams := make([]womapi.TeamSpec, 0, len(req.Teams))
	for _, t := range req.Teams {
		teams = append(teams, womapi.TeamSpec{Name: t.Name, Participants: t.Participants})
	}

	return womapi.CompetitionInput{
		Title:            req.Title,
		Metric:           req.Metric,
		StartsAt:         startsAt.UTC(),
		EndsAt:           endsAt.UTC(),
		GroupID:          req.GroupID,
		Participants:     req.Participants,
		Teams:            teams,
		VerificationCode: req.VerificationCode,
	}, nil
}

type competitionDTO struct {
	ID               int64            `json:"id"`
	Title            string           `json:"title"`
	Metric           string           `json:"metric"`
	Status           string           `json:"status"`
	StartsAt         string           `json:"startsAt"`
	EndsAt           string           `json:"endsAt"`
	GroupID          int64            `json:"groupId,omitempty"`
	ParticipantCount int              `json:"participantCount"`
	Participants     []participantDTO `json:"participants,omitempty"`
}

type createdCompetitionDTO struct {
	Competition      competitionDTO `json:"competition"`
	VerificationCode string         `json:"verificationCode"`
}

type participantDTO struct {
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	TeamName    string `json:"teamName,omitempty"`
	Start       int64  `json:"start"`
	End         int64  `json:"end"`
	Gained      int64  `json:"gained"`
}

type teamStandingDTO struct {
	Name         string  `json:"name"`
	Total        int64   `json:"totalGained"`
	Average      float64 `json:"averageGained"`
	MVP          string  `json:"mvp"`
	MVPGained    int64   `json:"mvpGained"`
	Participants int     `json:"participants"`
}

func competitionToDTO(c competition.Competition) competitionDTO {
	dto := competitionDTO{
		ID:               c.ID,
		Title:            c.Title,
		Metric:           string(c.Metric),
		Status:           string(c.StatusAt(time.Now().UTC())),
		StartsAt:         formatTime(c.StartsAt),
		EndsAt:           formatTime(c.EndsAt),
		GroupID:          c.GroupID,
		ParticipantCount: c.ParticipantCount,
	}
	for _, p := range c.Participants {
		dto.Participants = append(dto.Participants, participantDTO{
			Username:    p.Player.Username,
			DisplayName: p.Player.DisplayName,
			TeamName:    p.TeamName,
			Start:       p.Progress.Start,
			End:         p.Progress.End,
			Gained:      p.Progress.Gained,
		})
	}
	return dto
}

func teamStandingToDTO(s competition.TeamStanding) teamStandingDTO {
	return teamStandingDTO{
		Name:         s.Name,
		Total:        s.Total,
		Average:      s.Average,
		MVP:          s.MVP.Player.Username,
		MVPGained:    s.MVP.Progress.Gained,
		Participants: len(s.Participants),
	}
}
