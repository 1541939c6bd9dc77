package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/metric"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
)

type CompetitionService struct {
	api      StatsAPI
	store    *store.Store
	notifier Notifier
}

func NewCompetitionService(api StatsAPI, st *store.Store, notifier Notifier) *CompetitionService {
	return &CompetitionService{api: api, store: st, notifier: notifier}
}

// List refreshes the competition cache wholesale. List responses omit
// participations; the rebuild still keeps detail fields the list response
// does not carry, through the merge-on-write path on the next Get.
func (s *CompetitionService) List(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.List")
	defer span.End()

	items, err := s.api.ListCompetitions(ctx)
	if err != nil {
		s.store.RecordError(store.KindCompetitions, err.Error())
		return nil, fmt.Errorf("list competitions: %w", err)
	}

	s.store.ReplaceAllCompetitions(items)
	return s.store.Competitions(), nil
}

func (s *CompetitionService) Get(ctx context.Context, id int64) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Get")
	defer span.End()

	if id <= 0 {
		return competition.Competition{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	fetched, err := s.api.GetCompetition(ctx, id)
	if err != nil {
		s.store.RecordError(store.KindCompetitions, err.Error())
		return competition.Competition{}, fmt.Errorf("get competition %d: %w", id, err)
	}

	return s.store.MergeCompetition(fetched), nil
}

// Create submits a new competition and forwards the one-time verification
// code to the caller. The code is never cached.
func (s *CompetitionService) Create(ctx context.Context, input womapi.CompetitionInput) (competition.Competition, string, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Create")
	defer span.End()

	if strings.TrimSpace(input.Title) == "" {
		return competition.Competition{}, "", fmt.Errorf("%w: competition title is required", ErrInvalidInput)
	}
	if err := metric.Metric(input.Metric).Validate(); err != nil {
		return competition.Competition{}, "", fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, code, err := s.api.CreateCompetition(ctx, input)
	if err != nil {
		notifyFailure(ctx, s.notifier, err, "Failed to create competition.")
		return competition.Competition{}, "", fmt.Errorf("create competition: %w", err)
	}

	merged := s.store.MergeCompetition(created)
	notifySuccess(ctx, s.notifier, fmt.Sprintf("%s created.", merged.Title))
	return merged, code, nil
}

func (s *CompetitionService) Edit(ctx context.Context, id int64, input womapi.CompetitionInput) (competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Edit")
	defer span.End()

	if id <= 0 {
		return competition.Competition{}, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(input.VerificationCode) == "" {
		return competition.Competition{}, fmt.Errorf("%w: verification code is required", ErrInvalidInput)
	}

	edited, err := s.api.EditCompetition(ctx, id, input)
	if err != nil {
		notifyFailure(ctx, s.notifier, err, "Failed to edit competition.")
		return competition.Competition{}, fmt.Errorf("edit competition %d: %w", id, err)
	}

	merged := s.store.MergeCompetition(edited)
	notifySuccess(ctx, s.notifier, fmt.Sprintf("%s edited.", merged.Title))
	return merged, nil
}

func (s *CompetitionService) Delete(ctx context.Context, id int64, verificationCode string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.Delete")
	defer span.End()

	if id <= 0 {
		return fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(verificationCode) == "" {
		return fmt.Errorf("%w: verification code is required", ErrInvalidInput)
	}

	if err := s.api.DeleteCompetition(ctx, id, verificationCode); err != nil {
		notifyFailure(ctx, s.notifier, err, "Failed to delete competition.")
		return fmt.Errorf("delete competition %d: %w", id, err)
	}

	s.store.EvictCompetition(id)
	notifySuccess(ctx, s.notifier, "Competition deleted.")
	return nil
}

// TeamStandings derives the ranked team rollup for a competition, fetching it
// first when the cached copy has no participant rows.
func (s *CompetitionService) TeamStandings(ctx context.Context, id int64) ([]competition.TeamStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CompetitionService.TeamStandings")
	defer span.End()

	if id <= 0 {
		return nil, fmt.Errorf("%w: competition id is required", ErrInvalidInput)
	}

	cached, ok := s.store.Competition(id)
	if !ok || len(cached.Participants) == 0 {
		refreshed, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		cached = refreshed
	}

	return competition.ComputeTeamStandings(cached.Participants), nil
}
