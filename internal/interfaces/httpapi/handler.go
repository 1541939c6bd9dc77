package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/logging"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
	"github.com/wise-old-man/wise-old-man-sub003/internal/usecase"
)

// NotificationSource drains pending toasts for the presentation layer.
type NotificationSource interface {
	Drain() []usecase.Notification
	Pending() int
}

type Handler struct {
	playerService      *usecase.PlayerService
	timelineService    *usecase.TimelineService
	achievementService *usecase.AchievementService
	competitionService *usecase.CompetitionService
	groupService       *usecase.GroupService
	dashboardService   *usecase.DashboardService
	notifications      NotificationSource
	logger             *logging.Logger
	validator          *validator.Validate
}

func NewHandler(
	playerService *usecase.PlayerService,
	timelineService *usecase.TimelineService,
	achievementService *usecase.AchievementService,
	competitionService *usecase.CompetitionService,
	groupService *usecase.GroupService,
	dashboardService *usecase.DashboardService,
	notifications NotificationSource,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		playerService:      playerService,
		timelineService:    timelineService,
		achievementService: achievementService,
		competitionService: competitionService,
		groupService:       groupService,
		dashboardService:   dashboardService,
		notifications:      notifications,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	overview := h.dashboardService.Overview(ctx)

	errs := make(map[string]string, len(overview.Errors))
	for kind, message := range overview.Errors {
		errs[string(kind)] = message
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardDTO{
		Players:              overview.Counts[store.KindPlayers],
		Competitions:         overview.Counts[store.KindCompetitions],
		Groups:               overview.Counts[store.KindGroups],
		OutdatedPlayers:      overview.OutdatedPlayers,
		PendingNotifications: h.notifications.Pending(),
		Errors:               errs,
		RefreshedAt:          overview.RefreshedAt.Format(time.RFC3339),
	})
}

func (h *Handler) DrainNotifications(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DrainNotifications")
	defer span.End()

	pending := h.notifications.Drain()
	items := make([]notificationDTO, 0, len(pending))
	for _, n := range pending {
		items = append(items, notificationDTO{
			Level:   string(n.Level),
			Message: n.Message,
			At:      n.At.UTC().Format(time.RFC3339),
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type dashboardDTO struct {
	Players              int               `json:"players"`
	Competitions         int               `json:"competitions"`
	Groups               int               `json:"groups"`
	OutdatedPlayers      int               `json:"outdatedPlayers"`
	PendingNotifications int               `json:"pendingNotifications"`
	Errors               map[string]string `json:"errors,omitempty"`
	RefreshedAt          string            `json:"refreshedAt"`
}

type notificationDTO struct {
	Level   string `json:"level"`
	Message string `json:"message"`
	At      string `json:"at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
