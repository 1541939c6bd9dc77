package app

import (
	"fmt"
	"net/http"

	"github.com/wise-old-man/wise-old-man-sub003/external/womapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/config"
	"github.com/wise-old-man/wise-old-man-sub003/internal/infrastructure/notify"
	"github.com/wise-old-man/wise-old-man-sub003/internal/interfaces/httpapi"
	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/logging"
	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/resilience"
	"github.com/wise-old-man/wise-old-man-sub003/internal/store"
	"github.com/wise-old-man/wise-old-man-sub003/internal/usecase"
)

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	client := womapi.NewClient(womapi.ClientConfig{
		BaseURL:      cfg.StatsAPIBaseURL,
		APIKey:       cfg.StatsAPIKey,
		UserAgent:    cfg.ServiceName,
		Timeout:      cfg.StatsAPITimeout,
		MaxRetries:   cfg.StatsAPIMaxRetries,
		ListCacheTTL: cfg.StatsAPIListCacheTTL,
		Logger:       logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.StatsAPICircuitEnabled,
			FailureThreshold: cfg.StatsAPICircuitFailureCount,
			Cooldown:         cfg.StatsAPICircuitOpenTimeout,
		},
	})

	entityStore := store.New()
	tokens := store.NewRequestTokens()
	notifications := notify.NewRing(cfg.NotificationBuffer, logger)

	playerSvc := usecase.NewPlayerService(client, entityStore, tokens, notifications)
	timelineSvc := usecase.NewTimelineService(client, entityStore)
	achievementSvc := usecase.NewAchievementService(client, entityStore)
	competitionSvc := usecase.NewCompetitionService(client, entityStore, notifications)
	groupSvc := usecase.NewGroupService(client, entityStore, notifications, cfg.MaxUpdateWorkers)
	dashboardSvc := usecase.NewDashboardService(competitionSvc, groupSvc, entityStore)

	handler := httpapi.NewHandler(
		playerSvc,
		timelineSvc,
		achievementSvc,
		competitionSvc,
		groupSvc,
		dashboardSvc,
		notifications,
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}
