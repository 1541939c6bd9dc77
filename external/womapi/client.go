// Package womapi is the client for the remote player-stats API. Every
// response passes through the hydrate visitor before it is mapped onto domain
// types, so no ISO-8601 string survives past this boundary.
package womapi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/achievement"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/competition"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/group"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/player"
	"github.com/wise-old-man/wise-old-man-sub003/internal/domain/snapshot"
	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/cache"
	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/hydrate"
	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/logging"
	"github.com/wise-old-man/wise-old-man-sub003/internal/platform/resilience"
)

const (
	defaultBaseURL   = "https://api.wiseoldman.net/v2"
	defaultUserAgent = "wise-old-man-dashboard"
)

var errTransient = crerr.New("stats api transient failure")

// ErrUnavailable reports that the circuit breaker is rejecting requests.
var ErrUnavailable = crerr.New("stats api is temporarily unavailable")

// APIError is the remote error envelope, surfaced verbatim to the
// notification layer. Data may carry field-level validation detail that this
// client forwards without interpreting.
type APIError struct {
	StatusCode int
	Message    string
	Data       any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("stats api returned status %d", e.StatusCode)
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	ListCacheTTL   time.Duration
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	userAgent      string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
	listCache      *cache.Store
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		userAgent:      userAgent,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.Cooldown),
		circuitEnabled: breakerCfg.Enabled,
		listCache:      cache.NewStore(cfg.ListCacheTTL),
	}
}

func (c *Client) SearchPlayers(ctx context.Context, query string, limit int) ([]player.Player, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query is required")
	}
	if limit <= 0 {
		limit = 20
	}

	tree, err := c.get(ctx, "/players/search", url.Values{
		"username": []string{player.NormalizeUsername(query)},
		"limit":    []string{strconv.Itoa(limit)},
	})
	if err != nil {
		return nil, fmt.Errorf("search players: %w", err)
	}
	return mapPlayers(tree), nil
}

func (c *Client) GetPlayerDetails(ctx context.Context, username string) (player.Player, error) {
	tree, err := c.get(ctx, "/players/"+escapeUsername(username), nil)
	if err != nil {
		return player.Player{}, fmt.Errorf("get player %q: %w", username, err)
	}
	return mapPlayer(asObject(tree)), nil
}

// TrackPlayer asks the remote API to take a fresh snapshot of the player and
// returns the updated record.
func (c *Client) TrackPlayer(ctx context.Context, username string) (player.Player, error) {
	tree, err := c.mutate(ctx, http.MethodPost, "/players/"+escapeUsername(username), nil)
	if err != nil {
		return player.Player{}, fmt.Errorf("track player %q: %w", username, err)
	}
	return mapPlayer(asObject(tree)), nil
}

func (c *Client) GetPlayerSnapshots(ctx context.Context, username string, startDate, endDate time.Time) ([]snapshot.Snapshot, error) {
	query := url.Values{}
	if !startDate.IsZero() {
		query.Set("startDate", startDate.UTC().Format(time.RFC3339))
	}
	if !endDate.IsZero() {
		query.Set("endDate", endDate.UTC().Format(time.RFC3339))
	}

	tree, err := c.get(ctx, "/players/"+escapeUsername(username)+"/snapshots", query)
	if err != nil {
		return nil, fmt.Errorf("get snapshots for %q: %w", username, err)
	}
	return mapSnapshots(tree), nil
}

func (c *Client) GetPlayerAchievements(ctx context.Context, username string) ([]achievement.Achievement, error) {
	tree, err := c.get(ctx, "/players/"+escapeUsername(username)+"/achievements/progress", nil)
	if err != nil {
		return nil, fmt.Errorf("get achievements for %q: %w", username, err)
	}
	return mapAchievements(tree), nil
}

func (c *Client) ListCompetitions(ctx context.Context) ([]competition.Competition, error) {
	tree, err := c.getCached(ctx, "/competitions", nil)
	if err != nil {
		return nil, fmt.Errorf("list competitions: %w", err)
	}
	return mapCompetitions(tree), nil
}

func (c *Client) GetCompetition(ctx context.Context, id int64) (competition.Competition, error) {
	tree, err := c.get(ctx, "/competitions/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("get competition %d: %w", id, err)
	}
	return mapCompetition(asObject(tree)), nil
}

type CompetitionInput struct {
	Title            string     `json:"title"`
	Metric           string     `json:"metric"`
	StartsAt         time.Time  `json:"startsAt"`
	EndsAt           time.Time  `json:"endsAt"`
	GroupID          int64      `json:"groupId,omitempty"`
	Participants     []string   `json:"participants,omitempty"`
	Teams            []TeamSpec `json:"teams,omitempty"`
	VerificationCode string     `json:"verificationCode,omitempty"`
}

type TeamSpec struct {
	Name         string   `json:"name"`
	Participants []string `json:"participants"`
}

// CreateCompetition returns the created competition and its verification
// code. The code is forwarded to the caller, never stored.
func (c *Client) CreateCompetition(ctx context.Context, input CompetitionInput) (competition.Competition, string, error) {
	tree, err := c.mutate(ctx, http.MethodPost, "/competitions", input)
	if err != nil {
		return competition.Competition{}, "", fmt.Errorf("create competition: %w", err)
	}

	obj := asObject(tree)
	created := mapCompetition(asObject(obj["competition"]))
	code, _ := obj["verificationCode"].(string)
	c.listCache.Purge(ctx)
	return created, code, nil
}

func (c *Client) EditCompetition(ctx context.Context, id int64, input CompetitionInput) (competition.Competition, error) {
	tree, err := c.mutate(ctx, http.MethodPut, "/competitions/"+strconv.FormatInt(id, 10), input)
	if err != nil {
		return competition.Competition{}, fmt.Errorf("edit competition %d: %w", id, err)
	}
	c.listCache.Purge(ctx)
	return mapCompetition(asObject(tree)), nil
}

func (c *Client) DeleteCompetition(ctx context.Context, id int64, verificationCode string) error {
	body := map[string]string{"verificationCode": verificationCode}
	if _, err := c.mutate(ctx, http.MethodDelete, "/competitions/"+strconv.FormatInt(id, 10), body); err != nil {
		return fmt.Errorf("delete competition %d: %w", id, err)
	}
	c.listCache.Purge(ctx)
	return nil
}

func (c *Client) ListGroups(ctx context.Context) ([]group.Group, error) {
	tree, err := c.getCached(ctx, "/groups", nil)
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return mapGroups(tree), nil
}

func (c *Client) GetGroup(ctx context.Context, id int64) (group.Group, error) {
	tree, err := c.get(ctx, "/groups/"+strconv.FormatInt(id, 10), nil)
	if err != nil {
		return group.Group{}, fmt.Errorf("get group %d: %w", id, err)
	}
	return mapGroup(asObject(tree)), nil
}

// GetGroupGained reads the group's gained leaderboard for one metric over a
// rolling period. Rows come back ordered by gained descending.
func (c *Client) GetGroupGained(ctx context.Context, id int64, m string, period string) ([]group.GainedEntry, error) {
	query := url.Values{
		"metric": []string{m},
		"period": []string{period},
	}
	tree, err := c.getCached(ctx, "/groups/"+strconv.FormatInt(id, 10)+"/gained", query)
	if err != nil {
		return nil, fmt.Errorf("get gained for group %d: %w", id, err)
	}
	return mapGainedEntries(tree), nil
}

func (c *Client) DeleteGroup(ctx context.Context, id int64, verificationCode string) error {
	body := map[string]string{"verificationCode": verificationCode}
	if _, err := c.mutate(ctx, http.MethodDelete, "/groups/"+strconv.FormatInt(id, 10), body); err != nil {
		return fmt.Errorf("delete group %d: %w", id, err)
	}
	c.listCache.Purge(ctx)
	return nil
}

// getCached serves list endpoints through the short-TTL response cache; the
// remote API rate-limits aggressively and list payloads change slowly.
func (c *Client) getCached(ctx context.Context, path string, query url.Values) (any, error) {
	key := path
	if query != nil {
		key += "?" + query.Encode()
	}
	return c.listCache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return c.get(ctx, path, query)
	})
}

// get deduplicates identical in-flight reads through the singleflight.
func (c *Client) get(ctx context.Context, path string, query url.Values) (any, error) {
	key := path
	if query != nil {
		key += "?" + query.Encode()
	}

	out, err, _ := c.flight.Do(key, func() (any, error) {
		return c.do(ctx, http.MethodGet, path, query, nil)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// mutate never goes through the singleflight: each mutation must reach the
// remote API exactly as issued.
func (c *Client) mutate(ctx context.Context, method, path string, body any) (any, error) {
	return c.do(ctx, method, path, nil, body)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (any, error) {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats api circuit breaker rejected request", "path", path)
			return nil, ErrUnavailable
		}
	}

	raw, err := c.executeRequest(ctx, method, path, query, body)
	if c.circuitEnabled {
		if err != nil && crerr.Is(err, errTransient) {
			c.breaker.RecordFailure()
		} else {
			c.breaker.RecordSuccess()
		}
	}
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		return nil, nil
	}

	var decoded any
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decode stats api payload: %w", err)
	}
	return hydrate.Deep(decoded), nil
}

func (c *Client) executeRequest(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	fullURL := c.baseURL + path
	if query != nil {
		if encoded := query.Encode(); encoded != "" {
			fullURL += "?" + encoded
		}
	}

	var payload []byte
	if body != nil {
		encoded, err := sonic.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		payload = encoded
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.apiKey != "" {
			req.Header.Set("X-Api-Key", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = crerr.Wrapf(errTransient, "send request: %s", redactKey(err.Error(), c.apiKey))
		} else {
			raw, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()

			switch {
			case readErr != nil:
				lastErr = crerr.Wrapf(errTransient, "read response body: %v", readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
				lastErr = crerr.Wrapf(errTransient, "status=%d", resp.StatusCode)
			default:
				// Permanent failure; surface the envelope without retrying.
				return nil, decodeAPIError(resp.StatusCode, raw)
			}
		}

		if attempt == c.maxRetries {
			break
		}

		backoff := time.Duration(attempt+1) * 500 * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return nil, lastErr
}

func decodeAPIError(status int, raw []byte) error {
	apiErr := &APIError{StatusCode: status}

	var envelope struct {
		Message string `json:"message"`
		Data    any    `json:"data"`
	}
	if err := sonic.Unmarshal(raw, &envelope); err == nil {
		apiErr.Message = envelope.Message
		if envelope.Data != nil {
			apiErr.Data = hydrate.Deep(envelope.Data)
		}
	}
	return apiErr
}

// IsTransient reports whether an error came from a retryable failure
// (network error, 429 or 5xx) rather than a permanent rejection.
func IsTransient(err error) bool {
	return crerr.Is(err, errTransient)
}

func escapeUsername(username string) string {
	return url.PathEscape(player.NormalizeUsername(username))
}

func redactKey(text, key string) string {
	if key == "" {
		return text
	}
	return strings.ReplaceAll(text, key, "[redacted]")
}
