// Package riot is a small client for the Riot Games developer API.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/logger"
)

const (
	defaultTimeout = 10 * time.Second
	tokenHeader    = "X-Riot-Token"
)

var (
	ErrNoAPIKey      = errors.New("no API key configured. Please add your Riot API key in Settings")
	ErrInvalidRiotID = errors.New("invalid Riot ID format. Use: GameName#TAG")
	// ErrNotFound matches any StatusError with a 404 status.
	ErrNotFound = errors.New("not found")
)

// StatusError is returned for any non-200 response.
type StatusError struct {
	StatusCode int
	Path       string
}

func (e *StatusError) Error() string {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Sprintf("API returned %d for %s - check if your API key is valid", e.StatusCode, e.Path)
	case http.StatusTooManyRequests:
		return fmt.Sprintf("API returned 429 for %s - rate limit exceeded", e.Path)
	default:
		return fmt.Sprintf("API returned %d for %s", e.StatusCode, e.Path)
	}
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client issues authenticated GET requests against regional API hosts.
type Client struct {
	apiKey     string
	httpClient *http.Client
	timeout    time.Duration
	// baseURL replaces every https://{host}.api.riotgames.com when set.
	baseURL string
	log     *slog.Logger
}

type Option func(*Client)

// WithBaseURL sends every request to url regardless of region (useful for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(url, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every request. It applies to the client given by
// WithHTTPClient in any option order, without modifying the caller's client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// NewClient creates a client authenticating with apiKey. An empty key is
// allowed; every call then fails with ErrNoAPIKey.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey: apiKey,
		log:    logger.Component("riot"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: defaultTimeout}
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// HasKey reports whether an API key is configured.
func (c *Client) HasKey() bool { return c.apiKey != "" }

func (c *Client) hostURL(host string) string {
	if c.baseURL != "" {
		return c.baseURL
	}
	return "https://" + host + ".api.riotgames.com"
}

func (c *Client) get(ctx context.Context, host, path string, result any) error {
	if c.apiKey == "" {
		return ErrNoAPIKey
	}
	return c.getWithKey(ctx, c.apiKey, host, path, result)
}

func (c *Client) getWithKey(ctx context.Context, key, host, path string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.hostURL(host)+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set(tokenHeader, key)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn("riot request failed", slog.String("host", host), slog.String("path", path), slog.Any("error", err))
		return err
	}
	defer resp.Body.Close()
	c.log.Debug("riot request",
		slog.String("host", host),
		slog.String("path", path),
		slog.Int("status", resp.StatusCode),
		slog.Duration("took", time.Since(start)))

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{StatusCode: resp.StatusCode, Path: path}
	}
	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// AccountByRiotID resolves name#tag to an account on the region's routing cluster.
func (c *Client) AccountByRiotID(ctx context.Context, region string, id RiotID) (*Account, error) {
	path := fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s",
		url.PathEscape(id.GameName), url.PathEscape(id.TagLine))
	var account Account
	if err := c.get(ctx, RoutingFor(region), path, &account); err != nil {
		return nil, err
	}
	if account.PUUID == "" {
		return nil, fmt.Errorf("account %s has no puuid", id)
	}
	return &account, nil
}

// LeagueEntries returns every ranked queue entry for puuid.
func (c *Client) LeagueEntries(ctx context.Context, region, puuid string) ([]LeagueEntry, error) {
	var entries []LeagueEntry
	err := c.get(ctx, Platform(region), "/lol/league/v4/entries/by-puuid/"+url.PathEscape(puuid), &entries)
	return entries, err
}

func (c *Client) SummonerByPUUID(ctx context.Context, region, puuid string) (*Summoner, error) {
	var s Summoner
	if err := c.get(ctx, Platform(region), "/lol/summoner/v4/summoners/by-puuid/"+url.PathEscape(puuid), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// ActiveGame returns the game puuid is playing. A player not in game yields
// an error matching ErrNotFound.
func (c *Client) ActiveGame(ctx context.Context, region, puuid string) (*ActiveGame, error) {
	var g ActiveGame
	if err := c.get(ctx, Platform(region), "/lol/spectator/v5/active-games/by-summoner/"+url.PathEscape(puuid), &g); err != nil {
		return nil, err
	}
	return &g, nil
}

func (c *Client) ChampionMastery(ctx context.Context, region, puuid string, championID int64) (*ChampionMastery, error) {
	path := fmt.Sprintf("/lol/champion-mastery/v4/champion-masteries/by-puuid/%s/by-champion/%d",
		url.PathEscape(puuid), championID)
	var m ChampionMastery
	if err := c.get(ctx, Platform(region), path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// MatchIDs returns the most recent match ids for puuid, newest first.
func (c *Client) MatchIDs(ctx context.Context, region, puuid string, start, count int) ([]string, error) {
	path := fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?start=%d&count=%d",
		url.PathEscape(puuid), start, count)
	var ids []string
	err := c.get(ctx, RoutingFor(region), path, &ids)
	return ids, err
}

func (c *Client) Match(ctx context.Context, region, matchID string) (*Match, error) {
	var m Match
	if err := c.get(ctx, RoutingFor(region), "/lol/match/v5/matches/"+url.PathEscape(matchID), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// PlatformStatus returns current incidents and maintenances for region.
func (c *Client) PlatformStatus(ctx context.Context, region string) (*PlatformData, error) {
	var p PlatformData
	if err := c.get(ctx, Platform(region), statusPath, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
