// Package ddragon reads static game data from Riot's Data Dragon CDN.
package ddragon

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/kattitatu/riot-account-manager/internal/logger"
	"github.com/kattitatu/riot-account-manager/internal/riot"
)

const (
	defaultBaseURL = "https://ddragon.leagueoflegends.com"
	// FallbackVersion is used when versions.json is unreachable.
	FallbackVersion = "14.23.1"
	defaultTimeout  = 5 * time.Second
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger

	versionOnce sync.Once
	version     string

	namesOnce sync.Once
	names     map[int64]string
}

type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		log:        logger.Component("ddragon"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Version returns the newest game patch, fetched once per process.
func (c *Client) Version(ctx context.Context) string {
	c.versionOnce.Do(func() {
		c.version = FallbackVersion
		var versions []string
		if err := c.getJSON(ctx, c.baseURL+"/api/versions.json", &versions); err != nil {
			c.log.Warn("could not fetch ddragon version, using fallback", slog.String("fallback", FallbackVersion), slog.Any("error", err))
			return
		}
		if len(versions) > 0 && versions[0] != "" {
			c.version = versions[0]
		}
	})
	return c.version
}

type championList struct {
	Data map[string]struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"data"`
}

// ChampionName returns the display name for a champion id, or "" if unknown.
// The full champion list is downloaded on first use.
func (c *Client) ChampionName(ctx context.Context, id int64) string {
	c.namesOnce.Do(func() {
		c.names = map[int64]string{}
		url := fmt.Sprintf("%s/cdn/%s/data/en_US/champion.json", c.baseURL, c.Version(ctx))
		var list championList
		if err := c.getJSON(ctx, url, &list); err != nil {
			c.log.Warn("could not fetch champion list", slog.Any("error", err))
			return
		}
		for _, ch := range list.Data {
			if key, err := strconv.ParseInt(ch.Key, 10, 64); err == nil {
				c.names[key] = ch.Name
			}
		}
		c.log.Debug("champion list loaded", slog.Int("champions", len(c.names)))
	})
	return c.names[id]
}

// ProfileIconURL returns the CDN address of a profile icon image.
func (c *Client) ProfileIconURL(ctx context.Context, iconID int) string {
	return fmt.Sprintf("%s/cdn/%s/img/profileicon/%d.png", c.baseURL, c.Version(ctx), iconID)
}

// ChampionIconURL returns the square portrait for a champion by its ddragon key name.
func (c *Client) ChampionIconURL(ctx context.Context, key string) string {
	return fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", c.baseURL, c.Version(ctx), key)
}

// SpellIconURL returns the image of a summoner spell, or "" for an unknown id.
func (c *Client) SpellIconURL(ctx context.Context, spellID int) string {
	key := riot.SpellKey(spellID)
	if key == "" {
		return ""
	}
	return fmt.Sprintf("%s/cdn/%s/img/spell/%s.png", c.baseURL, c.Version(ctx), key)
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
