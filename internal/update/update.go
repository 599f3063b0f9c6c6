// Package update checks GitHub releases for a newer build and downloads it.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/mod/semver"

	"github.com/kattitatu/riot-account-manager/internal/logger"
)

const (
	defaultAPIURL   = "https://api.github.com"
	checkTimeout    = 5 * time.Second
	downloadTimeout = 30 * time.Second
	defaultNotes    = "No release notes available."
)

// ErrNoAsset means the release has no binary for this platform.
var ErrNoAsset = errors.New("release has no downloadable binary for this platform")

// Release describes the latest published version.
type Release struct {
	Version   string
	HasUpdate bool
	PageURL   string
	Notes     string
	AssetURL  string
	AssetName string
	AssetSize int64
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
	Body    string `json:"body"`
	Assets  []struct {
		Name               string `json:"name"`
		BrowserDownloadURL string `json:"browser_download_url"`
		Size               int64  `json:"size"`
	} `json:"assets"`
}

type Checker struct {
	repo       string
	current    string
	apiURL     string
	suffix     string
	httpClient *http.Client
	log        *slog.Logger
}

type Option func(*Checker)

// WithAPIURL points the checker at another GitHub API host (useful for testing).
func WithAPIURL(url string) Option {
	return func(c *Checker) { c.apiURL = strings.TrimRight(url, "/") }
}

// WithAssetSuffix selects the release asset by file name suffix.
func WithAssetSuffix(suffix string) Option {
	return func(c *Checker) { c.suffix = suffix }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Checker) { c.httpClient = hc }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) { c.log = l }
}

// NewChecker compares releases of repo ("owner/name") against current.
func NewChecker(repo, current string, opts ...Option) *Checker {
	c := &Checker{
		repo:       repo,
		current:    strings.TrimPrefix(current, "v"),
		apiURL:     defaultAPIURL,
		suffix:     platformSuffix(),
		httpClient: &http.Client{},
		log:        logger.Component("update"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func platformSuffix() string {
	switch runtime.GOOS {
	case "windows":
		return ".exe"
	case "darwin":
		return "_darwin_" + runtime.GOARCH
	default:
		return "_" + runtime.GOOS + "_" + runtime.GOARCH
	}
}

// Check fetches the latest release.
func (c *Checker) Check(ctx context.Context) (Release, error) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/releases/latest", c.apiURL, c.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("check for updates: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Release{}, fmt.Errorf("check for updates: status %d", resp.StatusCode)
	}

	var gr githubRelease
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return Release{}, fmt.Errorf("decode release: %w", err)
	}

	rel := Release{
		Version: strings.TrimPrefix(gr.TagName, "v"),
		PageURL: gr.HTMLURL,
		Notes:   gr.Body,
	}
	if rel.Notes == "" {
		rel.Notes = defaultNotes
	}
	for _, a := range gr.Assets {
		if strings.HasSuffix(a.Name, c.suffix) {
			rel.AssetURL, rel.AssetName, rel.AssetSize = a.BrowserDownloadURL, a.Name, a.Size
			break
		}
	}
	rel.HasUpdate = rel.Version != "" && IsNewer(rel.Version, c.current)
	c.log.Info("update check",
		slog.String("current", c.current),
		slog.String("latest", rel.Version),
		slog.Bool("has_update", rel.HasUpdate))
	return rel, nil
}

// IsNewer orders versions semantically, falling back to plain inequality
// when either side is not a semantic version.
func IsNewer(latest, current string) bool {
	l, cur := "v"+strings.TrimPrefix(latest, "v"), "v"+strings.TrimPrefix(current, "v")
	if semver.IsValid(l) && semver.IsValid(cur) {
		return semver.Compare(l, cur) > 0
	}
	return latest != current
}

// UpdatePath returns where the new binary for exe is staged:
// <dir>/<name>_update<ext>.
func UpdatePath(exe string) string {
	ext := filepath.Ext(exe)
	name := strings.TrimSuffix(filepath.Base(exe), ext)
	return filepath.Join(filepath.Dir(exe), name+"_update"+ext)
}

// Progress receives bytes written so far and the total (0 if unknown).
type Progress func(done, total int64)

// Download streams rel's asset to dest. A partial file is removed on failure.
func (c *Checker) Download(ctx context.Context, rel Release, dest string, progress Progress) error {
	if rel.AssetURL == "" {
		return ErrNoAsset
	}
	ctx, cancel := context.WithTimeout(ctx, downloadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rel.AssetURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("download update: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download update: status %d", resp.StatusCode)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o755)
	if err != nil {
		return err
	}
	w := &progressWriter{w: f, total: resp.ContentLength, fn: progress}
	if w.total < 0 {
		w.total = 0
	}
	_, copyErr := io.Copy(w, resp.Body)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("download update: %w", err)
	}
	c.log.Info("update downloaded", slog.String("path", dest), slog.Int64("bytes", w.done))
	return nil
}

type progressWriter struct {
	w     io.Writer
	done  int64
	total int64
	fn    Progress
}

func (p *progressWriter) Write(b []byte) (int, error) {
	n, err := p.w.Write(b)
	p.done += int64(n)
	if p.fn != nil && n > 0 {
		p.fn(p.done, p.total)
	}
	return n, err
}
