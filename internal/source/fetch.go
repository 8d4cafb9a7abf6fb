package source

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	appLog "icsvalidate/internal/log"
)

// DefaultCacheDir is used when a Loader is created without a cache directory.
const DefaultCacheDir = "./var/ics-cache"

// maxBodyBytes caps how much of a remote calendar is read.
const maxBodyBytes = 16 << 20

// cacheEntry holds HTTP cache metadata for a single calendar URL.
type cacheEntry struct {
	URL          string    `json:"url"`
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Loader reads calendar documents from local paths or http(s) URLs.
// Remote documents are cached on disk and revalidated with ETag /
// Last-Modified; the cached copy is used on 304, network errors and non-OK
// responses.
type Loader struct {
	client   *http.Client
	cacheDir string
}

// NewLoader creates a Loader that caches remote documents under cacheDir.
func NewLoader(cacheDir string) *Loader {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	return &Loader{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		cacheDir: cacheDir,
	}
}

// IsRemote reports whether location is an http(s) URL.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load returns the full contents of location.
func (l *Loader) Load(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, errors.New("source: location is empty")
	}
	if !IsRemote(location) {
		body, err := os.ReadFile(location)
		if err != nil {
			return nil, fmt.Errorf("source: read %s: %w", location, err)
		}
		return body, nil
	}
	return l.fetch(ctx, location)
}

func (l *Loader) fetch(ctx context.Context, url string) ([]byte, error) {
	cachePath := l.cachePathForURL(url)
	if err := os.MkdirAll(cachePath, 0o700); err != nil {
		return nil, fmt.Errorf("source: create cache dir: %w", err)
	}

	meta, _ := l.loadCacheMeta(cachePath)
	cachedBody, _ := l.loadCacheBody(cachePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	if len(cachedBody) > 0 {
		if meta.ETag != "" {
			req.Header.Set("If-None-Match", meta.ETag)
		}
		if meta.LastModified != "" {
			req.Header.Set("If-Modified-Since", meta.LastModified)
		}
	}

	appLog.Debug("calendar fetch start", "url", RedactURL(url))

	resp, err := l.client.Do(req)
	if err != nil {
		if len(cachedBody) > 0 {
			appLog.Error("calendar fetch network error, using cached body", err, "url", RedactURL(url))
			return cachedBody, nil
		}
		return nil, fmt.Errorf("source: fetch %s: %w", RedactURL(url), err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("source: read body: %w", err)
		}
		newMeta := cacheEntry{
			URL:          url,
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
		}
		if err := l.saveCache(cachePath, newMeta, body); err != nil {
			// Log but still return the freshly fetched body.
			appLog.Error("calendar cache save failed", err, "url", RedactURL(url))
		}
		appLog.Info("calendar fetched", "url", RedactURL(url), "bytes", len(body))
		return body, nil

	case http.StatusNotModified:
		if len(cachedBody) == 0 {
			return nil, errors.New("source: received 304 Not Modified but no cached body available")
		}
		appLog.Info("calendar not modified; using cache", "url", RedactURL(url))
		return cachedBody, nil

	default:
		if len(cachedBody) > 0 {
			appLog.Error("calendar fetch non-OK, using cached body", errors.New(resp.Status),
				"url", RedactURL(url), "status", resp.StatusCode)
			return cachedBody, nil
		}
		return nil, fmt.Errorf("source: fetch %s: %s", RedactURL(url), resp.Status)
	}
}

func (l *Loader) cachePathForURL(url string) string {
	sum := sha256.Sum256([]byte(url))
	return filepath.Join(l.cacheDir, hex.EncodeToString(sum[:8]))
}

func (l *Loader) loadCacheMeta(cachePath string) (cacheEntry, error) {
	var meta cacheEntry
	data, err := os.ReadFile(filepath.Join(cachePath, "meta.json"))
	if err != nil {
		return meta, err
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return cacheEntry{}, err
	}
	return meta, nil
}

func (l *Loader) loadCacheBody(cachePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(cachePath, "body.ics"))
}

func (l *Loader) saveCache(cachePath string, meta cacheEntry, body []byte) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.ics"), body, 0o600); err != nil {
		return err
	}

	meta.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}

// RedactURL hides the path and query of a URL for logging, e.g.
// https://example.com/private.ics?token=abcd -> https://example.com/...(redacted)
func RedactURL(u string) string {
	const redactedSuffix = "/...(redacted)"

	scheme, rest, ok := strings.Cut(u, "://")
	if !ok {
		return "ics://...(redacted)"
	}
	host, _, _ := strings.Cut(rest, "/")
	host, _, _ = strings.Cut(host, "?")
	return scheme + "://" + host + redactedSuffix
}
