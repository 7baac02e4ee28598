package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/config"
	"github.com/theronindev/Inventory-of-Warehouses-IoW/internal/logger"
)

const maxCatalogBytes = 64 << 20

// Fetcher downloads a master file over HTTP(S), retrying 429 and 5xx responses.
type Fetcher struct {
	httpClient *http.Client
	attempts   int
	log        *slog.Logger
}

func NewFetcher(cfg config.Config, log *slog.Logger) *Fetcher {
	if log == nil {
		log = logger.Discard()
	}
	attempts := cfg.CatalogFetchRetries
	if attempts <= 0 {
		attempts = 1
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: time.Duration(cfg.CatalogFetchTimeoutMs) * time.Millisecond},
		attempts:   attempts,
		log:        log,
	}
}

// Fetch returns the file name (from Content-Disposition or the URL path) and body.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, []byte, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", nil, fmt.Errorf("unsupported catalog url scheme: %q", u.Scheme)
	}

	var lastErr error
	for attempt := 1; attempt <= f.attempts; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return "", nil, err
		}

		resp, err := f.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() != nil {
				return "", nil, ctx.Err()
			}
			if werr := f.wait(ctx, attempt); werr != nil {
				return "", nil, werr
			}
			continue
		}

		body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxCatalogBytes))
		_ = resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			if isRetryableStatus(resp.StatusCode) && attempt < f.attempts {
				lastErr = fmt.Errorf("catalog status %d", resp.StatusCode)
				f.log.Warn("catalog fetch retry", "url", u.Redacted(), "status", resp.StatusCode, "attempt", attempt)
				if werr := f.wait(ctx, attempt); werr != nil {
					return "", nil, werr
				}
				continue
			}
			return "", nil, fmt.Errorf("catalog download failed: status=%d", resp.StatusCode)
		}

		return fileNameFor(u, resp.Header.Get("Content-Disposition")), body, nil
	}

	if lastErr == nil {
		lastErr = errors.New("catalog request failed")
	}
	return "", nil, lastErr
}

func (f *Fetcher) wait(ctx context.Context, attempt int) error {
	backoff := time.Duration(250*(1<<(attempt-1))+rand.Intn(100)) * time.Millisecond
	timer := time.NewTimer(backoff)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isRetryableStatus(status int) bool {
	switch status {
	case 429, 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

func fileNameFor(u *url.URL, disposition string) string {
	if disposition != "" {
		if _, params, err := mime.ParseMediaType(disposition); err == nil {
			if name := strings.TrimSpace(params["filename"]); name != "" {
				return path.Base(name)
			}
		}
	}
	name := path.Base(u.Path)
	if name == "." || name == "/" {
		return ""
	}
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}
