package importer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/tartampluch/orbita/internal/config"
)

// SourceFetcher retrieves a remote import source.
type SourceFetcher interface {
	Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error)
}

// HTTPFetcher downloads export files over http or https.
// A source larger than MaxSize is rejected, never truncated.
type HTTPFetcher struct {
	Client  *http.Client
	MaxSize int64
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client:  &http.Client{Timeout: config.HTTPTimeout},
		MaxSize: config.MaxHTTPResponseSize,
	}
}

// Fetch downloads the whole source into memory so that an oversized or
// interrupted download surfaces as an error before any parsing starts.
func (f *HTTPFetcher) Fetch(ctx context.Context, sourceURL, user, pass string) (io.ReadCloser, error) {
	req, safeURL, err := newSourceRequest(ctx, sourceURL, user, pass)
	if err != nil {
		return nil, err
	}
	log := slog.With(
		slog.String(config.LogKeyComponent, config.CompFetcher),
		slog.String(config.LogKeyURL, safeURL),
	)
	log.Debug(config.MsgFetchStarted)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchNetwork, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		log.Warn(config.MsgFetchBadStatus, slog.Int(config.LogKeyStatus, resp.StatusCode))
		return nil, fmt.Errorf("%s: %s", config.ErrFetchStatus, resp.Status)
	}

	limit := f.MaxSize
	if limit <= 0 {
		limit = config.MaxHTTPResponseSize
	}
	if resp.ContentLength > limit {
		log.Warn(config.MsgFetchTooLarge, slog.Int64(config.LogKeyBytes, resp.ContentLength), slog.Int64(config.LogKeyLimit, limit))
		return nil, fmt.Errorf("%s: %d bytes", config.ErrSourceTooLarge, limit)
	}

	// One byte past the limit is enough to tell a full read from a cut one.
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrFetchRead, err)
	}
	if int64(len(data)) > limit {
		log.Warn(config.MsgFetchTooLarge, slog.Int64(config.LogKeyLimit, limit))
		return nil, fmt.Errorf("%s: %d bytes", config.ErrSourceTooLarge, limit)
	}

	log.Debug(config.MsgFetchDone, slog.Int(config.LogKeyBytes, len(data)))
	return io.NopCloser(bytes.NewReader(data)), nil
}

// newSourceRequest validates the URL and builds the GET request. The returned
// URL has its query string removed since export links often carry tokens.
func newSourceRequest(ctx context.Context, sourceURL, user, pass string) (*http.Request, string, error) {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", config.ErrInvalidURL, err)
	}
	if u.Scheme != config.SchemeHTTP && u.Scheme != config.SchemeHTTPS {
		return nil, "", fmt.Errorf("%s: %s", config.ErrProtocol, u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, sourceURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", config.ErrFetchRequest, err)
	}
	req.Header.Set(config.HeaderUserAgent, config.UserAgent)
	if user != "" || pass != "" {
		req.SetBasicAuth(user, pass)
	}

	return req, u.Scheme + "://" + u.Host + u.Path, nil
}
