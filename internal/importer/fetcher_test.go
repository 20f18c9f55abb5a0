package importer_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/orbita/internal/config"
	"github.com/tartampluch/orbita/internal/importer"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(body)
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	const export = "name,city\nJane Doe,Berlin\n"

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, config.UserAgent, r.Header.Get(config.HeaderUserAgent))
		user, pass, ok := r.BasicAuth()
		if r.URL.Path == "/private.csv" && (!ok || user != "jane" || pass != "s3cret") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Path == "/public.csv" {
			assert.False(t, ok, "no credentials should be sent")
		}
		_, _ = w.Write([]byte(export))
	}))
	defer ts.Close()

	tests := []struct {
		name       string
		path       string
		user, pass string
	}{
		{"Basic auth with token in query", "/private.csv?token=secret", "jane", "s3cret"},
		{"Anonymous", "/public.csv", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, err := importer.NewHTTPFetcher().Fetch(context.Background(), ts.URL+tt.path, tt.user, tt.pass)
			require.NoError(t, err)
			assert.Equal(t, export, readAll(t, rc))
		})
	}
}

func TestHTTPFetcher_Fetch_BadStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusUnauthorized, http.StatusInternalServerError} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer ts.Close()

			rc, err := importer.NewHTTPFetcher().Fetch(context.Background(), ts.URL, "", "")

			require.Error(t, err)
			assert.Nil(t, rc)
			assert.Contains(t, err.Error(), config.ErrFetchStatus)
			assert.Contains(t, err.Error(), http.StatusText(status))
		})
	}
}

func TestHTTPFetcher_Fetch_SizeLimit(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		stream  bool
		wantErr bool
	}{
		{"At the limit", strings.Repeat("a", 10), false, false},
		{"Declared length over the limit", strings.Repeat("a", 11), false, true},
		{"Streamed body over the limit", strings.Repeat("a", 11), true, true},
		{"Streamed body under the limit", "name\nJane", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !tt.stream {
					_, _ = w.Write([]byte(tt.body))
					return
				}
				// Flushing before the body is complete forces chunked encoding,
				// so the client learns the size only by reading.
				_, _ = w.Write([]byte(tt.body[:1]))
				w.(http.Flusher).Flush()
				_, _ = w.Write([]byte(tt.body[1:]))
			}))
			defer ts.Close()

			f := importer.NewHTTPFetcher()
			f.MaxSize = 10

			rc, err := f.Fetch(context.Background(), ts.URL, "", "")

			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, rc)
				assert.Contains(t, err.Error(), config.ErrSourceTooLarge)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.body, readAll(t, rc))
		})
	}
}

// An oversized CSV must fail instead of importing a truncated batch.
func TestHTTPFetcher_OversizedSourceNeverImported(t *testing.T) {
	csv := "name\n" + strings.Repeat("Jane Doe\n", 20)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(csv))
	}))
	defer ts.Close()

	f := importer.NewHTTPFetcher()
	f.MaxSize = int64(len(csv) - 5)

	_, err := f.Fetch(context.Background(), ts.URL+"/export.csv", "", "")

	assert.ErrorContains(t, err, config.ErrSourceTooLarge)
}

func TestHTTPFetcher_Fetch_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := importer.NewHTTPFetcher().Fetch(ctx, ts.URL, "", "")

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Contains(t, err.Error(), config.ErrFetchNetwork)
}

func TestHTTPFetcher_Fetch_RejectedURLs(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr string
	}{
		{"Control character", string([]byte{0x7f}), config.ErrInvalidURL},
		{"FTP scheme", "ftp://example.com/contacts.csv", config.ErrProtocol},
		{"File scheme", "file:///etc/passwd", config.ErrProtocol},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.NewHTTPFetcher().Fetch(context.Background(), tt.url, "", "")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
