package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxway/knowledge-rag/internal/core/domain"
)

func urlSource(u string) domain.Source {
	return domain.Source{Kind: domain.SourceURL, Location: u}
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{})
	assert.Equal(t, DefaultTimeout, c.client.Timeout)
	assert.Equal(t, int64(DefaultMaxBytes), c.maxBytes)
	assert.Equal(t, DefaultUserAgent, c.userAgent)
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<h1>Nuxway</h1>"))
	}))
	defer srv.Close()

	raw, err := New(Config{}).Fetch(context.Background(), urlSource(srv.URL+"/"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/", raw.Source)
	assert.Equal(t, srv.URL+"/", raw.URI)
	assert.Equal(t, "text/html", raw.MIMEType)
	assert.Equal(t, "<h1>Nuxway</h1>", string(raw.Content))
}

func TestFetch_FollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("moved"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	raw, err := New(Config{}).Fetch(context.Background(), urlSource(srv.URL+"/old"))
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/old", raw.Source)
	assert.Equal(t, srv.URL+"/new", raw.URI)
	assert.Equal(t, "text/plain", raw.MIMEType)
	assert.Equal(t, "moved", string(raw.Content))
}

func TestFetch_RedirectLoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, r.URL.Path, http.StatusFound)
	}))
	defer srv.Close()

	_, err := New(Config{MaxRedirects: 3}).Fetch(context.Background(), urlSource(srv.URL+"/loop"))
	assert.ErrorIs(t, err, domain.ErrFetch)
	assert.Contains(t, err.Error(), "redirects")
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	for _, status := range []int{http.StatusNotFound, http.StatusInternalServerError, http.StatusBadGateway} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "broken", status)
		}))

		_, err := New(Config{}).Fetch(context.Background(), urlSource(srv.URL))
		srv.Close()

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrFetch)
		assert.ErrorIs(t, err, domain.ErrUpstream)

		var upstream *domain.UpstreamError
		require.True(t, errors.As(err, &upstream))
		assert.Equal(t, status, upstream.StatusCode)
		assert.Equal(t, "broken", upstream.Body)
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(Config{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), urlSource(srv.URL))
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", 100)))
	}))
	defer srv.Close()

	_, err := New(Config{MaxBytes: 10}).Fetch(context.Background(), urlSource(srv.URL))
	assert.ErrorIs(t, err, ErrTooLarge)
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestFetch_BadURL(t *testing.T) {
	_, err := New(Config{}).Fetch(context.Background(), urlSource("http://bad host/"))
	assert.ErrorIs(t, err, domain.ErrFetch)
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "text/html"},
		{"text/html; charset=utf-8", "text/html"},
		{"TEXT/PLAIN", "text/plain"},
		{"application/xhtml+xml", "application/xhtml+xml"},
		{";;;", "text/html"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, mediaType(tt.input), "input %q", tt.input)
	}
}
