package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/siteaudit"
	sitehttp "github.com/fwojciec/siteaudit/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProber_Probe(t *testing.T) {
	t.Parallel()

	opts := siteaudit.CheckOptions{Timeout: 5 * time.Second, Retry: true}

	t.Run("reports status and media type", func(t *testing.T) {
		t.Parallel()

		var method atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method.Store(r.Method)
			w.Header().Set("Content-Type", "text/html; charset=UTF-8")
		}))
		defer server.Close()

		result, err := sitehttp.NewProber().Probe(context.Background(), server.URL+"/page", opts)

		require.NoError(t, err)
		assert.Equal(t, http.MethodHead, method.Load())
		assert.Equal(t, server.URL+"/page", result.URL)
		assert.Equal(t, 200, result.Status)
		assert.Equal(t, siteaudit.LinkOK, result.State)
		assert.Equal(t, "text/html", result.ContentType)
	})

	t.Run("reports broken status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.NotFoundHandler())
		defer server.Close()

		result, err := sitehttp.NewProber().Probe(context.Background(), server.URL+"/missing.png", opts)

		require.NoError(t, err)
		assert.Equal(t, 404, result.Status)
		assert.Equal(t, siteaudit.LinkBroken, result.State)
	})

	t.Run("follows redirects to the final status", func(t *testing.T) {
		t.Parallel()

		mux := http.NewServeMux()
		mux.Handle("/old", http.RedirectHandler("/gone", http.StatusMovedPermanently))
		mux.Handle("/gone", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusGone)
		}))
		server := httptest.NewServer(mux)
		defer server.Close()

		result, err := sitehttp.NewProber().Probe(context.Background(), server.URL+"/old", opts)

		require.NoError(t, err)
		assert.Equal(t, 410, result.Status)
		assert.Equal(t, server.URL+"/old", result.URL)
	})

	t.Run("falls back to GET when HEAD is not allowed", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodHead {
				w.WriteHeader(http.StatusMethodNotAllowed)
				return
			}
			w.Header().Set("Content-Type", "image/png")
		}))
		defer server.Close()

		result, err := sitehttp.NewProber().Probe(context.Background(), server.URL, opts)

		require.NoError(t, err)
		assert.Equal(t, 200, result.Status)
		assert.Equal(t, "image/png", result.ContentType)
	})

	t.Run("retries a rate-limited response once", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.Header().Set("Retry-After", "0")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
		}))
		defer server.Close()

		result, err := sitehttp.NewProber().Probe(context.Background(), server.URL, opts)

		require.NoError(t, err)
		assert.Equal(t, 200, result.Status)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("caps Retry-After", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "3600")
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		prober := sitehttp.NewProber(sitehttp.WithMaxRetryAfter(10 * time.Millisecond))
		start := time.Now()
		result, err := prober.Probe(context.Background(), server.URL, opts)

		require.NoError(t, err)
		assert.Equal(t, 429, result.Status)
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("does not retry 429 when retry is disabled", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		result, err := sitehttp.NewProber().Probe(context.Background(), server.URL, siteaudit.CheckOptions{Timeout: time.Second})

		require.NoError(t, err)
		assert.Equal(t, 429, result.Status)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("sends the user agent", func(t *testing.T) {
		t.Parallel()

		var ua atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua.Store(r.UserAgent())
		}))
		defer server.Close()

		o := opts
		o.UserAgent = "audit-bot/1.0"
		_, err := sitehttp.NewProber().Probe(context.Background(), server.URL, o)

		require.NoError(t, err)
		assert.Equal(t, "audit-bot/1.0", ua.Load())
	})

	t.Run("returns error on timeout", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(200 * time.Millisecond)
		}))
		defer server.Close()

		_, err := sitehttp.NewProber().Probe(context.Background(), server.URL, siteaudit.CheckOptions{Timeout: 20 * time.Millisecond})

		require.Error(t, err)
	})

	t.Run("returns error for unreachable host", func(t *testing.T) {
		t.Parallel()

		_, err := sitehttp.NewProber().Probe(context.Background(), "http://non-existent-host.invalid/", siteaudit.CheckOptions{Timeout: time.Second})

		require.Error(t, err)
	})
}
