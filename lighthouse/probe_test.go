package lighthouse_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/lighthouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runnerFunc adapts a function to lighthouse.Runner.
type runnerFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func (f runnerFunc) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f(ctx, name, args...)
}

func staticRunner(out string, err error) runnerFunc {
	return func(context.Context, string, ...string) ([]byte, error) {
		return []byte(out), err
	}
}

const fullReport = `{
  "categories": {"performance": {"score": 0.85}},
  "audits": {
    "first-contentful-paint": {"score": 0.9},
    "speed-index": {"score": 1},
    "largest-contentful-paint": {"score": 0.5},
    "total-blocking-time": {"score": null},
    "cumulative-layout-shift": {"score": 1},
    "unused-javascript": {"score": 0.1}
  }
}`

func TestProbe_Measure(t *testing.T) {
	t.Parallel()

	t.Run("extracts score and issues", func(t *testing.T) {
		t.Parallel()

		p := &lighthouse.Probe{Runner: staticRunner(fullReport, nil)}

		result := p.Measure(context.Background(), "http://a.com", siteaudit.Desktop)

		require.True(t, result.Available)
		assert.Equal(t, siteaudit.Desktop, result.Profile)
		assert.Equal(t, 85.0, result.Score)
		assert.Equal(t, "85", result.ScoreString())
		assert.Equal(t,
			"First Contentful Paint (FCP): Aim to load critical content as quickly as possible. (Score: 90): Consider optimizing images and using lazy loading.; "+
				"Largest Contentful Paint (LCP): Measures the time it takes for the largest content element to load. (Score: 50): Optimize images, use a CDN, and reduce server response times.",
			result.Issues)
	})

	t.Run("reports no issues when all key audits are perfect", func(t *testing.T) {
		t.Parallel()

		p := &lighthouse.Probe{Runner: staticRunner(`{"categories":{"performance":{"score":1}},"audits":{"speed-index":{"score":1}}}`, nil)}

		result := p.Measure(context.Background(), "http://a.com", siteaudit.Mobile)

		require.True(t, result.Available)
		assert.Equal(t, "100", result.ScoreString())
		assert.Equal(t, siteaudit.NoIssues, result.Issues)
	})

	t.Run("rounds scores to two decimals", func(t *testing.T) {
		t.Parallel()

		p := &lighthouse.Probe{Runner: staticRunner(`{"categories":{"performance":{"score":0.57}},"audits":{"speed-index":{"score":0.29}}}`, nil)}

		result := p.Measure(context.Background(), "http://a.com", siteaudit.Mobile)

		assert.Equal(t, "57", result.ScoreString())
		assert.Contains(t, result.Issues, "(Score: 29)")
	})

	tests := []struct {
		name    string
		out     string
		err     error
		profile siteaudit.Profile
		want    string
	}{
		{"runner error on desktop", "", errors.New("exit status 1"), siteaudit.Desktop, "Failed to run Lighthouse (Desktop)"},
		{"malformed JSON on mobile", "{not json", nil, siteaudit.Mobile, "Failed to run Lighthouse (Mobile)"},
		{"missing performance category", `{"categories":{}}`, nil, siteaudit.Desktop, "Failed to run Lighthouse (Desktop)"},
		{"null performance score", `{"categories":{"performance":{"score":null}}}`, nil, siteaudit.Mobile, "Failed to run Lighthouse (Mobile)"},
		{"runtime error", `{"runtimeError":{"code":"ERRORED_DOCUMENT_REQUEST","message":"status 500"},"categories":{"performance":{"score":0}}}`, nil, siteaudit.Desktop, "Failed to run Lighthouse (Desktop)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var logs bytes.Buffer
			p := &lighthouse.Probe{
				Runner: staticRunner(tt.out, tt.err),
				Logger: slog.New(slog.NewTextHandler(&logs, nil)),
			}

			result := p.Measure(context.Background(), "http://a.com", tt.profile)

			assert.False(t, result.Available)
			assert.Equal(t, tt.profile, result.Profile)
			assert.Equal(t, "N/A", result.ScoreString())
			assert.Equal(t, tt.want, result.Issues)
			assert.Contains(t, logs.String(), "lighthouse failed")
		})
	}

	t.Run("passes context and binary to runner", func(t *testing.T) {
		t.Parallel()

		type key struct{}
		ctx := context.WithValue(context.Background(), key{}, "v")
		var gotName string
		p := &lighthouse.Probe{
			Binary: "/opt/lh/bin/lighthouse",
			Runner: runnerFunc(func(ctx context.Context, name string, _ ...string) ([]byte, error) {
				assert.Equal(t, "v", ctx.Value(key{}))
				gotName = name
				return []byte(fullReport), nil
			}),
		}

		p.Measure(ctx, "http://a.com", siteaudit.Desktop)

		assert.Equal(t, "/opt/lh/bin/lighthouse", gotName)
	})
}

func TestProbe_Args(t *testing.T) {
	t.Parallel()

	p := &lighthouse.Probe{}

	assert.Equal(t,
		[]string{"http://a.com", "--output=json", "--quiet", "--preset=desktop", "--chrome-flags=--headless"},
		p.Args("http://a.com", siteaudit.Desktop))
	assert.Equal(t,
		[]string{"http://a.com", "--output=json", "--quiet", "--chrome-flags=--headless", "--form-factor=mobile"},
		p.Args("http://a.com", siteaudit.Mobile))

	p.ChromeFlags = []string{"--no-sandbox", "--disable-gpu"}
	assert.Contains(t, p.Args("http://a.com", siteaudit.Mobile), "--chrome-flags=--headless --no-sandbox --disable-gpu")
}
