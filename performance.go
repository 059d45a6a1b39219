package siteaudit

import (
	"context"
	"math"
	"strconv"
)

// Profile is a device/network emulation preset used for performance audits.
type Profile string

// Performance profiles.
const (
	Desktop Profile = "desktop"
	Mobile  Profile = "mobile"
)

// Title returns the profile name as shown in reports and failure messages.
func (p Profile) Title() string {
	switch p {
	case Desktop:
		return "Desktop"
	case Mobile:
		return "Mobile"
	default:
		return string(p)
	}
}

// NoIssues is the issue summary when every tracked signal scores the maximum.
const NoIssues = "No significant issues detected."

// NotAvailable is the score shown when the performance probe failed.
const NotAvailable = "N/A"

// PerformanceResult is the outcome of one performance audit of a domain.
type PerformanceResult struct {
	Profile Profile

	// Score is on a 0-100 scale. Only meaningful when Available is true.
	Score     float64
	Available bool

	Issues string
}

// ScoreString returns the score for display, or "N/A" if the probe failed.
func (r *PerformanceResult) ScoreString() string {
	if r == nil || !r.Available {
		return NotAvailable
	}
	return FormatScore(r.Score)
}

// FailedPerformance returns the result recorded when a probe could not run.
func FailedPerformance(profile Profile, tool string) *PerformanceResult {
	return &PerformanceResult{
		Profile: profile,
		Issues:  "Failed to run " + tool + " (" + profile.Title() + ")",
	}
}

// RescaleScore converts a 0..1 audit score to the 0-100 scale.
// The result is rounded to two decimals to drop floating point noise.
func RescaleScore(fraction float64) float64 {
	return math.Round(fraction*10000) / 100
}

// FormatScore formats a 0-100 score without trailing zeros (85, 85.5).
func FormatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}

// PerformanceProbe measures page performance for a domain.
type PerformanceProbe interface {
	// Measure audits url with the given profile. It never fails: probe
	// errors are reported as a result with Available set to false.
	Measure(ctx context.Context, url string, profile Profile) *PerformanceResult
}
