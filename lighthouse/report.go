package lighthouse

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// Audit is a Lighthouse audit tracked in the issue summary.
type Audit struct {
	ID          string
	Description string
	Suggestion  string
}

// KeyAudits are the performance signals summarized for each page, in
// report order.
var KeyAudits = []Audit{
	{
		ID:          "first-contentful-paint",
		Description: "First Contentful Paint (FCP): Aim to load critical content as quickly as possible.",
		Suggestion:  "Consider optimizing images and using lazy loading.",
	},
	{
		ID:          "speed-index",
		Description: "Speed Index: Measures how quickly content is visually displayed.",
		Suggestion:  "Reduce unused CSS, minimize render-blocking resources, and defer non-critical JS.",
	},
	{
		ID:          "largest-contentful-paint",
		Description: "Largest Contentful Paint (LCP): Measures the time it takes for the largest content element to load.",
		Suggestion:  "Optimize images, use a CDN, and reduce server response times.",
	},
	{
		ID:          "total-blocking-time",
		Description: "Total Blocking Time (TBT): Measures the time during which the main thread is blocked and unable to respond to user input.",
		Suggestion:  "Minimize JavaScript execution time, avoid long tasks, and split large tasks into smaller ones.",
	},
	{
		ID:          "cumulative-layout-shift",
		Description: "Cumulative Layout Shift (CLS): Measures unexpected layout shifts during page load.",
		Suggestion:  "Ensure images have explicit width and height, avoid injecting ads above existing content.",
	},
}

// Report is the subset of Lighthouse's JSON output used by the probe.
type Report struct {
	Categories struct {
		Performance *struct {
			Score *float64 `json:"score"`
		} `json:"performance"`
	} `json:"categories"`
	Audits       map[string]AuditResult `json:"audits"`
	RuntimeError *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"runtimeError"`
}

// AuditResult is a single audit outcome. Score is nil for informative or
// failed audits.
type AuditResult struct {
	Score *float64 `json:"score"`
}

// Parse decodes Lighthouse JSON output.
func Parse(data []byte) (*Report, error) {
	var r Report
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("decoding lighthouse report: %w", err)
	}
	return &r, nil
}

// PerformanceScore returns the performance category score on a 0-100 scale.
func (r *Report) PerformanceScore() (float64, error) {
	if r.RuntimeError != nil && r.RuntimeError.Code != "" && r.RuntimeError.Code != "NO_ERROR" {
		return 0, fmt.Errorf("lighthouse runtime error %s: %s", r.RuntimeError.Code, r.RuntimeError.Message)
	}
	if r.Categories.Performance == nil || r.Categories.Performance.Score == nil {
		return 0, errors.New("lighthouse report has no performance score")
	}
	return siteaudit.RescaleScore(*r.Categories.Performance.Score), nil
}

// Issues summarizes the key audits that scored below the maximum, or
// returns siteaudit.NoIssues when there are none.
func (r *Report) Issues() string {
	var issues []string
	for _, a := range KeyAudits {
		res, ok := r.Audits[a.ID]
		if !ok || res.Score == nil || *res.Score >= 1 {
			continue
		}
		score := siteaudit.FormatScore(siteaudit.RescaleScore(*res.Score))
		issues = append(issues, a.Description+" (Score: "+score+"): "+a.Suggestion)
	}
	if len(issues) == 0 {
		return siteaudit.NoIssues
	}
	return strings.Join(issues, "; ")
}
