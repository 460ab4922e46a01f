// Package summary defines the structured output contract of the constrained
// summarizer.
package summary

import "strings"

// sentinelPhrase is the leading clause of the sentinel. Normalize matches on
// it so decorated provider variants still collapse to the exact sentinel.
const sentinelPhrase = "Your query did not return any relevant entries"

// NoRelevantResultsSentinel is the fixed policy_position emitted when no
// retrieved snippet is directly relevant to the query. It is a successful
// outcome, not an error; the UI renders it as a normal answer.
const NoRelevantResultsSentinel = sentinelPhrase + ". Please try a different query or adjust the filters."

// MaxPoints caps the number of policy points in a result.
const MaxPoints = 5

// Result is the structured summary: a position statement plus bullet-delimited
// proposed measures. Exactly these two fields cross the provider boundary.
type Result struct {
	PolicyPosition string `json:"policy_position"`
	PolicyPoints   string `json:"policy_points"`
}

// NoRelevantResults returns the sentinel result.
func NoRelevantResults() Result {
	return Result{PolicyPosition: NoRelevantResultsSentinel}
}

// IsNoRelevantResults reports whether the result is the sentinel.
func (r Result) IsNoRelevantResults() bool {
	return r.PolicyPosition == NoRelevantResultsSentinel
}

// Points splits the bullet-delimited policy_points into clean entries:
// leading bullet markers stripped, blanks dropped, capped at MaxPoints.
func (r Result) Points() []string {
	if r.PolicyPoints == "" {
		return nil
	}
	var points []string
	for _, line := range strings.Split(r.PolicyPoints, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "- ")
		line = strings.TrimPrefix(line, "* ")
		if line == "" {
			continue
		}
		points = append(points, line)
		if len(points) == MaxPoints {
			break
		}
	}
	return points
}

// Normalize enforces the no-fabrication law on provider output: any result
// whose position carries the sentinel phrase collapses to the exact sentinel
// with empty points.
func (r Result) Normalize() Result {
	if strings.Contains(r.PolicyPosition, sentinelPhrase) {
		return NoRelevantResults()
	}
	return r
}
