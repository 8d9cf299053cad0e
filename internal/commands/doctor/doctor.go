// Package doctor runs diagnostic checks on a textsnap installation.
package doctor

import (
	"context"
	"strings"
)

// Status is the outcome of a single check item. It is encoded as-is in JSON
// output.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// CheckItem is one line of a check result.
type CheckItem struct {
	Label   string `json:"label"`
	Status  Status `json:"status"`
	Detail  string `json:"detail,omitempty"`
	Fixable bool   `json:"fixable,omitempty"`

	// HistoryUnreliable marks a finding after which the loaded history cannot
	// be trusted to list every stored entry.
	HistoryUnreliable bool `json:"-"`
}

// Result groups the items reported by one check.
type Result struct {
	Name  string      `json:"name"`
	Items []CheckItem `json:"items"`
}

// Check is a single diagnostic.
type Check interface {
	Name() string
	Run(ctx context.Context) Result
}

// HistoryDependent is a check whose findings assume the loaded history is
// complete. RunAll calls HistoryUnreliable before running it when an earlier
// check reported the stored history as unreadable.
type HistoryDependent interface {
	Check
	HistoryUnreliable(reason string)
}

// RunAll executes checks in order and returns their results.
func RunAll(ctx context.Context, checks []Check) []Result {
	var (
		results = make([]Result, 0, len(checks))
		reason  string
	)

	for _, check := range checks {
		if dep, ok := check.(HistoryDependent); ok && reason != "" {
			dep.HistoryUnreliable(reason)
		}

		result := check.Run(ctx)
		if reason == "" {
			reason = unreliableReason(result)
		}

		results = append(results, result)
	}

	return results
}

func unreliableReason(r Result) string {
	for _, item := range r.Items {
		if item.HistoryUnreliable && item.Status != StatusPass {
			return strings.ToLower(item.Label) + " is unreadable"
		}
	}
	return ""
}

// Totals counts items by status across results.
type Totals struct {
	Passed int `json:"passed"`
	Warned int `json:"warned"`
	Failed int `json:"failed"`
	// Fixable counts warn and fail items that --fix can repair.
	Fixable int `json:"fixable"`
}

// Healthy reports whether no item failed.
func (t Totals) Healthy() bool {
	return t.Failed == 0
}

// Tally totals the items of all results.
func Tally(results []Result) Totals {
	var t Totals
	for _, r := range results {
		for _, item := range r.Items {
			switch item.Status {
			case StatusPass:
				t.Passed++
				continue
			case StatusWarn:
				t.Warned++
			case StatusFail:
				t.Failed++
			}
			if item.Fixable {
				t.Fixable++
			}
		}
	}
	return t
}
