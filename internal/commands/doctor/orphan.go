package doctor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hay-kot/textsnap/internal/core/history"
)

// OrphanCheck detects camera captures that no history entry refers to. They
// are left behind when entries are deleted or evicted.
//
// Captures are only classified against a history that loaded completely. When
// the stored record is unreadable nothing is reported as orphaned or deleted.
type OrphanCheck struct {
	items       []history.Item
	capturesDir string
	fix         bool
	unreliable  string
}

// NewOrphanCheck creates a new orphan capture check.
// If fix is true, orphaned captures are deleted.
func NewOrphanCheck(items []history.Item, capturesDir string, fix bool) *OrphanCheck {
	return &OrphanCheck{
		items:       items,
		capturesDir: capturesDir,
		fix:         fix,
	}
}

func (c *OrphanCheck) Name() string {
	return "Orphan Captures"
}

// HistoryUnreliable stops the check from classifying captures.
func (c *OrphanCheck) HistoryUnreliable(reason string) {
	c.unreliable = reason
}

func (c *OrphanCheck) Run(_ context.Context) Result {
	result := Result{Name: c.Name()}

	known := make(map[string]bool, len(c.items))
	for _, item := range c.items {
		known[filepath.Clean(strings.TrimPrefix(item.ImageURI, "file://"))] = true
	}

	entries, err := os.ReadDir(c.capturesDir)
	switch {
	case os.IsNotExist(err):
		result.Items = append(result.Items, CheckItem{
			Label:  "Captures directory",
			Status: StatusPass,
			Detail: "no captures yet",
		})
		return result
	case err != nil:
		result.Items = append(result.Items, CheckItem{
			Label:  "Read captures directory",
			Status: StatusFail,
			Detail: err.Error(),
		})
		return result
	}

	if c.unreliable != "" {
		result.Items = append(result.Items, CheckItem{
			Label:  "Captures kept",
			Status: StatusWarn,
			Detail: fmt.Sprintf("%d file(s) not checked: %s", countRegular(entries), c.unreliable),
		})
		return result
	}

	var orphans []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if !known[filepath.Join(c.capturesDir, entry.Name())] {
			orphans = append(orphans, entry.Name())
		}
	}

	if len(orphans) == 0 {
		result.Items = append(result.Items, CheckItem{
			Label:  "No orphans",
			Status: StatusPass,
			Detail: "all captures are in history",
		})
		return result
	}

	for _, name := range orphans {
		path := filepath.Join(c.capturesDir, name)

		if !c.fix {
			result.Items = append(result.Items, CheckItem{
				Label:   name,
				Status:  StatusWarn,
				Detail:  "orphaned capture (no history entry)",
				Fixable: true,
			})
			continue
		}

		if err := os.Remove(path); err != nil {
			result.Items = append(result.Items, CheckItem{
				Label:  name,
				Status: StatusFail,
				Detail: fmt.Sprintf("failed to delete: %v", err),
			})
		} else {
			result.Items = append(result.Items, CheckItem{
				Label:  name,
				Status: StatusPass,
				Detail: "deleted orphaned capture",
			})
		}
	}

	return result
}

func countRegular(entries []os.DirEntry) int {
	n := 0
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			n++
		}
	}
	return n
}
