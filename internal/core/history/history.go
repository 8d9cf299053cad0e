// Package history defines recognition history domain types and the bounded
// history store.
package history

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

const (
	// DefaultKey is the storage key of the serialized history list. Changing it
	// resets history for existing installs.
	DefaultKey = "textsnap_history_v1"

	// DefaultMaxItems is the maximum number of items retained.
	DefaultMaxItems = 15

	// Placeholder is the transient text shown while a result is pending. It is
	// never persisted.
	Placeholder = "Processing image..."
)

// Item is a single past recognition result.
type Item struct {
	ID       string    `json:"id"`
	ImageURI string    `json:"imageUri"`
	Text     string    `json:"text"`
	Date     time.Time `json:"date"`
}

// IsPlaceholder reports whether text is the pending-result placeholder.
func IsPlaceholder(text string) bool {
	return strings.HasPrefix(text, Placeholder)
}

// Preview returns the text collapsed to a single line and truncated to at most
// max grapheme clusters, with an ellipsis when truncated.
func (i Item) Preview(max int) string {
	return Truncate(strings.Join(strings.Fields(i.Text), " "), max)
}

// Truncate shortens s to at most max grapheme clusters, appending "..." when
// anything was cut. A max of zero or less returns s unchanged.
func Truncate(s string, max int) string {
	if max <= 0 || uniseg.GraphemeClusterCount(s) <= max {
		return s
	}

	var (
		b     strings.Builder
		count int
		g     = uniseg.NewGraphemes(s)
	)
	for g.Next() && count < max {
		b.WriteString(g.Str())
		count++
	}

	return b.String() + "..."
}
