package tui

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/textsnap/internal/core/history"
)

// dateLayout formats history dates.
const dateLayout = "02 Jan 06 15:04"

// HistoryItem wraps a history entry for the list component.
type HistoryItem struct {
	Item history.Item
}

// FilterValue returns the value used for filtering.
func (i HistoryItem) FilterValue() string {
	return i.Item.Text + " " + filepath.Base(i.Item.ImageURI)
}

// HistoryDelegate renders history entries as a text preview followed by the
// date and image name.
type HistoryDelegate struct {
	Styles HistoryDelegateStyles
}

// HistoryDelegateStyles defines the styles for the delegate.
type HistoryDelegateStyles struct {
	Normal   lipgloss.Style
	Selected lipgloss.Style
	Subtle   lipgloss.Style
}

// NewHistoryDelegate creates a history delegate with default styles.
func NewHistoryDelegate() HistoryDelegate {
	return HistoryDelegate{
		Styles: HistoryDelegateStyles{
			Normal:   normalStyle,
			Selected: selectedStyle,
			Subtle:   subtleStyle,
		},
	}
}

func (d HistoryDelegate) Height() int { return 2 }

func (d HistoryDelegate) Spacing() int { return 1 }

func (d HistoryDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

// Render renders a single item.
func (d HistoryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	hi, ok := item.(HistoryItem)
	if !ok {
		return
	}

	width := m.Width() - 4
	if width < 10 {
		width = 10
	}

	title := hi.Item.Preview(width)
	desc := fmt.Sprintf("%s %s %s", hi.Item.Date.Local().Format(dateLayout), iconDot, filepath.Base(hi.Item.ImageURI))

	style := d.Styles.Normal
	prefix := "  "
	if index == m.Index() {
		style = d.Styles.Selected
		prefix = "> "
	}

	_, _ = fmt.Fprintf(w, "%s\n", style.Render(prefix+title))
	_, _ = fmt.Fprintf(w, "  %s", d.Styles.Subtle.Render(desc))
}
