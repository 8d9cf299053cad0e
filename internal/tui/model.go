package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/hay-kot/textsnap/internal/core/capture"
	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/internal/core/history"
	"github.com/hay-kot/textsnap/internal/styles"
)

// UIState represents the current state of the TUI.
type UIState int

const (
	stateNormal UIState = iota
	stateConfirming
)

// Key constants for event handling.
const (
	keyEnter = "enter"
	keyEsc   = "esc"
	keyCtrlC = "ctrl+c"
	keyTab   = "tab"
)

// copiedDuration is how long the copied indicator stays visible.
const copiedDuration = 1500 * time.Millisecond

// Layout: banner (4 lines) + tab bar + blank line above content, blank line +
// notice + help below.
const (
	headerHeight = 6
	footerHeight = 3
)

// Options configures the TUI.
type Options struct {
	Store       *history.Store
	Pipeline    *capture.Pipeline
	Sources     []ScanSource
	Keybindings map[string]config.Keybinding
	// CopyText writes text to the system clipboard.
	CopyText func(string) error
	Logger   zerolog.Logger
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	ctx      context.Context
	cancel   context.CancelFunc
	store    *history.Store
	pipeline *capture.Pipeline
	sources  []ScanSource
	handler  *KeybindingHandler
	log      zerolog.Logger

	list    list.Model
	spinner spinner.Model
	modal   Modal
	pending Action
	state   UIState
	view    ViewType
	width   int
	height  int

	// current is the result on screen. ID is empty for results not loaded
	// from history.
	current  history.Item
	busy     bool
	copied   bool
	notice   string
	quitting bool
}

// actionCompleteMsg is sent when an action completes.
type actionCompleteMsg struct {
	action Action
	err    error
}

// copiedResetMsg hides the copied indicator.
type copiedResetMsg struct{}

// New creates a new TUI model. The context is cancelled when the TUI quits.
func New(ctx context.Context, opts Options) Model {
	ctx, cancel := context.WithCancel(ctx)

	l := list.New([]list.Item{}, NewHistoryDelegate(), 0, 0)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.FilterInput.Prompt = "Filter: "

	handler := NewKeybindingHandler(opts.Keybindings, opts.Store, opts.CopyText)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := Model{
		ctx:      ctx,
		cancel:   cancel,
		store:    opts.Store,
		pipeline: opts.Pipeline,
		sources:  opts.Sources,
		handler:  handler,
		log:      opts.Logger,
		list:     l,
		spinner:  s,
		state:    stateNormal,
		view:     ViewResult,
	}
	m.setItems(opts.Store.List())

	return m
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) setItems(items []history.Item) {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = HistoryItem{Item: item}
	}
	_ = m.list.SetItems(listItems)
}

// setNotice shows err to the user. Cancellation clears the notice instead.
func (m *Model) setNotice(err error) {
	if err == nil || errors.Is(err, capture.ErrCancelled) {
		m.notice = ""
		return
	}

	m.log.Debug().Err(err).Msg("surfacing error")
	m.notice = errorText(err)
}

// errorText renders err for the notice line.
func errorText(err error) string {
	msg := err.Error()

	var permErr *capture.PermissionError
	if errors.As(err, &permErr) && permErr.Settings {
		msg += fmt.Sprintf(" (run `textsnap permissions grant %s`)", permErr.Permission)
	}

	return msg
}

// target returns the entry keybinding actions apply to.
func (m Model) target() history.Item {
	if m.view == ViewHistory {
		if hi, ok := m.list.SelectedItem().(HistoryItem); ok {
			return hi.Item
		}
		return history.Item{}
	}
	return m.current
}

// executeAction returns a command that executes the given action.
func (m Model) executeAction(action Action) tea.Cmd {
	return func() tea.Msg {
		err := m.handler.Execute(m.ctx, action)
		return actionCompleteMsg{action: action, err: err}
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		contentHeight := msg.Height - headerHeight - footerHeight
		if contentHeight < 1 {
			contentHeight = 1
		}
		m.list.SetSize(msg.Width, contentHeight)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case acquiredMsg:
		if msg.err != nil {
			m.busy = false
			m.setNotice(msg.err)
			return m, nil
		}
		m.current = history.Item{ImageURI: msg.job.ImageURI(), Text: history.Placeholder}
		return m, tea.Batch(m.spinner.Tick, finish(m.ctx, msg.job))

	case processedMsg:
		m.busy = false
		m.current = history.Item{}
		if msg.res.Text != "" {
			m.current = history.Item{ImageURI: msg.res.ImageURI, Text: msg.res.Text}
			if len(msg.res.History) > 0 && msg.res.History[0].Text == msg.res.Text {
				m.current = msg.res.History[0]
			}
		}
		m.setItems(m.store.List())
		m.setNotice(msg.err)
		return m, nil

	case actionCompleteMsg:
		m.setItems(m.store.List())
		if msg.err != nil {
			m.setNotice(msg.err)
			return m, nil
		}
		switch msg.action.Type {
		case ActionTypeCopy:
			m.copied = true
			return m, tea.Tick(copiedDuration, func(time.Time) tea.Msg { return copiedResetMsg{} })
		case ActionTypeClear:
			m.view = ViewResult
		}
		return m, nil

	case copiedResetMsg:
		m.copied = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.view == ViewHistory {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if k == keyCtrlC {
		return m.quit()
	}

	if m.state == stateConfirming {
		return m.handleConfirmKey(k)
	}

	if m.view == ViewHistory && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch k {
	case "q":
		return m.quit()
	case keyTab:
		if m.view == ViewHistory {
			m.view = ViewResult
		} else {
			m.view = ViewHistory
		}
		return m, nil
	case keyEnter:
		if m.view == ViewHistory {
			return m.openSelected(), nil
		}
	case keyEsc, "x":
		if m.view == ViewResult && !m.busy {
			m.current = history.Item{}
			m.notice = ""
			return m, nil
		}
	}

	for _, src := range m.sources {
		if src.Key == k {
			return m.startScan(src.Source)
		}
	}

	if action, ok := m.handler.Resolve(k, m.target()); ok {
		if action.NeedsConfirm() {
			m.pending = action
			m.modal = NewModal(confirmTitle(action), action.Confirm)
			m.state = stateConfirming
			return m, nil
		}
		return m, m.executeAction(action)
	}

	if m.view == ViewHistory {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleConfirmKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "left", "right", "h", "l", keyTab:
		m.modal.ToggleSelection()
		return m, nil
	case keyEnter, "y":
		confirmed := k == "y" || m.modal.ConfirmSelected()
		action := m.pending
		m.pending = Action{}
		m.state = stateNormal
		if confirmed {
			return m, m.executeAction(action)
		}
		return m, nil
	case keyEsc, "n", "q":
		m.pending = Action{}
		m.state = stateNormal
		return m, nil
	}
	return m, nil
}

// openSelected shows the selected history entry. Blocked while processing.
func (m Model) openSelected() Model {
	if m.busy {
		return m
	}
	hi, ok := m.list.SelectedItem().(HistoryItem)
	if !ok {
		return m
	}
	m.current = hi.Item
	m.view = ViewResult
	m.notice = ""
	return m
}

func (m Model) startScan(src capture.Source) (tea.Model, tea.Cmd) {
	if m.busy || m.pipeline.Status() == capture.StateBusy {
		m.setNotice(capture.ErrBusy)
		return m, nil
	}

	m.busy = true
	m.view = ViewResult
	m.notice = ""
	m.copied = false

	return m, acquire(m.ctx, m.pipeline, src)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

func confirmTitle(a Action) string {
	switch a.Type {
	case ActionTypeClear:
		return "Clear history"
	case ActionTypeDelete:
		return "Delete entry"
	default:
		return "Confirm"
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	if m.view == ViewHistory {
		content = m.historyView()
	} else {
		content = m.resultView()
	}

	out := lipgloss.JoinVertical(lipgloss.Left,
		styles.BannerStyle.PaddingLeft(1).Render(styles.Banner),
		m.tabsView(),
		"",
		content,
		"",
		m.noticeView(),
		m.helpView(),
	)

	if m.state == stateConfirming {
		return m.modal.Overlay(out, m.width, m.height)
	}

	return out
}

func (m Model) tabsView() string {
	result, hist := tabStyle, tabStyle
	if m.view == ViewHistory {
		hist = tabActiveStyle
	} else {
		result = tabActiveStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		result.Render("Result"),
		hist.Render(fmt.Sprintf("History (%d/%d)", len(m.list.Items()), m.store.MaxItems())),
	)
}

func (m Model) resultView() string {
	if m.busy && (m.current.Text == "" || history.IsPlaceholder(m.current.Text)) {
		lines := []string{" " + m.spinner.View() + " " + history.Placeholder}
		if m.current.ImageURI != "" {
			lines = append(lines, " "+subtleStyle.Render(m.current.ImageURI))
		}
		return strings.Join(lines, "\n")
	}

	if m.current.Text == "" {
		hints := make([]string, 0, len(m.sources))
		for _, src := range m.sources {
			hints = append(hints, fmt.Sprintf("%s for %s", src.Key, src.Help))
		}
		return placeholderStyle.Render("Choose an image to recognize: " + strings.Join(hints, ", ") + ".")
	}

	label := styles.LabelStyle.Render("RECOGNIZED TEXT")
	if m.copied {
		label += "  " + copiedStyle.Render("✔ copied")
	}

	box := styles.ResultBoxStyle
	if m.width > 4 {
		box = box.Width(m.width - 4)
	}

	meta := m.current.ImageURI
	if !m.current.Date.IsZero() {
		meta = m.current.Date.Local().Format(dateLayout) + " " + iconDot + " " + meta
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		" "+label,
		box.MarginLeft(1).Render(m.current.Text),
		" "+subtleStyle.Render(meta),
	)
}

func (m Model) historyView() string {
	if len(m.list.Items()) == 0 {
		return placeholderStyle.Render("History is empty.")
	}
	return m.list.View()
}

func (m Model) noticeView() string {
	if m.notice == "" {
		return ""
	}
	return noticeStyle.Render("✘ " + m.notice)
}

func (m Model) helpView() string {
	bindings := make([]key.Binding, 0, len(m.sources)+8)
	for _, src := range m.sources {
		bindings = append(bindings, key.NewBinding(key.WithKeys(src.Key), key.WithHelp(src.Key, src.Help)))
	}
	bindings = append(bindings, key.NewBinding(key.WithKeys(keyTab), key.WithHelp(keyTab, "history")))
	bindings = append(bindings, m.handler.KeyBindings()...)
	bindings = append(bindings, key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")))

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}

	return helpStyle.Render(strings.Join(parts, " "+iconDot+" "))
}
