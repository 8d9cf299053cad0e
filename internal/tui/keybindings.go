package tui

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"github.com/hay-kot/textsnap/internal/core/config"
	"github.com/hay-kot/textsnap/internal/core/history"
)

// errNothingToCopy is returned when copy is triggered without a result.
var errNothingToCopy = errors.New("nothing to copy")

// ActionType identifies the kind of action a keybinding triggers.
type ActionType int

const (
	ActionTypeNone ActionType = iota
	ActionTypeDelete
	ActionTypeClear
	ActionTypeCopy
)

// Action represents a resolved keybinding action ready for execution.
type Action struct {
	Type    ActionType
	Key     string
	Help    string
	Confirm string // Non-empty if confirmation required
	ItemID  string
	Text    string
}

// NeedsConfirm returns true if the action requires user confirmation.
func (a Action) NeedsConfirm() bool {
	return a.Confirm != ""
}

// KeybindingHandler resolves keybindings to actions.
type KeybindingHandler struct {
	keybindings map[string]config.Keybinding
	store       *history.Store
	copyText    func(string) error
}

// NewKeybindingHandler creates a new handler. copyText writes to the system
// clipboard.
func NewKeybindingHandler(keybindings map[string]config.Keybinding, store *history.Store, copyText func(string) error) *KeybindingHandler {
	return &KeybindingHandler{
		keybindings: keybindings,
		store:       store,
		copyText:    copyText,
	}
}

// Resolve attempts to resolve a key press to an action for the given item.
// Item may be zero when no entry is focused.
func (h *KeybindingHandler) Resolve(key string, item history.Item) (Action, bool) {
	kb, exists := h.keybindings[key]
	if !exists {
		return Action{}, false
	}

	action := Action{
		Key:     key,
		Help:    kb.Help,
		Confirm: kb.Confirm,
		ItemID:  item.ID,
		Text:    item.Text,
	}

	switch kb.Action {
	case config.ActionDelete:
		if item.ID == "" {
			return Action{}, false
		}
		action.Type = ActionTypeDelete
	case config.ActionClear:
		action.Type = ActionTypeClear
		action.ItemID = ""
	case config.ActionCopy:
		if item.Text == "" || history.IsPlaceholder(item.Text) {
			return Action{}, false
		}
		action.Type = ActionTypeCopy
		action.Confirm = ""
	default:
		return Action{}, false
	}

	if action.Help == "" {
		action.Help = kb.Action
	}

	return action, true
}

// Execute runs the given action.
func (h *KeybindingHandler) Execute(ctx context.Context, action Action) error {
	switch action.Type {
	case ActionTypeDelete:
		_, err := h.store.Delete(ctx, action.ItemID)
		return err
	case ActionTypeClear:
		return h.store.Clear(ctx)
	case ActionTypeCopy:
		if action.Text == "" {
			return errNothingToCopy
		}
		if err := h.copyText(action.Text); err != nil {
			return fmt.Errorf("copy text: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("action type %d not supported by Execute", action.Type)
	}
}

// HelpEntries returns all configured keybindings for display, sorted by key.
func (h *KeybindingHandler) HelpEntries() []string {
	keys := slices.Sorted(maps.Keys(h.keybindings))

	entries := make([]string, 0, len(h.keybindings))
	for _, key := range keys {
		entries = append(entries, fmt.Sprintf("[%s] %s", key, h.help(key)))
	}
	return entries
}

// HelpString returns a formatted help string for all keybindings.
func (h *KeybindingHandler) HelpString() string {
	return strings.Join(h.HelpEntries(), "  ")
}

// KeyBindings returns key.Binding objects for integration with bubbles help system.
func (h *KeybindingHandler) KeyBindings() []key.Binding {
	keys := slices.Sorted(maps.Keys(h.keybindings))
	bindings := make([]key.Binding, 0, len(keys))

	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(
			key.WithKeys(k),
			key.WithHelp(k, h.help(k)),
		))
	}

	return bindings
}

func (h *KeybindingHandler) help(key string) string {
	kb := h.keybindings[key]
	if kb.Help != "" {
		return kb.Help
	}
	return kb.Action
}
