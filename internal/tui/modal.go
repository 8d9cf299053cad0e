package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Modal represents a confirmation dialog.
type Modal struct {
	title           string
	message         string
	visible         bool
	confirmSelected bool // true = confirm button selected, false = cancel button selected
}

// NewModal creates a new modal with the given title and message. Destructive
// confirmations start with Cancel selected.
func NewModal(title, message string) Modal {
	return Modal{
		title:   title,
		message: message,
		visible: true,
	}
}

// ToggleSelection switches the selected button.
func (m *Modal) ToggleSelection() {
	m.confirmSelected = !m.confirmSelected
}

// ConfirmSelected returns true if the confirm button is selected.
func (m Modal) ConfirmSelected() bool {
	return m.confirmSelected
}

// Visible returns whether the modal should be displayed.
func (m Modal) Visible() bool {
	return m.visible
}

// Overlay renders the modal centered in a width x height area. The background
// is replaced while the modal is visible.
func (m Modal) Overlay(background string, width, height int) string {
	if !m.visible {
		return background
	}

	var confirmBtn, cancelBtn string
	if m.confirmSelected {
		confirmBtn = modalButtonSelectedStyle.Render("Delete")
		cancelBtn = modalButtonStyle.Render("Cancel")
	} else {
		confirmBtn = modalButtonStyle.Render("Delete")
		cancelBtn = modalButtonSelectedStyle.Render("Cancel")
	}

	buttons := lipgloss.JoinHorizontal(lipgloss.Center, cancelBtn, "  ", confirmBtn)
	buttonRow := lipgloss.NewStyle().MarginTop(1).Render(buttons)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		modalTitleStyle.Render(m.title),
		"",
		m.message,
		buttonRow,
		modalHelpStyle.Render("←/→ select  enter choose  esc cancel"),
	)

	modal := modalStyle.Render(content)

	if width <= 0 || height <= 0 {
		return modal
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, modal)
}
