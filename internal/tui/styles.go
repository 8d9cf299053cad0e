// Package tui implements the Bubble Tea TUI for textsnap.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/hay-kot/textsnap/internal/styles"
)

// Styles used for rendering the TUI.
var (
	// Selected item style.
	selectedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorOrange).
			Bold(true)

	// Normal item style (no color, uses terminal default).
	normalStyle = lipgloss.NewStyle()

	// Subtle text such as dates and paths.
	subtleStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray)

	// Placeholder text for empty screens.
	placeholderStyle = lipgloss.NewStyle().
				Foreground(styles.ColorGray).
				Italic(true).
				PaddingLeft(1)

	tabStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			Padding(0, 1)

	tabActiveStyle = lipgloss.NewStyle().
			Foreground(styles.ColorOrange).
			Bold(true).
			Padding(0, 1)

	noticeStyle = lipgloss.NewStyle().
			Foreground(styles.ColorRed).
			PaddingLeft(1)

	copiedStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGreen)

	helpStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			PaddingLeft(1)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(styles.ColorOrange)
)

// Modal styles.
var (
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(styles.ColorOrange).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(styles.ColorWhite)

	modalHelpStyle = lipgloss.NewStyle().
			Foreground(styles.ColorGray).
			MarginTop(1)

	modalButtonStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(styles.ColorBorder).
				Foreground(lipgloss.Color("#a9b1d6"))

	modalButtonSelectedStyle = lipgloss.NewStyle().
					Padding(0, 1).
					Background(styles.ColorOrange).
					Foreground(lipgloss.Color("#1a1b26")).
					Bold(true)
)

// Icons and symbols.
const (
	iconDot = "•"
)
