// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Tokyo Night color palette.
var (
	ColorGreen  = lipgloss.Color("#9ece6a")
	ColorYellow = lipgloss.Color("#e0af68")
	ColorOrange = lipgloss.Color("#ff9e64")
	ColorRed    = lipgloss.Color("#f7768e")
	ColorBlue   = lipgloss.Color("#7aa2f7")
	ColorGray   = lipgloss.Color("#565f89")
	ColorWhite  = lipgloss.Color("#c0caf5")
	ColorBorder = lipgloss.Color("#3b4261")
)

// Banner ASCII art for the header.
const Banner = `
 ╺┳╸┏━╸╻ ╻╺┳╸┏━┓┏┓╻┏━┓┏━┓
  ┃ ┣╸ ┏╋┛ ┃ ┗━┓┃┗┫┣━┫┣━┛
  ╹ ┗━╸╹ ╹ ╹ ┗━┛╹ ╹╹ ╹╹  `

// BannerStyle styles the ASCII art banner.
var BannerStyle = lipgloss.NewStyle().
	Foreground(ColorOrange).
	Bold(true)

// LabelStyle styles small uppercase labels such as "RECOGNIZED TEXT".
var LabelStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Bold(true)

// ResultBoxStyle frames recognized text.
var ResultBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder).
	Foreground(ColorWhite).
	Padding(0, 1)

// DividerStyle styles horizontal dividers.
var DividerStyle = lipgloss.NewStyle().
	Foreground(ColorGray)

// FormTheme returns the huh theme used by interactive prompts.
func FormTheme() *huh.Theme {
	t := huh.ThemeCharm()

	t.Focused.Title = t.Focused.Title.Foreground(ColorOrange)
	t.Focused.Description = t.Focused.Description.Foreground(ColorGray)
	t.Focused.SelectSelector = t.Focused.SelectSelector.Foreground(ColorOrange)
	t.Focused.SelectedOption = t.Focused.SelectedOption.Foreground(ColorGreen)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorOrange).Foreground(lipgloss.Color("#1a1b26"))
	t.Focused.Base = t.Focused.Base.BorderForeground(ColorBorder)

	t.Blurred.Title = t.Blurred.Title.Foreground(ColorGray)

	return t
}
