package tui

// ViewType represents which view is active.
type ViewType int

const (
	ViewResult ViewType = iota
	ViewHistory
)
