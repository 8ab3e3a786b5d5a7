package ui

import "strings"

// ViewMode is the top-level screen: the home page or the catalog browser.
type ViewMode int

const (
	ViewHome ViewMode = iota
	ViewBrowse
)

func (m ViewMode) String() string {
	switch m {
	case ViewHome:
		return "home"
	case ViewBrowse:
		return "browse"
	default:
		return "unknown"
	}
}

// ParseViewMode parses the persisted form of a mode.
func ParseViewMode(s string) (ViewMode, bool) {
	switch strings.TrimSpace(s) {
	case "home":
		return ViewHome, true
	case "browse":
		return ViewBrowse, true
	default:
		return ViewHome, false
	}
}
