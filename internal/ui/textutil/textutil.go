// Package textutil provides unicode-aware text helpers for terminal rendering.
package textutil

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// TruncateEllipsis is appended to truncated text.
const TruncateEllipsis = "…"

// VisualWidth returns how many terminal columns s occupies.
func VisualWidth(s string) int {
	return runewidth.StringWidth(s)
}

// VisualWidthStyled is VisualWidth for strings that may contain ANSI styling.
func VisualWidthStyled(s string) int {
	return lipgloss.Width(s)
}

// Truncate cuts s to at most maxWidth columns, ending in TruncateEllipsis
// when anything was removed. Wide runes are never split.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if VisualWidth(s) <= maxWidth {
		return s
	}
	avail := maxWidth - VisualWidth(TruncateEllipsis)
	if avail < 0 {
		return TruncateEllipsis
	}
	var b strings.Builder
	w := 0
	for _, r := range s {
		rw := runewidth.RuneWidth(r)
		if w+rw > avail {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + TruncateEllipsis
}

// SingleLine collapses runs of whitespace, newlines included, into single
// spaces so a value fits in one table cell.
func SingleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
