// Package ui is the BookLib terminal interface, built on Bubble Tea.
//
// The root App renders a top bar and either the home screen or the book
// browser, chosen by a persisted ViewState. Modals (book detail, login,
// confirmation) live on an OverlayStack above the screen.
//
// Data-bound views load through tea.Cmd and own a task per request. Every
// result message carries the task id, and a view drops results for a task it
// no longer owns, so closing a view or retrying never applies a stale answer.
//
// Global actions use a SPC leader, e.g. "SPC b" to browse; see App.registerKeybinds.
package ui
