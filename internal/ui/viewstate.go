package ui

import "log/slog"

// ModeStore persists the current screen between runs.
type ModeStore interface {
	ViewMode() (string, bool)
	SetViewMode(mode string) error
}

// ViewState holds the current screen and mirrors every transition into a ModeStore
// so the next start restores it.
type ViewState struct {
	mode   ViewMode
	store  ModeStore
	logger *slog.Logger
}

// NewViewState restores the persisted mode, falling back to home when the
// stored value is missing or not a known mode.
func NewViewState(store ModeStore, logger *slog.Logger) *ViewState {
	if logger == nil {
		logger = slog.Default()
	}
	vs := &ViewState{mode: ViewHome, store: store, logger: logger}
	if store == nil {
		return vs
	}
	if raw, ok := store.ViewMode(); ok {
		if m, valid := ParseViewMode(raw); valid {
			vs.mode = m
		} else {
			logger.Warn("ignoring unknown persisted view mode", "value", raw)
		}
	}
	return vs
}

// Mode returns the current screen.
func (v *ViewState) Mode() ViewMode {
	return v.mode
}

// Browse switches to the catalog. Browse while already browsing is a no-op
// apart from re-persisting the value.
func (v *ViewState) Browse() error {
	return v.set(ViewBrowse)
}

// Home switches to the home screen.
func (v *ViewState) Home() error {
	return v.set(ViewHome)
}

// set changes the mode even if persisting it fails, so the session keeps working.
func (v *ViewState) set(m ViewMode) error {
	v.mode = m
	if v.store == nil {
		return nil
	}
	if err := v.store.SetViewMode(m.String()); err != nil {
		v.logger.Error("persist view mode", "mode", m, "err", err)
		return err
	}
	return nil
}
