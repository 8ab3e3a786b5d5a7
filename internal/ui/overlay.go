package ui

import tea "github.com/charmbracelet/bubbletea"

// Overlay is a modal drawn over the current screen.
type Overlay struct {
	View    View
	Dismiss string // key that closes it without going through the view, "" for none
}

// IsDismissKey reports whether key closes this overlay.
func (o *Overlay) IsDismissKey(key string) bool {
	return o.Dismiss != "" && key == o.Dismiss
}

// OverlayStack holds open modals; the top one receives input first.
type OverlayStack struct {
	Stack []Overlay
}

// Push adds an overlay to the top of the stack.
func (s *OverlayStack) Push(o Overlay) {
	s.Stack = append(s.Stack, o)
}

// Pop removes and returns the top overlay.
func (s *OverlayStack) Pop() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	top := s.Stack[len(s.Stack)-1]
	s.Stack = s.Stack[:len(s.Stack)-1]
	return top, true
}

// Peek returns the top overlay without removing it.
func (s *OverlayStack) Peek() (Overlay, bool) {
	if len(s.Stack) == 0 {
		return Overlay{}, false
	}
	return s.Stack[len(s.Stack)-1], true
}

// Len returns the number of open overlays.
func (s *OverlayStack) Len() int {
	return len(s.Stack)
}

// UpdateTop passes msg to the top overlay and stores the updated view.
// The caller runs the returned cmd.
func (s *OverlayStack) UpdateTop(msg tea.Msg) (tea.Cmd, bool) {
	if len(s.Stack) == 0 {
		return nil, false
	}
	top := &s.Stack[len(s.Stack)-1]
	newView, cmd := top.View.Update(msg)
	top.View = newView
	return cmd, true
}

// Broadcast passes msg to every overlay, bottom first. Used for async results,
// which may belong to an overlay that isn't on top.
func (s *OverlayStack) Broadcast(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range s.Stack {
		v, cmd := s.Stack[i].View.Update(msg)
		s.Stack[i].View = v
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// Clear closes every overlay, calling Close on those that hold a request.
func (s *OverlayStack) Clear() {
	for _, o := range s.Stack {
		if c, ok := o.View.(closer); ok {
			c.Close()
		}
	}
	s.Stack = nil
}

// closer is implemented by views that own an in-flight request.
type closer interface {
	Close()
}
