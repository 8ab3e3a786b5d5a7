package ui

// Focus targets inside the main screen.
const (
	FocusContent = "content"
	FocusSearch  = "search"
)

// FocusManager tracks which region receives plain keys and rotates through them.
type FocusManager struct {
	Current  string
	Order    []string
	OnChange func(from, to string)
}

// NewFocusManager starts focused on the first id in order.
func NewFocusManager(order ...string) *FocusManager {
	f := &FocusManager{Order: order}
	if len(order) > 0 {
		f.Current = order[0]
	}
	return f
}

// Is reports whether id has focus.
func (f *FocusManager) Is(id string) bool {
	return f.Current == id
}

// Next moves focus forward and returns the new id.
func (f *FocusManager) Next() string {
	return f.step(1)
}

// Prev moves focus backward and returns the new id.
func (f *FocusManager) Prev() string {
	return f.step(-1)
}

func (f *FocusManager) step(delta int) string {
	n := len(f.Order)
	if n == 0 {
		return ""
	}
	idx := 0
	for i, id := range f.Order {
		if id == f.Current {
			idx = i
			break
		}
	}
	f.change(f.Order[((idx+delta)%n+n)%n])
	return f.Current
}

// SetFocus focuses id. Returns false if id is not in Order.
func (f *FocusManager) SetFocus(id string) bool {
	for _, o := range f.Order {
		if o == id {
			f.change(id)
			return true
		}
	}
	return false
}

func (f *FocusManager) change(to string) {
	from := f.Current
	f.Current = to
	if f.OnChange != nil && from != to {
		f.OnChange(from, to)
	}
}
