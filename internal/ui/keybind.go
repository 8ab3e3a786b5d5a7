package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// KeybindRegistry maps key sequences to commands.
// Sequences use spacemacs-style notation: "SPC b" is space then b.
// Single keys are written the way tea.KeyMsg.String() reports them: "r", "esc", "ctrl+c".
type KeybindRegistry struct {
	bindings     map[string]tea.Cmd
	descriptions map[string]string
	modeFilter   map[string][]ViewMode // empty = every mode
}

// NewKeybindRegistry creates an empty registry.
func NewKeybindRegistry() *KeybindRegistry {
	return &KeybindRegistry{
		bindings:     make(map[string]tea.Cmd),
		descriptions: make(map[string]string),
		modeFilter:   make(map[string][]ViewMode),
	}
}

// Bind registers seq in every mode, replacing any previous binding.
func (r *KeybindRegistry) Bind(seq string, cmd tea.Cmd, desc string) {
	r.BindForMode(seq, cmd, desc)
}

// BindForMode registers seq for the listed modes only. With no modes the
// binding is global.
func (r *KeybindRegistry) BindForMode(seq string, cmd tea.Cmd, desc string, modes ...ViewMode) {
	n := normalizeSeq(seq)
	r.bindings[n] = cmd
	if desc != "" {
		r.descriptions[n] = desc
	}
	if len(modes) > 0 {
		r.modeFilter[n] = modes
	} else {
		delete(r.modeFilter, n)
	}
}

// Lookup returns the command bound to seq in mode, or nil.
func (r *KeybindRegistry) Lookup(seq string, mode ViewMode) tea.Cmd {
	n := normalizeSeq(seq)
	if !r.appliesToMode(n, mode) {
		return nil
	}
	return r.bindings[n]
}

// HasPrefix reports whether some binding active in mode continues past seq.
func (r *KeybindRegistry) HasPrefix(seq string, mode ViewMode) bool {
	prefix := normalizeSeq(seq) + " "
	for k, cmd := range r.bindings {
		if cmd != nil && strings.HasPrefix(k, prefix) && r.appliesToMode(k, mode) {
			return true
		}
	}
	return false
}

// submenuLabel names leader keys that open a submenu rather than run a command.
var submenuLabel = map[string]string{
	"a": "Account",
	"k": "Book",
}

// LeaderHints returns the keys reachable from currentSeq (or from SPC when empty)
// in mode, each mapped to a description. Keys that open a submenu get the
// submenu's label instead.
func (r *KeybindRegistry) LeaderHints(currentSeq string, mode ViewMode) map[string]string {
	out := make(map[string]string)
	prefix := "SPC "
	if currentSeq != "" {
		prefix = normalizeSeq(currentSeq) + " "
	}
	for seq, cmd := range r.bindings {
		if cmd == nil || !strings.HasPrefix(seq, prefix) || !r.appliesToMode(seq, mode) {
			continue
		}
		rest := strings.TrimPrefix(seq, prefix)
		k, _, _ := strings.Cut(rest, " ")
		if r.HasPrefix(prefix+k, mode) {
			if label, ok := submenuLabel[k]; ok {
				out[k] = label
			} else {
				out[k] = k + "…"
			}
			continue
		}
		if d := r.descriptions[seq]; d != "" {
			out[k] = d
		} else {
			out[k] = seq
		}
	}
	return out
}

func (r *KeybindRegistry) appliesToMode(seq string, mode ViewMode) bool {
	modes, ok := r.modeFilter[seq]
	if !ok || len(modes) == 0 {
		return true
	}
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

// normalizeSeq rewrites space in any of its spellings to "SPC".
func normalizeSeq(seq string) string {
	parts := strings.Fields(seq)
	for i, p := range parts {
		parts[i] = keyToSeqPart(p)
	}
	return strings.Join(parts, " ")
}

func keyToSeqPart(s string) string {
	if s == " " || s == "space" {
		return "SPC"
	}
	return s
}

// KeyHandler tracks leader-key state and dispatches to the registry.
type KeyHandler struct {
	Registry      *KeybindRegistry
	LeaderWaiting bool
	Buffer        []string // sequence typed so far, starting with "SPC"
}

// NewKeyHandler creates a handler with SPC as leader.
func NewKeyHandler(reg *KeybindRegistry) *KeyHandler {
	return &KeyHandler{Registry: reg}
}

// Handle processes a key in mode. consumed reports whether the key belonged to
// the keybind system and must not reach the views.
func (h *KeyHandler) Handle(msg tea.KeyMsg, mode ViewMode) (consumed bool, cmd tea.Cmd) {
	s := keyToSeqPart(msg.String())

	if s == "esc" {
		if h.LeaderWaiting {
			h.Reset()
			return true, nil
		}
		return false, nil
	}

	if !h.LeaderWaiting {
		if s == "SPC" {
			h.LeaderWaiting = true
			h.Buffer = []string{"SPC"}
			return true, nil
		}
		if c := h.Registry.Lookup(s, mode); c != nil {
			return true, c
		}
		return false, nil
	}

	h.Buffer = append(h.Buffer, s)
	seq := strings.Join(h.Buffer, " ")
	if c := h.Registry.Lookup(seq, mode); c != nil {
		h.Reset()
		return true, c
	}
	if h.Registry.HasPrefix(seq, mode) {
		return true, nil
	}
	// Unknown sequence: swallow the key and leave leader mode.
	h.Reset()
	return true, nil
}

// Reset leaves leader mode.
func (h *KeyHandler) Reset() {
	h.LeaderWaiting = false
	h.Buffer = nil
}

// CurrentSeq returns the pending leader sequence, or "" outside leader mode.
func (h *KeyHandler) CurrentSeq() string {
	return strings.Join(h.Buffer, " ")
}

// KeyMap adapts the registry to bubbles/help.
type KeyMap struct {
	registry   *KeybindRegistry
	keyHandler *KeyHandler
	mode       ViewMode
}

// NewKeyMap creates a KeyMap for the given registry, handler and mode.
func NewKeyMap(registry *KeybindRegistry, keyHandler *KeyHandler, mode ViewMode) *KeyMap {
	return &KeyMap{registry: registry, keyHandler: keyHandler, mode: mode}
}

// ShortHelp returns the hints for the pending sequence, sorted by key, plus esc.
func (km *KeyMap) ShortHelp() []key.Binding {
	if km.registry == nil {
		return nil
	}
	currentSeq := ""
	if km.keyHandler != nil {
		currentSeq = km.keyHandler.CurrentSeq()
	}
	hints := km.registry.LeaderHints(currentSeq, km.mode)
	if len(hints) == 0 {
		return nil
	}
	keys := make([]string, 0, len(hints))
	for k := range hints {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bindings := make([]key.Binding, 0, len(keys)+1)
	for _, k := range keys {
		bindings = append(bindings, key.NewBinding(key.WithKeys(k), key.WithHelp(k, hints[k])))
	}
	return append(bindings, key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")))
}

// FullHelp returns ShortHelp as a single column.
func (km *KeyMap) FullHelp() [][]key.Binding {
	short := km.ShortHelp()
	if len(short) == 0 {
		return nil
	}
	return [][]key.Binding{short}
}
