package ui

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"booklib/internal/api"
)

const (
	fieldUsername = iota
	fieldEmail
	fieldPassword
)

// LoginModal signs a user in, or registers a new account when in register
// mode (ctrl+r toggles). A successful login saves the token in the session
// store before LoggedInMsg is sent.
type LoginModal struct {
	auth    Authenticator
	session SessionStore
	logger  *slog.Logger

	inputs   [3]textinput.Model
	focus    int
	register bool

	submitting bool
	err        string
	info       string
	task       task
}

var _ View = (*LoginModal)(nil)

// NewLoginModal creates the modal, in register mode when register is set.
func NewLoginModal(auth Authenticator, session SessionStore, register bool, logger *slog.Logger) *LoginModal {
	if logger == nil {
		logger = slog.Default()
	}
	m := &LoginModal{auth: auth, session: session, logger: logger, register: register}
	for i, ph := range [...]string{"username", "email", "password"} {
		ti := textinput.New()
		ti.Placeholder = ph
		ti.Width = 32
		ti.CharLimit = 128
		m.inputs[i] = ti
	}
	m.inputs[fieldPassword].EchoMode = textinput.EchoPassword
	m.inputs[fieldPassword].EchoCharacter = '•'
	m.inputs[fieldUsername].Focus()
	return m
}

// Registering reports whether the modal is in register mode.
func (m *LoginModal) Registering() bool { return m.register }

// Error returns the inline error, "" when none.
func (m *LoginModal) Error() string { return m.err }

// Init implements View.
func (m *LoginModal) Init() tea.Cmd {
	return textinput.Blink
}

// Close cancels a submission in flight.
func (m *LoginModal) Close() {
	m.task.stop()
}

// fields returns the inputs shown in the current mode, in tab order.
func (m *LoginModal) fields() []int {
	if m.register {
		return []int{fieldUsername, fieldEmail, fieldPassword}
	}
	return []int{fieldUsername, fieldPassword}
}

func (m *LoginModal) moveFocus(delta int) tea.Cmd {
	order := m.fields()
	pos := 0
	for i, f := range order {
		if f == m.focus {
			pos = i
		}
	}
	pos = ((pos+delta)%len(order) + len(order)) % len(order)
	return m.setFocus(order[pos])
}

func (m *LoginModal) setFocus(f int) tea.Cmd {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	return m.inputs[f].Focus()
}

// Update implements View.
func (m *LoginModal) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case authResultMsg:
		if !m.task.owns(msg.TaskID) {
			return m, nil
		}
		m.task.stop()
		m.submitting = false
		return m, m.handleResult(msg)

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			m.Close()
			return m, func() tea.Msg { return DismissModalMsg{} }
		case "ctrl+r":
			if m.submitting {
				return m, nil
			}
			m.register = !m.register
			m.err, m.info = "", ""
			return m, m.setFocus(fieldUsername)
		case "tab", "down":
			return m, m.moveFocus(1)
		case "shift+tab", "up":
			return m, m.moveFocus(-1)
		case "enter":
			if m.submitting {
				return m, nil
			}
			if m.focus != fieldPassword {
				return m, m.moveFocus(1)
			}
			return m, m.submit()
		}
	}

	if m.submitting {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *LoginModal) submit() tea.Cmd {
	username := strings.TrimSpace(m.inputs[fieldUsername].Value())
	email := strings.TrimSpace(m.inputs[fieldEmail].Value())
	password := m.inputs[fieldPassword].Value()

	m.err, m.info = "", ""
	m.submitting = true
	ctx, t := startTask()
	m.task = t
	if m.register {
		return registerCmd(ctx, m.auth, t.id, username, email, password)
	}
	return loginCmd(ctx, m.auth, t.id, username, password)
}

func (m *LoginModal) handleResult(msg authResultMsg) tea.Cmd {
	if msg.Err != nil {
		m.logger.Warn("authentication failed", "register", msg.Register, "username", msg.Username, "err", msg.Err)
		m.err = authErrorText(msg.Err, msg.Register)
		return nil
	}
	if msg.Register {
		m.register = false
		m.inputs[fieldPassword].SetValue("")
		m.info = "Account created. Log in to continue."
		return m.setFocus(fieldPassword)
	}
	if m.session != nil {
		if err := m.session.SetToken(msg.Token); err != nil {
			m.logger.Error("save auth token", "err", err)
			m.err = "Signed in, but the session could not be saved."
			return nil
		}
	}
	m.logger.Info("signed in", "username", msg.Username)
	username := msg.Username
	return func() tea.Msg { return LoggedInMsg{Username: username} }
}

// authErrorText turns an auth failure into one line for the modal.
func authErrorText(err error, register bool) string {
	var ve *api.ValidationError
	var se *api.StatusError
	var ne *api.NetworkError
	switch {
	case errors.As(err, &ve):
		parts := make([]string, 0, len(ve.Fields))
		for _, f := range []string{"username", "email", "password"} {
			if p, ok := ve.Fields[f]; ok {
				parts = append(parts, f+" "+p)
			}
		}
		if len(parts) == 0 {
			return ve.Error()
		}
		return strings.Join(parts, "; ")
	case errors.As(err, &se):
		if !register && (se.StatusCode == 401 || se.StatusCode == 400) {
			return "Invalid username or password."
		}
		if m := se.Message(); m != "" {
			return m
		}
		return "Request failed: " + se.Error()
	case errors.As(err, &ne):
		return "Could not reach the server."
	default:
		return err.Error()
	}
}

// View implements View.
func (m *LoginModal) View() string {
	title, toggle := "Log in", "ctrl+r: create an account"
	if m.register {
		title, toggle = "Create account", "ctrl+r: back to log in"
	}
	var b strings.Builder
	b.WriteString(Styles.Title.Render(title) + "\n\n")
	for _, f := range m.fields() {
		b.WriteString(m.inputs[f].View() + "\n")
	}
	switch {
	case m.submitting:
		b.WriteString("\n" + Styles.Muted.Render("Working...") + "\n")
	case m.err != "":
		b.WriteString("\n" + Styles.Error.Render(m.err) + "\n")
	case m.info != "":
		b.WriteString("\n" + Styles.Status.Render(m.info) + "\n")
	}
	b.WriteString("\n" + Styles.Hint.Render("enter: submit  tab: next field  "+toggle+"  esc: cancel"))
	return Styles.Box.Render(b.String())
}
