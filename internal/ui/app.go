package ui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Deps are the services the app talks to. Any of them may be nil in tests.
type Deps struct {
	Catalog Catalog
	Auth    Authenticator
	Session SessionStore
	Modes   ModeStore
	Logger  *slog.Logger
}

// AppModel is the root model: a top bar over either the home screen or the
// book browser, with modals stacked on top.
type AppModel struct {
	State      *ViewState
	TopBar     *TopBar
	Home       *HomeView
	Table      *BookTableView // nil unless browsing
	Overlays   OverlayStack
	Focus      *FocusManager
	KeyHandler *KeyHandler

	catalog Catalog
	auth    Authenticator
	session SessionStore
	logger  *slog.Logger

	status    string
	statusErr bool
	width     int
	height    int
}

var _ tea.Model = (*appModelAdapter)(nil)

// appModelAdapter wraps AppModel to implement tea.Model.
type appModelAdapter struct {
	*AppModel
}

// NewAppModel creates the root model. The starting screen is restored from deps.Modes.
func NewAppModel(deps Deps) *AppModel {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := &AppModel{
		State:   NewViewState(deps.Modes, logger),
		TopBar:  NewTopBar(),
		Home:    NewHomeView(),
		Focus:   NewFocusManager(FocusContent, FocusSearch),
		catalog: deps.Catalog,
		auth:    deps.Auth,
		session: deps.Session,
		logger:  logger,
	}
	reg := NewKeybindRegistry()
	m.registerKeybinds(reg)
	m.KeyHandler = NewKeyHandler(reg)
	return m
}

// registerKeybinds installs the global and per-screen bindings.
func (m *AppModel) registerKeybinds(reg *KeybindRegistry) {
	emit := func(msg tea.Msg) tea.Cmd { return func() tea.Msg { return msg } }

	reg.Bind("q", tea.Quit, "Quit")
	reg.Bind("SPC q", tea.Quit, "Quit")
	reg.Bind("/", emit(FocusSearchMsg{}), "Search")
	reg.Bind("SPC /", emit(FocusSearchMsg{}), "Search")
	reg.Bind("SPC b", emit(BrowseMsg{}), "Browse books")
	reg.Bind("SPC h", emit(HomeMsg{}), "Home")
	reg.Bind("SPC a l", emit(ShowLoginMsg{}), "Log in")
	reg.Bind("SPC a r", emit(ShowLoginMsg{Register: true}), "Register")
	reg.Bind("SPC a o", emit(LogoutMsg{}), "Log out")
	reg.BindForMode("SPC k d", emit(ShowDeleteBookMsg{}), "Delete book", ViewBrowse)
	reg.BindForMode("SPC k r", emit(RecheckBookMsg{}), "Recheck metadata", ViewBrowse)
}

// AsTeaModel returns a tea.Model adapter for use with tea.NewProgram.
func (m *AppModel) AsTeaModel() tea.Model {
	return &appModelAdapter{AppModel: m}
}

// SignedIn reports whether a token is stored.
func (m *AppModel) SignedIn() bool {
	if m.session == nil {
		return false
	}
	_, ok := m.session.Token()
	return ok
}

// Status returns the status line text.
func (m *AppModel) Status() string { return m.status }

// Init implements tea.Model. A browse mode restored from the previous run
// loads the catalog straight away.
func (a *appModelAdapter) Init() tea.Cmd {
	a.TopBar.Mode = a.State.Mode()
	if a.State.Mode() == ViewBrowse {
		return a.ensureTable()
	}
	return a.Home.Init()
}

// Update implements tea.Model.
func (a *appModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		return a, a.handleKey(msg)

	case booksLoadedMsg:
		if a.Table == nil {
			return a, nil
		}
		_, cmd := a.Table.Update(msg)
		return a, cmd
	case bookDetailLoadedMsg, authResultMsg:
		return a, a.Overlays.Broadcast(msg)
	case spinner.TickMsg:
		// Spinners ignore ticks that carry another spinner's id.
		var cmds []tea.Cmd
		if a.Table != nil {
			_, cmd := a.Table.Update(msg)
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, a.Overlays.Broadcast(msg))
		return a, tea.Batch(cmds...)

	case BrowseMsg:
		return a, a.browse()
	case HomeMsg:
		return a, a.home()
	case SearchMsg:
		return a, a.search(msg.Query)
	case FocusSearchMsg:
		a.Focus.SetFocus(FocusSearch)
		return a, a.TopBar.Search.Focus()

	case OpenBookDetailMsg:
		return a, a.openBookDetail(msg.BookID)
	case CloseBookDetailMsg, DismissModalMsg:
		a.dismissTop()
		return a, nil
	case ShowDeleteBookMsg:
		return a, a.showDeleteBook()
	case DeleteBookMsg:
		a.dismissTop()
		return a, a.deleteBook(msg)
	case RecheckBookMsg:
		return a, a.recheckBook()
	case bookActionDoneMsg:
		return a, a.handleBookAction(msg)

	case ShowLoginMsg:
		return a, a.showLogin(msg.Register)
	case LoggedInMsg:
		return a, a.handleLoggedIn(msg)
	case LogoutMsg:
		return a, a.logout()

	case StatusMsg:
		a.status, a.statusErr = msg.Text, msg.Error
		return a, nil
	}
	return a, nil
}

// handleKey routes a key: quit, then the top modal, then the focused search
// bar, then the keybind system, then the current screen.
func (a *appModelAdapter) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}

	if top, ok := a.Overlays.Peek(); ok {
		if top.IsDismissKey(msg.String()) {
			a.dismissTop()
			return nil
		}
		cmd, _ := a.Overlays.UpdateTop(msg)
		return cmd
	}

	if a.Focus.Is(FocusSearch) {
		if msg.String() == "esc" {
			a.blurSearch()
			return nil
		}
		return a.TopBar.Search.Update(msg)
	}

	if consumed, cmd := a.KeyHandler.Handle(msg, a.State.Mode()); consumed {
		return cmd
	}

	if a.State.Mode() == ViewBrowse && a.Table != nil {
		_, cmd := a.Table.Update(msg)
		return cmd
	}
	_, cmd := a.Home.Update(msg)
	return cmd
}

func (a *appModelAdapter) blurSearch() {
	a.TopBar.Search.Blur()
	a.Focus.SetFocus(FocusContent)
}

// dismissTop closes the top modal, cancelling any request it owns.
func (a *appModelAdapter) dismissTop() {
	top, ok := a.Overlays.Pop()
	if !ok {
		return
	}
	if c, ok := top.View.(closer); ok {
		c.Close()
	}
}

// pushModal opens v above the screen and starts it.
func (a *appModelAdapter) pushModal(v View, dismiss string) tea.Cmd {
	if s, ok := v.(Sizable); ok && a.width > 0 {
		s.SetSize(a.width, a.height)
	}
	a.Overlays.Push(Overlay{View: v, Dismiss: dismiss})
	return v.Init()
}

func (a *appModelAdapter) resize(width, height int) {
	a.width, a.height = width, height
	a.TopBar.SetWidth(width)
	if a.Table != nil {
		a.Table.SetSize(width, a.bodyHeight())
	}
	for _, o := range a.Overlays.Stack {
		if s, ok := o.View.(Sizable); ok {
			s.SetSize(width, height)
		}
	}
}

// bodyHeight is the height left for the screen under the top bar and status line.
func (a *appModelAdapter) bodyHeight() int {
	return max(a.height-4, 0)
}

func (a *appModelAdapter) setStatus(text string, isErr bool) {
	a.status, a.statusErr = text, isErr
}

// View implements tea.Model.
func (a *appModelAdapter) View() string {
	a.TopBar.Mode = a.State.Mode()
	a.TopBar.SignedIn = a.SignedIn()

	body := a.Home.View()
	if a.State.Mode() == ViewBrowse && a.Table != nil {
		body = a.Table.View()
	}
	if top, ok := a.Overlays.Peek(); ok {
		modal := top.View.View()
		if a.width > 0 && a.height > 0 {
			body = lipgloss.Place(a.width, a.bodyHeight(), lipgloss.Center, lipgloss.Center, modal,
				lipgloss.WithWhitespaceChars(" "))
		} else {
			body = modal
		}
	}

	parts := []string{a.TopBar.View(), body}
	if help := RenderKeybindHelp(a.KeyHandler, a.State.Mode()); help != "" {
		parts = append(parts, help)
	} else if a.status != "" {
		style := Styles.Status
		if a.statusErr {
			style = Styles.Error
		}
		parts = append(parts, style.Render(a.status))
	}
	return strings.Join(parts, "\n")
}
