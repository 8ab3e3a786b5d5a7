package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"booklib/internal/api"
	"booklib/internal/logging"
	"booklib/internal/state"
)

type testApp struct {
	*appModelAdapter
	catalog *fakeCatalog
	store   *state.Store
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	return newTestAppWithStore(t, newSessionStore(t))
}

func newTestAppWithStore(t *testing.T, st *state.Store) *testApp {
	t.Helper()
	cat := &fakeCatalog{
		books: sampleBooks(),
		full:  map[int64]*api.FullBook{42: ratedBook()},
	}
	m := NewAppModel(Deps{
		Catalog: cat,
		Auth:    &fakeAuth{user: "alice", pass: "s3cret", token: "tok-1"},
		Session: st,
		Modes:   st,
		Logger:  logging.Discard(),
	})
	a := m.AsTeaModel().(*appModelAdapter)
	a.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return &testApp{appModelAdapter: a, catalog: cat, store: st}
}

// send delivers msg and returns the messages its command produces.
func (a *testApp) send(msg tea.Msg) []tea.Msg {
	_, cmd := a.Update(msg)
	return collectMsgs(cmd)
}

// keys presses each key in order and returns the messages of the last one.
func (a *testApp) keys(ks ...string) []tea.Msg {
	var out []tea.Msg
	for _, k := range ks {
		out = a.send(keyMsg(k))
	}
	return out
}

// browseLoaded switches to browse and delivers the catalog.
func (a *testApp) browseLoaded(t *testing.T) {
	t.Helper()
	msg, ok := findMsg[booksLoadedMsg](a.send(BrowseMsg{}))
	if !ok {
		t.Fatal("browse did not load the catalog")
	}
	a.send(msg)
}

func TestApp_LeaderBrowseSwitchesAndPersists(t *testing.T) {
	a := newTestApp(t)
	out := a.keys(" ", "b")
	if _, ok := findMsg[BrowseMsg](out); !ok {
		t.Fatalf("SPC b produced %v", out)
	}
	a.browseLoaded(t)

	if a.State.Mode() != ViewBrowse {
		t.Errorf("Mode() = %v", a.State.Mode())
	}
	if got, _ := a.store.ViewMode(); got != "browse" {
		t.Errorf("persisted mode = %q", got)
	}
	if !strings.Contains(a.View(), "All Books (3)") {
		t.Error("expected the book table on screen")
	}
}

func TestApp_BrowseTwiceReadsCatalogOnce(t *testing.T) {
	a := newTestApp(t)
	a.browseLoaded(t)
	if out := a.send(BrowseMsg{}); len(out) != 0 {
		t.Errorf("second browse should not reload, got %v", out)
	}
	if a.catalog.listCalls != 1 {
		t.Errorf("ListBooks calls = %d", a.catalog.listCalls)
	}
	if got, _ := a.store.ViewMode(); got != "browse" {
		t.Errorf("persisted mode = %q", got)
	}
}

func TestApp_HomeDropsTableAndLateResult(t *testing.T) {
	a := newTestApp(t)
	msg, _ := findMsg[booksLoadedMsg](a.send(BrowseMsg{}))
	a.send(HomeMsg{})

	if a.Table != nil {
		t.Error("table should be dropped on home")
	}
	if got, _ := a.store.ViewMode(); got != "home" {
		t.Errorf("persisted mode = %q", got)
	}
	a.send(msg)
	if !strings.Contains(a.View(), "Welcome to BookLib") {
		t.Error("late catalog result must not change the home screen")
	}
}

func TestApp_RestoresBrowseOnStart(t *testing.T) {
	st := newSessionStore(t)
	if err := st.SetViewMode("browse"); err != nil {
		t.Fatal(err)
	}
	a := newTestAppWithStore(t, st)
	if _, ok := findMsg[booksLoadedMsg](collectMsgs(a.Init())); !ok {
		t.Error("restored browse mode should load the catalog on start")
	}
}

func TestApp_DetailIsRefetchedPerBook(t *testing.T) {
	a := newTestApp(t)
	a.browseLoaded(t)

	open, ok := findMsg[OpenBookDetailMsg](a.keys("enter"))
	if !ok || open.BookID != 42 {
		t.Fatalf("enter on first row = %+v", open)
	}
	loaded, ok := findMsg[bookDetailLoadedMsg](a.send(open))
	if !ok {
		t.Fatal("opening detail did not fetch")
	}
	a.send(loaded)
	if !strings.Contains(a.View(), "Reviews (1)") {
		t.Error("expected book detail on screen")
	}

	closeMsg, ok := findMsg[CloseBookDetailMsg](a.keys("esc"))
	if !ok {
		t.Fatal("esc did not close the detail")
	}
	a.send(closeMsg)
	if a.Overlays.Len() != 0 {
		t.Fatalf("overlays = %d after close", a.Overlays.Len())
	}

	open, _ = findMsg[OpenBookDetailMsg](a.keys("down", "enter"))
	if open.BookID != 7 {
		t.Fatalf("second row id = %d", open.BookID)
	}
	if _, ok := findMsg[bookDetailLoadedMsg](a.send(open)); !ok {
		t.Fatal("reopening did not fetch")
	}
	if got := a.catalog.fullCalls; len(got) != 2 || got[0] != 42 || got[1] != 7 {
		t.Errorf("GetFullBook calls = %v, want [42 7]", got)
	}
}

func TestApp_LateDetailResultAfterClose(t *testing.T) {
	a := newTestApp(t)
	a.browseLoaded(t)
	loaded, _ := findMsg[bookDetailLoadedMsg](a.send(OpenBookDetailMsg{BookID: 42}))
	a.send(CloseBookDetailMsg{})

	a.send(loaded)
	if a.Overlays.Len() != 0 {
		t.Error("late result must not reopen anything")
	}
}

func TestApp_LoginStoresTokenAndLogoutClears(t *testing.T) {
	a := newTestApp(t)
	a.keys(" ", "a")
	if _, ok := findMsg[ShowLoginMsg](a.keys("l")); !ok {
		t.Fatal("SPC a l did not open login")
	}
	a.send(ShowLoginMsg{})
	top, _ := a.Overlays.Peek()
	if _, ok := top.View.(*LoginModal); !ok {
		t.Fatalf("top overlay = %T", top.View)
	}

	for _, r := range "alice" {
		a.Update(keyMsg(string(r)))
	}
	a.Update(keyMsg("tab"))
	for _, r := range "s3cret" {
		a.Update(keyMsg(string(r)))
	}
	res, ok := findMsg[authResultMsg](a.keys("enter"))
	if !ok {
		t.Fatal("enter did not submit")
	}
	done, ok := findMsg[LoggedInMsg](a.send(res))
	if !ok {
		t.Fatal("expected LoggedInMsg")
	}
	a.send(done)

	if a.Overlays.Len() != 0 {
		t.Error("login modal should close")
	}
	if tok, ok := a.store.Token(); !ok || tok != "tok-1" {
		t.Errorf("token = %q, %v", tok, ok)
	}
	if !a.SignedIn() || !strings.Contains(a.View(), "signed in") {
		t.Error("top bar should show signed-in state")
	}

	a.send(LogoutMsg{})
	if _, ok := a.store.Token(); ok {
		t.Error("logout should delete the token")
	}
}

func TestApp_SearchFromHome(t *testing.T) {
	a := newTestApp(t)
	a.Update(FocusSearchMsg{})
	if !a.Focus.Is(FocusSearch) {
		t.Fatal("search should have focus")
	}
	a.Update(keyMsg("tab")) // Book Title
	a.Update(keyMsg("tab")) // Author Name
	for _, r := range "gibson" {
		a.Update(keyMsg(string(r)))
	}
	_, cmd := a.Update(keyMsg("enter"))
	search, ok := cmd().(SearchMsg)
	if !ok {
		t.Fatalf("enter produced %T", cmd())
	}

	loaded, ok := findMsg[booksLoadedMsg](a.send(search))
	if !ok {
		t.Fatal("search from home should load the catalog")
	}
	a.send(loaded)
	if a.Focus.Is(FocusSearch) {
		t.Error("submitting should return focus to the content")
	}
	if got := a.Table.Books(); len(got) != 1 || got[0].ID != 7 {
		t.Errorf("filtered books = %+v", got)
	}
}

func TestApp_SearchFocusSwallowsGlobalKeys(t *testing.T) {
	a := newTestApp(t)
	a.Update(FocusSearchMsg{})
	a.Update(keyMsg("q"))
	if a.TopBar.Search.Value() != "q" {
		t.Errorf("search value = %q", a.TopBar.Search.Value())
	}
	a.Update(keyMsg("esc"))
	if !a.Focus.Is(FocusContent) {
		t.Error("esc should leave the search bar")
	}
}

func TestApp_DeleteBookAfterConfirm(t *testing.T) {
	a := newTestApp(t)
	a.browseLoaded(t)

	a.keys(" ", "k")
	show, ok := findMsg[ShowDeleteBookMsg](a.keys("d"))
	if !ok {
		t.Fatal("SPC k d did not ask for confirmation")
	}
	a.send(show)
	top, _ := a.Overlays.Peek()
	if _, ok := top.View.(*ConfirmModal); !ok {
		t.Fatalf("top overlay = %T", top.View)
	}

	del, ok := findMsg[DeleteBookMsg](a.keys("y"))
	if !ok || del.BookID != 42 {
		t.Fatalf("confirm produced %+v", del)
	}
	done, ok := findMsg[bookActionDoneMsg](a.send(del))
	if !ok {
		t.Fatal("delete was not issued")
	}
	if a.Overlays.Len() != 0 {
		t.Error("confirm modal should close")
	}
	if _, ok := findMsg[booksLoadedMsg](a.send(done)); !ok {
		t.Error("successful delete should reload the catalog")
	}
	if len(a.catalog.deleted) != 1 || a.catalog.deleted[0] != 42 {
		t.Errorf("deleted = %v", a.catalog.deleted)
	}
	if !strings.Contains(a.Status(), "Deleted") {
		t.Errorf("status = %q", a.Status())
	}
}

func TestApp_ConfirmEscCancels(t *testing.T) {
	a := newTestApp(t)
	a.browseLoaded(t)
	a.send(ShowDeleteBookMsg{})
	a.keys("esc")
	if a.Overlays.Len() != 0 {
		t.Error("esc should dismiss the confirmation")
	}
	if len(a.catalog.deleted) != 0 {
		t.Error("nothing should be deleted")
	}
}

func TestApp_BookActionsNeedBrowse(t *testing.T) {
	a := newTestApp(t)
	a.keys(" ", "k")
	if a.KeyHandler.LeaderWaiting {
		t.Error("SPC k is not a prefix on the home screen")
	}
	status, ok := findMsg[StatusMsg](a.send(RecheckBookMsg{}))
	if !ok || !status.Error {
		t.Errorf("recheck on home = %+v", status)
	}
}

func TestApp_UnauthorizedActionReportsExpiry(t *testing.T) {
	a := newTestApp(t)
	a.browseLoaded(t)
	a.catalog.actErr = &api.StatusError{Method: "POST", Path: "/books/42/recheck", StatusCode: 401}

	done, ok := findMsg[bookActionDoneMsg](a.send(RecheckBookMsg{}))
	if !ok {
		t.Fatal("recheck was not issued")
	}
	a.send(done)
	if !strings.Contains(a.Status(), "expired") {
		t.Errorf("status = %q", a.Status())
	}
	if len(a.catalog.rechecked) != 1 {
		t.Errorf("rechecked = %v", a.catalog.rechecked)
	}
}

func TestApp_CtrlCQuitsEvenWithModal(t *testing.T) {
	a := newTestApp(t)
	a.send(ShowLoginMsg{})
	if _, ok := findMsg[tea.QuitMsg](a.keys("ctrl+c")); !ok {
		t.Error("ctrl+c should quit")
	}
}
