package ui

import (
	"errors"
	"strings"
	"testing"

	"booklib/internal/api"
	"booklib/internal/logging"
)

// loadTable inits v and delivers the catalog read result.
func loadTable(t *testing.T, v *BookTableView) {
	t.Helper()
	msg, ok := findMsg[booksLoadedMsg](collectMsgs(v.Init()))
	if !ok {
		t.Fatal("Init did not issue a catalog read")
	}
	v.Update(msg)
}

func TestBookTable_InitReadsCatalogOnce(t *testing.T) {
	cat := &fakeCatalog{books: sampleBooks()}
	v := NewBookTableView(cat, logging.Discard())

	if !strings.Contains(v.View(), "Loading books...") {
		t.Errorf("expected loading text, got %q", v.View())
	}
	loadTable(t, v)

	if cat.listCalls != 1 {
		t.Errorf("ListBooks calls = %d, want 1", cat.listCalls)
	}
	out := v.View()
	if !strings.Contains(out, "All Books (3)") {
		t.Errorf("expected heading with count, got %q", out)
	}
	if !strings.Contains(out, "Dune") || !strings.Contains(out, "Neuromancer") {
		t.Errorf("expected titles in table, got %q", out)
	}
}

func TestBookTable_EmptyCatalogShowsNoBooksRow(t *testing.T) {
	cat := &fakeCatalog{books: []api.Book{}}
	v := NewBookTableView(cat, logging.Discard())
	loadTable(t, v)

	out := v.View()
	if !strings.Contains(out, "All Books (0)") {
		t.Errorf("expected zero count, got %q", out)
	}
	if strings.Count(out, noBooksText) != 1 {
		t.Errorf("expected exactly one %q row, got %q", noBooksText, out)
	}
	if _, cmd := v.Update(keyMsg("enter")); cmd != nil {
		t.Error("enter on an empty table should do nothing")
	}
}

func TestBookTable_NilCatalogResultIsEmpty(t *testing.T) {
	cat := &fakeCatalog{}
	v := NewBookTableView(cat, logging.Discard())
	loadTable(t, v)
	if v.Err() != nil {
		t.Fatalf("unexpected error %v", v.Err())
	}
	if !strings.Contains(v.View(), noBooksText) {
		t.Error("expected no-books row")
	}
}

func TestBookTable_ErrorThenRetry(t *testing.T) {
	cat := &fakeCatalog{listErr: &api.NetworkError{Method: "GET", Path: "/books", Err: errors.New("connection refused")}}
	v := NewBookTableView(cat, logging.Discard())
	loadTable(t, v)

	out := v.View()
	if !strings.Contains(out, "Failed to load books. Please try again.") {
		t.Errorf("expected error text, got %q", out)
	}
	if !strings.Contains(out, "r: retry") {
		t.Errorf("expected retry hint, got %q", out)
	}

	cat.listErr = nil
	cat.books = sampleBooks()
	_, cmd := v.Update(keyMsg("r"))
	if !v.Loading() {
		t.Error("retry should enter loading state")
	}
	msg, ok := findMsg[booksLoadedMsg](collectMsgs(cmd))
	if !ok {
		t.Fatal("retry did not re-issue the read")
	}
	v.Update(msg)

	if cat.listCalls != 2 {
		t.Errorf("ListBooks calls = %d, want 2", cat.listCalls)
	}
	if v.Err() != nil || !strings.Contains(v.View(), "All Books (3)") {
		t.Errorf("expected loaded table after retry, got %q", v.View())
	}
}

func TestBookTable_RetryKeyIgnoredWithoutError(t *testing.T) {
	cat := &fakeCatalog{books: sampleBooks()}
	v := NewBookTableView(cat, logging.Discard())
	loadTable(t, v)

	v.Update(keyMsg("r"))
	if cat.listCalls != 1 {
		t.Errorf("r without an error should not reload, calls = %d", cat.listCalls)
	}
}

func TestBookTable_StaleResultDropped(t *testing.T) {
	cat := &fakeCatalog{books: sampleBooks()}
	v := NewBookTableView(cat, logging.Discard())

	first, _ := findMsg[booksLoadedMsg](collectMsgs(v.Init()))
	second, _ := findMsg[booksLoadedMsg](collectMsgs(v.Reload()))

	v.Update(first)
	if !v.Loading() {
		t.Fatal("result of a superseded read must be dropped")
	}
	v.Update(second)
	if v.Loading() {
		t.Fatal("current read should complete")
	}
}

func TestBookTable_ResultAfterCloseDropped(t *testing.T) {
	cat := &fakeCatalog{books: sampleBooks()}
	v := NewBookTableView(cat, logging.Discard())
	msg, _ := findMsg[booksLoadedMsg](collectMsgs(v.Init()))

	v.Close()
	v.Update(msg)
	if len(v.Books()) != 0 {
		t.Error("closed table must ignore late results")
	}
}

func TestBookTable_EnterOpensSelectedBook(t *testing.T) {
	cat := &fakeCatalog{books: sampleBooks()}
	v := NewBookTableView(cat, logging.Discard())
	v.SetSize(160, 30)
	loadTable(t, v)

	v.Update(keyMsg("down"))
	_, cmd := v.Update(keyMsg("enter"))
	if cmd == nil {
		t.Fatal("expected a command on enter")
	}
	msg, ok := cmd().(OpenBookDetailMsg)
	if !ok {
		t.Fatalf("expected OpenBookDetailMsg, got %T", cmd())
	}
	if msg.BookID != 7 {
		t.Errorf("BookID = %d, want 7", msg.BookID)
	}
}

func TestBookTable_SearchFiltersLocally(t *testing.T) {
	cat := &fakeCatalog{books: sampleBooks()}
	v := NewBookTableView(cat, logging.Discard())
	loadTable(t, v)

	v.SetQuery(SearchQuery{Field: SearchAuthor, Text: "gibson"})
	if got := v.Books(); len(got) != 1 || got[0].ID != 7 {
		t.Errorf("author filter = %+v", got)
	}
	v.SetQuery(SearchQuery{Field: SearchTitle, Text: "nothing like this"})
	if len(v.Books()) != 0 || !strings.Contains(v.View(), noBooksText) {
		t.Error("expected empty result row")
	}
	v.SetQuery(SearchQuery{})
	if len(v.Books()) != 3 {
		t.Error("clearing the query should show every book")
	}
	if cat.listCalls != 1 {
		t.Errorf("search must not hit the backend, calls = %d", cat.listCalls)
	}
}

func TestBookRow_MissingValuesAndExcerpt(t *testing.T) {
	long := strings.Repeat("a", 150)
	row := bookRow(api.Book{ID: 1, Title: "Only a title", Description: long, PublishYear: api.Int(0)})

	for i, col := range []string{"Author", "Year", "Series", "ISBN"} {
		if row[i+1] != missingCell {
			t.Errorf("%s = %q, want %q", col, row[i+1], missingCell)
		}
	}
	want := strings.Repeat("a", 100) + "..."
	if row[5] != want {
		t.Errorf("description = %q (len %d), want 100 chars + ...", row[5], len(row[5]))
	}

	short := bookRow(api.Book{Title: "T", Description: "short"})
	if short[5] != "short" {
		t.Errorf("short description = %q", short[5])
	}
}
