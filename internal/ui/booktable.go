package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"booklib/internal/api"
	"booklib/internal/ui/textutil"
)

const (
	descriptionExcerptLen = 100
	missingCell           = "-"
	noBooksText           = "No books found"
)

// BookTableView lists the catalog. It reads the catalog once when it is
// initialized and again only on retry; search filters the loaded books locally.
type BookTableView struct {
	catalog Catalog
	logger  *slog.Logger

	table   table.Model
	columns []table.Column
	spinner spinner.Model

	books   []api.Book // full catalog from the last successful read
	visible []api.Book // books after the search filter, row order
	query   SearchQuery

	loading bool
	err     error
	task    task
	closed  bool

	width, height int
}

var (
	_ View    = (*BookTableView)(nil)
	_ Sizable = (*BookTableView)(nil)
)

// NewBookTableView creates a table over catalog. No request is made until Init.
func NewBookTableView(catalog Catalog, logger *slog.Logger) *BookTableView {
	if logger == nil {
		logger = slog.Default()
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Styles.Status

	cols := bookColumns(100)
	t := table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(NewTableStyles())

	return &BookTableView{
		catalog: catalog,
		logger:  logger,
		table:   t,
		columns: cols,
		spinner: s,
		loading: true,
	}
}

// Init starts the catalog read.
func (v *BookTableView) Init() tea.Cmd {
	return v.load()
}

// load cancels any read in flight and starts a new one.
func (v *BookTableView) load() tea.Cmd {
	v.task.stop()
	v.loading = true
	v.err = nil
	v.closed = false
	ctx, t := startTask()
	v.task = t
	return tea.Batch(v.spinner.Tick, loadBooksCmd(ctx, v.catalog, t.id))
}

// Reload re-reads the catalog, e.g. after a book was deleted.
func (v *BookTableView) Reload() tea.Cmd {
	return v.load()
}

// Close cancels any read in flight. Results that arrive afterwards are dropped.
func (v *BookTableView) Close() {
	v.task.stop()
	v.closed = true
}

// SetQuery filters the loaded books. It never issues a request.
func (v *BookTableView) SetQuery(q SearchQuery) {
	v.query = q
	v.applyFilter()
}

// Query returns the active search.
func (v *BookTableView) Query() SearchQuery { return v.query }

// Loading reports whether a read is in flight.
func (v *BookTableView) Loading() bool { return v.loading }

// Err returns the last read error, nil after a successful read.
func (v *BookTableView) Err() error { return v.err }

// Books returns the rows currently shown.
func (v *BookTableView) Books() []api.Book { return v.visible }

// Selected returns the book under the cursor.
func (v *BookTableView) Selected() (api.Book, bool) {
	if v.loading || v.err != nil || len(v.visible) == 0 {
		return api.Book{}, false
	}
	i := v.table.Cursor()
	if i < 0 || i >= len(v.visible) {
		return api.Book{}, false
	}
	return v.visible[i], true
}

// SetSize implements Sizable.
func (v *BookTableView) SetSize(width, height int) {
	v.width, v.height = width, height
	v.columns = bookColumns(width)
	v.table.SetColumns(v.columns)
	v.table.SetWidth(width)
	// header line + blank line + table header
	v.table.SetHeight(max(height-4, 3))
}

// Update implements View.
func (v *BookTableView) Update(msg tea.Msg) (View, tea.Cmd) {
	switch msg := msg.(type) {
	case booksLoadedMsg:
		if v.closed || !v.task.owns(msg.TaskID) {
			return v, nil
		}
		v.task.stop()
		v.loading = false
		if msg.Err != nil {
			v.logger.Error("load books", "err", msg.Err)
			v.err = msg.Err
			return v, nil
		}
		v.books = msg.Books
		v.applyFilter()
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.loading {
			return v, nil
		}
		if v.err != nil {
			if msg.String() == "r" {
				return v, v.load()
			}
			return v, nil
		}
		if msg.String() == "enter" {
			if b, ok := v.Selected(); ok {
				id := b.ID
				return v, func() tea.Msg { return OpenBookDetailMsg{BookID: id} }
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.table, cmd = v.table.Update(msg)
	return v, cmd
}

func (v *BookTableView) applyFilter() {
	v.visible = v.query.Match(v.books)
	rows := make([]table.Row, 0, len(v.visible))
	for _, b := range v.visible {
		rows = append(rows, bookRow(b))
	}
	v.table.SetRows(rows)
	if c := v.table.Cursor(); c >= len(rows) || c < 0 {
		v.table.SetCursor(max(len(rows)-1, 0))
	}
}

// View implements View.
func (v *BookTableView) View() string {
	if v.loading {
		return v.spinner.View() + " " + Styles.Muted.Render("Loading books...")
	}
	if v.err != nil {
		return Styles.Error.Render("Failed to load books. Please try again.") + "\n" +
			Styles.Muted.Render(errorSummary(v.err)) + "\n\n" +
			Styles.Hint.Render("r: retry")
	}

	var b strings.Builder
	b.WriteString(Styles.Title.Render(v.heading()) + "\n\n")
	b.WriteString(v.table.View())
	if len(v.visible) == 0 {
		b.WriteString("\n" + lipgloss.PlaceHorizontal(v.tableWidth(), lipgloss.Center, Styles.Empty.Render(noBooksText)))
	} else {
		b.WriteString("\n" + Styles.Hint.Render("enter: details  ↑/↓: move  SPC k: book actions"))
	}
	return b.String()
}

func (v *BookTableView) heading() string {
	if v.query.IsEmpty() {
		return fmt.Sprintf("All Books (%d)", len(v.books))
	}
	return fmt.Sprintf("%s %q (%d of %d)", v.query.Field, v.query.Text, len(v.visible), len(v.books))
}

func (v *BookTableView) tableWidth() int {
	w := 0
	for _, c := range v.columns {
		w += c.Width + 2 // cell padding
	}
	return w
}

// bookColumns sizes the six columns to fit width.
func bookColumns(width int) []table.Column {
	const fixed = 6 + 14 + 8 // Year + ISBN + padding
	flex := max(width-fixed, 40)
	return []table.Column{
		{Title: "Title", Width: flex * 25 / 100},
		{Title: "Author", Width: flex * 17 / 100},
		{Title: "Year", Width: 6},
		{Title: "Series", Width: flex * 15 / 100},
		{Title: "ISBN", Width: 14},
		{Title: "Description", Width: flex * 35 / 100},
	}
}

// bookRow renders one book, with "-" for every missing value.
func bookRow(b api.Book) table.Row {
	year := missingCell
	if b.PublishYear != nil && *b.PublishYear != 0 {
		year = strconv.Itoa(*b.PublishYear)
	}
	series := missingCell
	if b.Series != nil && *b.Series != "" {
		series = *b.Series
	}
	return table.Row{
		orMissing(b.Title),
		orMissing(b.Author),
		year,
		series,
		orMissing(b.ISBN),
		orMissing(excerpt(b.Description, descriptionExcerptLen)),
	}
}

func orMissing(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return missingCell
	}
	return textutil.SingleLine(s)
}

// excerpt cuts s to n characters and appends "..." when it was longer.
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}

// errorSummary gives a short reason for a failed request.
func errorSummary(err error) string {
	var se *api.StatusError
	var ne *api.NetworkError
	switch {
	case errors.As(err, &se):
		if m := se.Message(); m != "" {
			return fmt.Sprintf("%d: %s", se.StatusCode, m)
		}
		return fmt.Sprintf("status %d", se.StatusCode)
	case errors.As(err, &ne):
		return "the server could not be reached"
	default:
		return err.Error()
	}
}
