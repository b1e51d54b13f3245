package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/ui"
)

// bookItem wraps a Book to implement list.Item
type bookItem struct {
	book       *catalog.Book
	author     string
	categories []string
}

func (i bookItem) Title() string       { return i.book.Title }
func (i bookItem) Description() string { return i.book.ID + " · " + i.author }
func (i bookItem) FilterValue() string {
	return i.book.Title + " " + i.author + " " + strings.Join(i.categories, " ")
}

// newBookItem resolves the author and category names shown for b.
func newBookItem(core *catalogcore.Core, b *catalog.Book) bookItem {
	item := bookItem{book: b}
	if a, err := core.GetAuthor(b.AuthorID); err == nil {
		item.author = strings.TrimSpace(a.FirstName + " " + a.LastName)
	}
	for _, c := range core.CategoriesByIDs(b.CategoryIDs) {
		item.categories = append(item.categories, c.Name)
	}
	return item
}

// itemDelegate handles rendering of list items
type itemDelegate struct{}

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(bookItem)
	if !ok {
		return
	}

	// Column widths
	idWidth := 6
	authorWidth := 22

	idCol := lipgloss.NewStyle().Width(idWidth).Render(ui.ID.Render(item.book.ID))

	author := ui.Muted.Render("unknown")
	if item.author != "" {
		author = ui.Secondary.Render(ui.Truncate(item.author, authorWidth-2))
	}
	authorCol := lipgloss.NewStyle().Width(authorWidth).Render(author)

	title := item.book.Title
	if maxTitleWidth := m.Width() - idWidth - authorWidth - 4; maxTitleWidth > 3 {
		title = ui.Truncate(title, maxTitleWidth)
	}

	var str string
	if index == m.Index() {
		cursor := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Render("▌")
		titleStyled := lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary).Render(title)
		str = cursor + " " + idCol + authorCol + titleStyled
	} else {
		str = "  " + idCol + authorCol + title
	}

	fmt.Fprint(w, str)
}

// listModel shows every book, or the results of a full-text search.
type listModel struct {
	list   list.Model
	core   *catalogcore.Core
	width  int
	height int

	input     textinput.Model
	searching bool   // search prompt has focus
	query     string // query behind the listed results, empty for all books
	err       error
}

func newListModel(core *catalogcore.Core) listModel {
	l := list.New([]list.Item{}, itemDelegate{}, 0, 0)
	l.Title = "Books"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = listTitleStyle
	l.Styles.TitleBar = lipgloss.NewStyle().Padding(0, 0, 1, 2)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary)

	input := textinput.New()
	input.Prompt = "search: "
	input.Placeholder = "title, description or bleve query"
	input.PromptStyle = lipgloss.NewStyle().Foreground(ui.ColorPrimary)

	return listModel{
		list:  l,
		core:  core,
		input: input,
	}
}

// booksLoadedMsg carries the books to show and the query that selected them.
type booksLoadedMsg struct {
	items []list.Item
	query string
	err   error
}

// selectBookMsg is sent when a book is selected
type selectBookMsg struct {
	book *catalog.Book
}

func (m listModel) Init() tea.Cmd {
	return m.loadBooks
}

func (m listModel) loadBooks() tea.Msg {
	return booksLoadedMsg{items: m.bookItems(m.core.Books())}
}

// searchBooks returns a command running query against the search index.
func (m listModel) searchBooks(query string) tea.Cmd {
	return func() tea.Msg {
		books, err := m.core.SearchBooks(query, 0)
		if err != nil {
			return booksLoadedMsg{query: query, err: err}
		}
		return booksLoadedMsg{items: m.bookItems(books), query: query}
	}
}

func (m listModel) bookItems(books []*catalog.Book) []list.Item {
	items := make([]list.Item, len(books))
	for i, b := range books {
		items[i] = newBookItem(m.core, b)
	}
	return items
}

func (m listModel) filtering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m listModel) capturingInput() bool {
	return m.searching || m.filtering()
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for border, search prompt and footer
		m.list.SetSize(msg.Width-2, msg.Height-5)
		m.input.Width = max(10, msg.Width-12)

	case booksLoadedMsg:
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.query = msg.query
		m.list.Title = "Books"
		if m.query != "" {
			m.list.Title = fmt.Sprintf("Search: %s (%d)", m.query, len(msg.items))
		}
		return m, m.list.SetItems(msg.items)

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		if m.filtering() {
			break
		}

		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(bookItem); ok {
				return m, func() tea.Msg {
					return selectBookMsg{book: item.book}
				}
			}
		case "s":
			m.searching = true
			m.input.SetValue(m.query)
			return m, m.input.Focus()
		case "esc":
			// Leave search results before anything else
			if m.query != "" && m.list.FilterState() == list.Unfiltered {
				m.err = nil
				return m, m.loadBooks
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m listModel) updateSearch(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.input.Blur()
		query := strings.TrimSpace(m.input.Value())
		if query == "" {
			return m, m.loadBooks
		}
		return m, m.searchBooks(query)
	case "esc":
		m.searching = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m listModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Width(m.width - 2).
		Height(m.height - 5)

	content := border.Render(m.list.View())

	var status string
	switch {
	case m.searching:
		status = m.input.View()
	case m.err != nil:
		status = ui.Danger.Render("search failed: " + m.err.Error())
	case m.query != "":
		status = helpStyle.Render("esc to show all books")
	}

	help := helpKeyStyle.Render("enter") + " " + helpStyle.Render("view") + "  " +
		helpKeyStyle.Render("s") + " " + helpStyle.Render("search") + "  " +
		helpKeyStyle.Render("/") + " " + helpStyle.Render("filter") + "  " +
		helpKeyStyle.Render("q") + " " + helpStyle.Render("quit")

	return content + "\n" + status + "\n" + help
}
