package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/ui"
)

// Glamour renderers by wrap width. Building one loads a style, so they are kept.
var (
	renderersMu sync.Mutex
	renderers   = map[int]*glamour.TermRenderer{}
)

// markdownRenderer returns a renderer wrapping at width, or nil if none can be built.
func markdownRenderer(width int) *glamour.TermRenderer {
	width = min(max(width, 20), 100)

	renderersMu.Lock()
	defer renderersMu.Unlock()

	if r, ok := renderers[width]; ok {
		return r
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		r = nil
	}
	renderers[width] = r
	return r
}

// backMsg leaves the detail page
type backMsg struct{}

// relatedDelegate renders the other books by the same author
type relatedDelegate struct{}

func (d relatedDelegate) Height() int                             { return 1 }
func (d relatedDelegate) Spacing() int                            { return 0 }
func (d relatedDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d relatedDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(bookItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = ui.Primary.Render("▸ ")
	}
	idCol := lipgloss.NewStyle().Width(6).Render(ui.ID.Render(item.book.ID))
	title := ui.Truncate(item.book.Title, max(10, m.Width()-12))

	fmt.Fprint(w, cursor+idCol+title)
}

// detailModel displays a single book's details
type detailModel struct {
	viewport      viewport.Model
	book          bookItem
	core          *catalogcore.Core
	width         int
	height        int
	related       []bookItem
	relatedList   list.Model
	relatedActive bool // true = related books section focused
}

func newDetailModel(b *catalog.Book, core *catalogcore.Core, width, height int) detailModel {
	m := detailModel{
		book:   newBookItem(core, b),
		core:   core,
		width:  width,
		height: height,
	}

	m.related = relatedBooks(core, b)
	m.relatedList = m.createRelatedList()
	m.relatedActive = len(m.related) > 0

	m.viewport = viewport.New(max(1, width-4), m.viewportHeight())
	m.viewport.SetContent(m.renderBody())

	return m
}

// relatedBooks returns the other books that reference the same author, in store order.
func relatedBooks(core *catalogcore.Core, b *catalog.Book) []bookItem {
	var related []bookItem
	for _, other := range core.Books() {
		if other.ID != b.ID && other.AuthorID == b.AuthorID {
			related = append(related, newBookItem(core, other))
		}
	}
	return related
}

func (m detailModel) relatedListHeight() int {
	// Show all related books up to 1/3 of screen height, plus title row and padding
	return min(len(m.related), max(3, m.height/3)) + 2
}

func (m detailModel) createRelatedList() list.Model {
	items := make([]list.Item, len(m.related))
	for i, r := range m.related {
		items[i] = r
	}

	l := list.New(items, relatedDelegate{}, max(0, m.width-8), m.relatedListHeight())
	l.Title = "More by this author"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#fff")).
		Background(ui.ColorBlue).
		Padding(0, 1)
	l.Styles.TitleBar = lipgloss.NewStyle().Padding(0, 0, 0, 1)
	l.Styles.FilterPrompt = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	l.Styles.FilterCursor = lipgloss.NewStyle().Foreground(ui.ColorPrimary)
	l.Styles.NoItems = lipgloss.NewStyle()

	return l
}

func (m detailModel) Init() tea.Cmd {
	return nil
}

func (m detailModel) filtering() bool {
	return m.relatedActive && m.relatedList.FilterState() == list.Filtering
}

func (m detailModel) viewportHeight() int {
	headerHeight := 6
	if len(m.related) > 0 {
		headerHeight += m.relatedListHeight() + 3
	}
	footerHeight := 2
	return max(1, m.height-headerHeight-footerHeight)
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.relatedList.SetSize(max(0, msg.Width-8), m.relatedListHeight())
		m.viewport.Width = max(1, msg.Width-4)
		m.viewport.Height = m.viewportHeight()
		m.viewport.SetContent(m.renderBody())

	case tea.KeyMsg:
		// While filtering, the related list handles all keys
		if m.filtering() {
			m.relatedList, cmd = m.relatedList.Update(msg)
			return m, cmd
		}

		switch msg.String() {
		case "esc", "backspace":
			return m, func() tea.Msg {
				return backMsg{}
			}

		case "tab":
			if len(m.related) > 0 {
				m.relatedActive = !m.relatedActive
			}
			return m, nil

		case "enter":
			if m.relatedActive {
				if item, ok := m.relatedList.SelectedItem().(bookItem); ok {
					return m, func() tea.Msg {
						return selectBookMsg{book: item.book}
					}
				}
			}
		}
	}

	if m.relatedActive {
		m.relatedList, cmd = m.relatedList.Update(msg)
	} else {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

func (m detailModel) View() string {
	header := m.renderHeader()

	var relatedSection string
	if len(m.related) > 0 {
		borderColor := ui.ColorMuted
		if m.relatedActive {
			borderColor = ui.ColorPrimary
		}
		relatedSection = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(borderColor).
			Width(max(0, m.width-4)).
			Render(m.relatedList.View()) + "\n"
	}

	bodyBorderColor := ui.ColorMuted
	if !m.relatedActive {
		bodyBorderColor = ui.ColorPrimary
	}
	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(bodyBorderColor).
		Width(max(0, m.width-4)).
		Render(m.viewport.View())

	scrollPct := int(m.viewport.ScrollPercent() * 100)
	footer := helpStyle.Render(fmt.Sprintf("%d%%", scrollPct)) + "  "
	if len(m.related) > 0 {
		footer += helpKeyStyle.Render("tab") + " " + helpStyle.Render("switch") + "  " +
			helpKeyStyle.Render("enter") + " " + helpStyle.Render("go to") + "  "
	}
	footer += helpKeyStyle.Render("j/k") + " " + helpStyle.Render("scroll") + "  " +
		helpKeyStyle.Render("esc") + " " + helpStyle.Render("back") + "  " +
		helpKeyStyle.Render("q") + " " + helpStyle.Render("quit")

	return header + "\n" + relatedSection + body + "\n" + footer
}

func (m detailModel) renderHeader() string {
	var content strings.Builder
	content.WriteString(detailTitleStyle.Render(m.book.book.Title))
	content.WriteString("\n")
	content.WriteString(ui.ID.Render(m.book.book.ID))

	author := ui.Muted.Render("unknown author")
	if m.book.author != "" {
		author = m.book.author
	}
	content.WriteString("  " + author)

	if len(m.book.categories) > 0 {
		content.WriteString("  ")
		content.WriteString(ui.RenderTags(m.book.categories))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorMuted).
		Padding(0, 1).
		Width(max(0, m.width-4)).
		Render(content.String())
}

func (m detailModel) renderBody() string {
	b := m.book.book

	var cover string
	if b.CoverImage != nil {
		cover = ui.Muted.Render("Cover: ") + *b.CoverImage + "\n\n"
	}

	if b.Description == nil || *b.Description == "" {
		return cover + lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Padding(0, 1).
			Render("No description")
	}

	renderer := markdownRenderer(m.viewport.Width - 2)
	if renderer == nil {
		return cover + *b.Description
	}

	rendered, err := renderer.Render(*b.Description)
	if err != nil {
		return cover + *b.Description
	}

	return cover + strings.TrimSpace(rendered)
}
