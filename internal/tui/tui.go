package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/ui"
)

type viewState int

const (
	viewList viewState = iota
	viewDetail
)

var (
	listTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#fff")).
			Background(ui.ColorPrimary).
			Padding(0, 1)
	detailTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(ui.ColorPrimary)
	helpKeyStyle     = lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(ui.ColorMuted)
)

// Model is the root model of the catalog browser. It switches between the
// book list and a book's detail page.
type Model struct {
	core   *catalogcore.Core
	state  viewState
	list   listModel
	detail detailModel

	// trail holds the books passed through on the way to the current detail
	// page, most recent last. Going back pops it before returning to the list.
	trail []*catalog.Book

	width  int
	height int
}

// New creates a browser over the given catalog.
func New(core *catalogcore.Core) *Model {
	return &Model{
		core: core,
		list: newListModel(core),
	}
}

func (m *Model) Init() tea.Cmd {
	return m.list.Init()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.capturingInput() {
				return m, tea.Quit
			}
		}

	case selectBookMsg:
		if m.state == viewDetail {
			m.trail = append(m.trail, m.detail.book.book)
		}
		m.openDetail(msg.book)
		return m, nil

	case backMsg:
		if n := len(m.trail); n > 0 {
			prev := m.trail[n-1]
			m.trail = m.trail[:n-1]
			m.openDetail(prev)
			return m, nil
		}
		m.state = viewList
		return m, nil
	}

	var cmd tea.Cmd
	if m.state == viewDetail {
		m.detail, cmd = m.detail.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

// openDetail shows b, re-read from the catalog so the page reflects its current state.
func (m *Model) openDetail(b *catalog.Book) {
	if current, err := m.core.GetBook(b.ID); err == nil {
		b = current
	}
	m.state = viewDetail
	m.detail = newDetailModel(b, m.core, m.width, m.height)
}

// capturingInput reports whether the active view is taking text input, in
// which case "q" is typed rather than quitting.
func (m *Model) capturingInput() bool {
	if m.state == viewDetail {
		return m.detail.filtering()
	}
	return m.list.capturingInput()
}

func (m *Model) View() string {
	if m.state == viewDetail {
		return m.detail.View()
	}
	return m.list.View()
}

// Run starts the browser in the alternate screen and blocks until it exits.
func Run(core *catalogcore.Core) error {
	_, err := tea.NewProgram(New(core), tea.WithAltScreen()).Run()
	return err
}
