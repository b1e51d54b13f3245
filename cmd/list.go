package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/ui"
)

var (
	listJSON  bool
	listQuiet bool
	listTree  bool
)

var listCmd = &cobra.Command{
	Use:       "list [books|authors|categories]",
	Aliases:   []string{"ls"},
	Short:     "List the catalog",
	ValidArgs: []string{"books", "authors", "categories"},
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	Long: `Lists the records of the seeded catalog. Books are listed by default.

Examples:
  # List books with their authors and categories
  shelf list

  # List authors
  shelf list authors

  # Show books grouped by author
  shelf list --tree`,
	RunE: func(cmd *cobra.Command, args []string) error {
		kind := "books"
		if len(args) == 1 {
			kind = args[0]
		}
		return runList(os.Stdout, core, kind)
	},
}

func runList(w io.Writer, c *catalogcore.Core, kind string) error {
	if listTree {
		nodes := ui.BuildAuthorTree(c.Authors(), c.Books(), c.Categories())
		if listJSON {
			out := make([]*ui.TreeNodeJSON, len(nodes))
			for i, n := range nodes {
				out[i] = n.ToJSON()
			}
			return writeJSON(w, out)
		}
		fmt.Fprint(w, ui.RenderTree(nodes))
		return nil
	}

	switch kind {
	case "authors":
		authors := c.Authors()
		if listJSON {
			return writeJSON(w, authors)
		}
		ids := make([]string, len(authors))
		for i, a := range authors {
			ids[i] = a.ID
		}
		if listQuiet {
			return writeIDs(w, ids)
		}
		return renderAuthors(w, authors)

	case "categories":
		categories := c.Categories()
		if listJSON {
			return writeJSON(w, categories)
		}
		if listQuiet {
			ids := make([]string, len(categories))
			for i, cat := range categories {
				ids[i] = cat.ID
			}
			return writeIDs(w, ids)
		}
		return renderCategories(w, categories)

	default:
		books := c.Books()
		if listJSON {
			return writeJSON(w, books)
		}
		if listQuiet {
			ids := make([]string, len(books))
			for i, b := range books {
				ids[i] = b.ID
			}
			return writeIDs(w, ids)
		}
		return renderBooks(w, c, books)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeIDs(w io.Writer, ids []string) error {
	for _, id := range ids {
		if _, err := fmt.Fprintln(w, id); err != nil {
			return err
		}
	}
	return nil
}

// idColumnWidth returns the ID column width for the given IDs, padding included.
func idColumnWidth(ids []string) int {
	width := 2 // minimum for "ID" header
	for _, id := range ids {
		if len(id) > width {
			width = len(id)
		}
	}
	return width + 2
}

func renderBooks(w io.Writer, c *catalogcore.Core, books []*catalog.Book) error {
	if len(books) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("No books found."))
		return nil
	}

	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	idWidth := idColumnWidth(ids)

	// Column styles with widths for alignment
	idStyle := lipgloss.NewStyle().Width(idWidth)
	titleStyle := lipgloss.NewStyle().Width(52)
	authorStyle := lipgloss.NewStyle().Width(22)
	headerCol := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		titleStyle.Render(headerCol.Render("TITLE")),
		authorStyle.Render(headerCol.Render("AUTHOR")),
		headerCol.Render("CATEGORIES"),
	))
	fmt.Fprintln(w, ui.Muted.Render(strings.Repeat("─", idWidth+52+22+20)))

	for _, b := range books {
		author := ui.Muted.Render("unknown")
		if a, err := c.GetAuthor(b.AuthorID); err == nil {
			author = ui.Truncate(strings.TrimSpace(a.FirstName+" "+a.LastName), 20)
		}

		var names []string
		for _, cat := range c.CategoriesByIDs(b.CategoryIDs) {
			names = append(names, cat.Name)
		}

		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(ui.ID.Render(b.ID)),
			titleStyle.Render(ui.Truncate(b.Title, 50)),
			authorStyle.Render(author),
			ui.RenderTags(names),
		))
	}
	return nil
}

func renderAuthors(w io.Writer, authors []*catalog.Author) error {
	if len(authors) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("No authors found."))
		return nil
	}

	ids := make([]string, len(authors))
	for i, a := range authors {
		ids[i] = a.ID
	}
	idWidth := idColumnWidth(ids)

	idStyle := lipgloss.NewStyle().Width(idWidth)
	nameStyle := lipgloss.NewStyle().Width(32)
	headerCol := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		nameStyle.Render(headerCol.Render("NAME")),
		headerCol.Render("BOOKS"),
	))
	fmt.Fprintln(w, ui.Muted.Render(strings.Repeat("─", idWidth+32+10)))

	for _, a := range authors {
		books := ui.Muted.Render("-")
		if len(a.BookIDs) > 0 {
			books = strings.Join(a.BookIDs, ", ")
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(ui.ID.Render(a.ID)),
			nameStyle.Render(ui.Truncate(strings.TrimSpace(a.FirstName+" "+a.LastName), 30)),
			books,
		))
	}
	return nil
}

func renderCategories(w io.Writer, categories []*catalog.Category) error {
	if len(categories) == 0 {
		fmt.Fprintln(w, ui.Muted.Render("No categories found."))
		return nil
	}

	ids := make([]string, len(categories))
	for i, cat := range categories {
		ids[i] = cat.ID
	}
	idWidth := idColumnWidth(ids)

	idStyle := lipgloss.NewStyle().Width(idWidth)
	nameStyle := lipgloss.NewStyle().Width(32)
	headerCol := lipgloss.NewStyle().Foreground(ui.ColorMuted)

	fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		nameStyle.Render(headerCol.Render("NAME")),
		headerCol.Render("BOOKS"),
	))
	fmt.Fprintln(w, ui.Muted.Render(strings.Repeat("─", idWidth+32+10)))

	for _, cat := range categories {
		books := ui.Muted.Render("-")
		if len(cat.BookIDs) > 0 {
			books = strings.Join(cat.BookIDs, ", ")
		}
		fmt.Fprintln(w, lipgloss.JoinHorizontal(lipgloss.Top,
			idStyle.Render(ui.ID.Render(cat.ID)),
			nameStyle.Render(ui.RenderTag(ui.Truncate(cat.Name, 30))),
			books,
		))
	}
	return nil
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	listCmd.Flags().BoolVarP(&listQuiet, "quiet", "q", false, "Only output IDs (one per line)")
	listCmd.Flags().BoolVar(&listTree, "tree", false, "Show books grouped by author")
	rootCmd.AddCommand(listCmd)
}
