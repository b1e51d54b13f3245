package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/ui"
)

var (
	showJSON bool
	showYAML bool
)

var showCmd = &cobra.Command{
	Use:   "show <book-id>",
	Short: "Show a book",
	Long:  `Displays a book with its author, categories and description.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShow(os.Stdout, core, args[0])
	},
}

func runShow(w io.Writer, c *catalogcore.Core, id string) error {
	b, err := c.GetBook(id)
	if err != nil {
		return fmt.Errorf("failed to find book: %w", err)
	}

	if showJSON {
		return writeJSON(w, b)
	}

	// Seed file format, ready to paste into a dataset
	if showYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode([]*catalog.Book{b}); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(w, renderBookHeader(c, b))

	if b.Description != nil && *b.Description != "" {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(80),
		)
		if err != nil {
			return fmt.Errorf("failed to create renderer: %w", err)
		}

		rendered, err := renderer.Render(*b.Description)
		if err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}

		fmt.Fprintln(w, ui.Header.Render("Description"))
		fmt.Fprint(w, rendered)
	}

	return nil
}

// renderBookHeader renders the styled header block for a book.
func renderBookHeader(c *catalogcore.Core, b *catalog.Book) string {
	var header strings.Builder
	header.WriteString(ui.ID.Render(b.ID))

	var names []string
	for _, cat := range c.CategoriesByIDs(b.CategoryIDs) {
		names = append(names, cat.Name)
	}
	if len(names) > 0 {
		header.WriteString("  ")
		header.WriteString(ui.RenderTags(names))
	}
	header.WriteString("\n")
	header.WriteString(ui.Title.Render(b.Title))
	header.WriteString("\n")

	if a, err := c.GetAuthor(b.AuthorID); err == nil {
		header.WriteString(ui.Muted.Render("by ") + strings.TrimSpace(a.FirstName+" "+a.LastName))
	} else {
		header.WriteString(ui.Muted.Render("by unknown author"))
	}

	if b.CoverImage != nil {
		header.WriteString("\n")
		header.WriteString(ui.Muted.Render("cover: ") + *b.CoverImage)
	}

	header.WriteString("\n")
	header.WriteString(ui.Muted.Render(strings.Repeat("─", 50)))

	return lipgloss.NewStyle().
		MarginBottom(1).
		Render(header.String())
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "Output as JSON")
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output as a seed file entry")
	showCmd.MarkFlagsMutuallyExclusive("json", "yaml")
	rootCmd.AddCommand(showCmd)
}
