package ui

import (
	"slices"
	"strings"
	"testing"

	"github.com/hmans/shelf/internal/catalog"
)

func testCatalog() ([]*catalog.Author, []*catalog.Book, []*catalog.Category) {
	authors := []*catalog.Author{
		{ID: "1", FirstName: "J.K.", LastName: "Rowling", BookIDs: []string{"1"}},
		{ID: "2", FirstName: "Dan", LastName: "Gookin", BookIDs: []string{"2"}},
		{ID: "3", FirstName: "Ayn", LastName: "Rand"},
	}
	books := []*catalog.Book{
		{ID: "1", Title: "Chamber of Secrets", AuthorID: "1", CategoryIDs: []string{"1", "9"}},
		{ID: "2", Title: "C All in One", AuthorID: "2", CategoryIDs: []string{"2"}},
		{ID: "3", Title: "Orphaned", AuthorID: "42"},
		{ID: "4", Title: "Goblet of Fire", AuthorID: "1"},
	}
	categories := []*catalog.Category{
		{ID: "1", Name: "Fantasy"},
		{ID: "2", Name: "Programming"},
	}
	return authors, books, categories
}

func childIDs(n *TreeNode) []string {
	ids := make([]string, len(n.Children))
	for i, c := range n.Children {
		ids[i] = c.ID
	}
	return ids
}

func TestBuildAuthorTree(t *testing.T) {
	nodes := BuildAuthorTree(testCatalog())

	if len(nodes) != 4 {
		t.Fatalf("got %d root nodes, want 4 (3 authors + unknown)", len(nodes))
	}

	rowling := nodes[0]
	if rowling.Label != "J.K. Rowling" {
		t.Errorf("Label = %q, want %q", rowling.Label, "J.K. Rowling")
	}
	// Book 4 is not in the author's back-references but still belongs here
	if got := childIDs(rowling); !slices.Equal(got, []string{"1", "4"}) {
		t.Errorf("Rowling books = %v, want [1 4]", got)
	}
	if got := rowling.Children[0].Tags; !slices.Equal(got, []string{"Fantasy"}) {
		t.Errorf("book 1 tags = %v, want [Fantasy]", got)
	}

	if !nodes[2].Muted || len(nodes[2].Children) != 0 {
		t.Errorf("author without books should be muted and childless, got %+v", nodes[2])
	}

	unknown := nodes[3]
	if unknown.ID != UnknownAuthorID || !unknown.Muted {
		t.Errorf("last node = %+v, want muted unknown author group", unknown)
	}
	if got := childIDs(unknown); !slices.Equal(got, []string{"3"}) {
		t.Errorf("unknown author books = %v, want [3]", got)
	}
}

func TestBuildAuthorTreeNoOrphans(t *testing.T) {
	authors, books, categories := testCatalog()
	books = books[:2]

	nodes := BuildAuthorTree(authors, books, categories)
	if len(nodes) != 3 {
		t.Errorf("got %d root nodes, want 3", len(nodes))
	}
	for _, n := range nodes {
		if n.ID == UnknownAuthorID {
			t.Error("unexpected unknown author group")
		}
	}
}

func TestRenderTree(t *testing.T) {
	out := RenderTree(BuildAuthorTree(testCatalog()))

	for _, want := range []string{"ID", "NAME", "CATEGORIES", "J.K. Rowling", "Chamber of Secrets", "Fantasy", "Unknown author", "└─"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderTree() output missing %q:\n%s", want, out)
		}
	}

	// Header, divider, 4 authors/groups and 4 books
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("got %d lines, want 10:\n%s", len(lines), out)
	}
}

func TestTreeNodeToJSON(t *testing.T) {
	nodes := BuildAuthorTree(testCatalog())
	json := nodes[0].ToJSON()

	if json.ID != "1" || json.Label != "J.K. Rowling" {
		t.Errorf("ToJSON() = %+v", json)
	}
	if len(json.Children) != 2 || json.Children[0].Label != "Chamber of Secrets" {
		t.Errorf("ToJSON().Children = %+v", json.Children)
	}
	if nodes[2].ToJSON().Children != nil {
		t.Error("childless node should omit children")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"Harry Potter and the Chamber of Secrets", 15, "Harry Potter..."},
		{"Harry’s parents", 7, "Harr..."},
		{"abc", 2, "ab"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTagColor(t *testing.T) {
	if TagColor("Fantasy") != TagColor("fantasy") {
		t.Error("TagColor should ignore case")
	}
	if !slices.Contains(tagColors, TagColor("Programming")) {
		t.Error("TagColor should pick from the tag palette")
	}
}

func TestRenderTags(t *testing.T) {
	if got := RenderTags(nil); !strings.Contains(got, "-") {
		t.Errorf("RenderTags(nil) = %q, want a dash", got)
	}
	got := RenderTags([]string{"Fantasy", "Fiction"})
	if !strings.Contains(got, "Fantasy") || !strings.Contains(got, "Fiction") {
		t.Errorf("RenderTags() = %q, want both names", got)
	}
}
