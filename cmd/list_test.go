package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/ui"
)

// resetListFlags restores the list flags after a test changes them.
func resetListFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		listJSON, listQuiet, listTree = false, false, false
	})
}

func TestRunListBooksJSON(t *testing.T) {
	c := setupTestCore(t)
	resetListFlags(t)
	listJSON = true

	var buf bytes.Buffer
	if err := runList(&buf, c, "books"); err != nil {
		t.Fatalf("runList() error = %v", err)
	}

	var books []*catalog.Book
	if err := json.Unmarshal(buf.Bytes(), &books); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(books) != 4 {
		t.Fatalf("got %d books, want 4", len(books))
	}
	if books[3].Title != "C All in One Desk Reference For Dummies" {
		t.Errorf("books[3].Title = %q", books[3].Title)
	}
}

func TestRunListQuiet(t *testing.T) {
	c := setupTestCore(t)
	resetListFlags(t)
	listQuiet = true

	tests := []struct {
		kind string
		want string
	}{
		{"books", "1\n2\n3\n4\n"},
		{"authors", "1\n2\n3\n4\n5\n6\n7\n8\n"},
		{"categories", "1\n2\n3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			if err := runList(&buf, c, tt.kind); err != nil {
				t.Fatalf("runList() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("runList(%s) = %q, want %q", tt.kind, buf.String(), tt.want)
			}
		})
	}
}

func TestRunListTable(t *testing.T) {
	c := setupTestCore(t)
	resetListFlags(t)

	var buf bytes.Buffer
	if err := runList(&buf, c, "books"); err != nil {
		t.Fatalf("runList() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"TITLE", "AUTHOR", "Goblet of Fire", "Dan Gookin", "Programming"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	if err := runList(&buf, c, "authors"); err != nil {
		t.Fatalf("runList(authors) error = %v", err)
	}
	if !strings.Contains(buf.String(), "William Faulkner") {
		t.Errorf("authors table missing William Faulkner:\n%s", buf.String())
	}
}

func TestRunListTreeJSON(t *testing.T) {
	c := setupTestCore(t)
	resetListFlags(t)
	listTree = true
	listJSON = true

	var buf bytes.Buffer
	if err := runList(&buf, c, "books"); err != nil {
		t.Fatalf("runList() error = %v", err)
	}

	var nodes []*ui.TreeNodeJSON
	if err := json.Unmarshal(buf.Bytes(), &nodes); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(nodes) != 8 {
		t.Fatalf("got %d author nodes, want 8", len(nodes))
	}
	if nodes[0].Label != "J.K. Rowling" || len(nodes[0].Children) != 3 {
		t.Errorf("nodes[0] = %s with %d children, want J.K. Rowling with 3", nodes[0].Label, len(nodes[0].Children))
	}
}

func TestIdColumnWidth(t *testing.T) {
	if got := idColumnWidth([]string{"1", "2"}); got != 4 {
		t.Errorf("idColumnWidth(short) = %d, want 4", got)
	}
	if got := idColumnWidth([]string{"1", "12345"}); got != 7 {
		t.Errorf("idColumnWidth(long) = %d, want 7", got)
	}
}
