package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/config"
)

// setupTestCore seeds a fresh catalog and installs it as the global core.
func setupTestCore(t *testing.T) *catalogcore.Core {
	t.Helper()

	testCfg := config.Default()
	testCore := catalogcore.New(testCfg)
	if err := testCore.Load(); err != nil {
		t.Fatalf("failed to load core: %v", err)
	}

	// Save and restore the globals
	oldCore, oldCfg := core, cfg
	core, cfg = testCore, testCfg
	t.Cleanup(func() {
		core, cfg = oldCore, oldCfg
		testCore.Close()
	})

	return testCore
}

func decodeData(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("failed to parse result: %v\n%s", err, data)
	}
	return result
}

func TestExecuteQueryGetBook(t *testing.T) {
	setupTestCore(t)

	data, err := executeQuery(context.Background(), core, `{ getBook(id: "1") { title author { lastName } } }`, nil, "")
	if err != nil {
		t.Fatalf("executeQuery() error = %v", err)
	}

	book := decodeData(t, data)["getBook"].(map[string]any)
	if book["title"] != "Harry Potter and the Chamber of Secrets" {
		t.Errorf("title = %v", book["title"])
	}
	if author := book["author"].(map[string]any); author["lastName"] != "Rowling" {
		t.Errorf("author.lastName = %v, want Rowling", author["lastName"])
	}
}

func TestExecuteQueryVariables(t *testing.T) {
	setupTestCore(t)

	vars, err := parseVariables(`{"id": 2}`)
	if err != nil {
		t.Fatalf("parseVariables() error = %v", err)
	}

	data, err := executeQuery(context.Background(), core, `query GetAuthor($id: ID!) { getAuthor(id: $id) { lastName } }`, vars, "GetAuthor")
	if err != nil {
		t.Fatalf("executeQuery() error = %v", err)
	}

	author := decodeData(t, data)["getAuthor"].(map[string]any)
	if author["lastName"] != "Gookin" {
		t.Errorf("lastName = %v, want Gookin", author["lastName"])
	}
}

func TestExecuteQueryMutation(t *testing.T) {
	testCore := setupTestCore(t)

	data, err := executeQuery(context.Background(), core, `mutation {
		addBook(title: "1984", authorId: "4", categoryIds: ["2"]) { id title }
	}`, nil, "")
	if err != nil {
		t.Fatalf("executeQuery() error = %v", err)
	}

	book := decodeData(t, data)["addBook"].(map[string]any)
	if book["id"] != "5" {
		t.Errorf("id = %v, want 5", book["id"])
	}
	if got := len(testCore.Books()); got != 5 {
		t.Errorf("core has %d books, want 5", got)
	}
}

func TestExecuteQueryNotFound(t *testing.T) {
	setupTestCore(t)

	_, err := executeQuery(context.Background(), core, `{ getBook(id: "99") { title } }`, nil, "")
	if err == nil {
		t.Fatal("executeQuery() error = nil, want error")
	}
	if err.Error() != "graphql: getBook: This book does not exist." {
		t.Errorf("error = %q, want not-found message with path", err)
	}
}

func TestExecuteQueryValidationError(t *testing.T) {
	setupTestCore(t)

	_, err := executeQuery(context.Background(), core, `{ getBooks { isbn } }`, nil, "")
	if err == nil {
		t.Fatal("executeQuery() error = nil, want validation error")
	}
	if !strings.HasPrefix(err.Error(), "graphql: ") {
		t.Errorf("error = %q, want graphql: prefix", err)
	}
}

func TestExecuteQueryIntrospection(t *testing.T) {
	setupTestCore(t)

	data, err := executeQuery(context.Background(), core, `{ __type(name: "Book") { name } }`, nil, "")
	if err != nil {
		t.Fatalf("executeQuery() error = %v", err)
	}
	if typ := decodeData(t, data)["__type"].(map[string]any); typ["name"] != "Book" {
		t.Errorf("__type.name = %v, want Book", typ["name"])
	}

	cfg.GraphQL.Introspection = false
	if _, err := executeQuery(context.Background(), core, `{ __schema { queryType { name } } }`, nil, ""); err == nil {
		t.Error("executeQuery() error = nil, want error with introspection disabled")
	}
}

func TestParseVariables(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    map[string]any
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "whitespace", input: "  ", want: nil},
		{name: "string", input: `{"id": "1"}`, want: map[string]any{"id": "1"}},
		{name: "number kept as json.Number", input: `{"id": 3}`, want: map[string]any{"id": json.Number("3")}},
		{name: "invalid", input: `{"id":`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseVariables(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseVariables() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseVariables() = %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("parseVariables()[%q] = %#v, want %#v", k, got[k], v)
				}
			}
		})
	}
}

func TestJoinGraphQLErrors(t *testing.T) {
	if err := joinGraphQLErrors(nil); err != nil {
		t.Errorf("joinGraphQLErrors(nil) = %v, want nil", err)
	}

	err := joinGraphQLErrors(gqlerror.List{
		gqlerror.Errorf("first"),
		{Message: "second", Path: ast.Path{ast.PathName("getBook"), ast.PathName("author")}},
	})
	want := "graphql: 2 errors:\n  first\n  getBook.author: second"
	if err == nil || err.Error() != want {
		t.Errorf("joinGraphQLErrors() = %q, want %q", err, want)
	}
}

func TestReadQuery(t *testing.T) {
	if q, err := readQuery([]string{"{ getBooks { id } }"}, nil); err != nil || q != "{ getBooks { id } }" {
		t.Errorf("readQuery(arg) = %q, %v", q, err)
	}

	path := filepath.Join(t.TempDir(), "query.graphql")
	if err := os.WriteFile(path, []byte("\n  { getAuthors { id } }\n"), 0644); err != nil {
		t.Fatalf("failed to write query: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open query: %v", err)
	}
	defer f.Close()

	q, err := readQuery(nil, f)
	if err != nil {
		t.Fatalf("readQuery(file) error = %v", err)
	}
	if q != "{ getAuthors { id } }" {
		t.Errorf("readQuery(file) = %q", q)
	}
}

func TestPrintSchema(t *testing.T) {
	var buf bytes.Buffer
	if err := printSchema(&buf); err != nil {
		t.Fatalf("printSchema() error = %v", err)
	}
	schema := buf.String()

	for _, want := range []string{"type Book", "type Query", "type Mutation", "searchBooks", "addCategory"} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %q", want)
		}
	}
}
