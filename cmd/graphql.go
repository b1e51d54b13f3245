package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/99designs/gqlgen/graphql"
	"github.com/99designs/gqlgen/graphql/executor"
	"github.com/99designs/gqlgen/graphql/handler/extension"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
	"github.com/vektah/gqlparser/v2/formatter"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"golang.org/x/term"

	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/graph"
)

var (
	gqlRaw       bool
	gqlVariables string
	gqlOperation string
	gqlSchema    bool
)

var graphqlCmd = &cobra.Command{
	Use:     "graphql [query]",
	Aliases: []string{"query", "q"},
	Short:   "Run a GraphQL operation against the catalog",
	Long: `Runs a GraphQL query or mutation in-process against a freshly seeded catalog
and prints the data portion of the response.

Mutations only last for this invocation. Start "shelf serve" to keep changes
around between requests.

Examples:
  # Titles of all books
  shelf graphql '{ getBooks { id title } }'

  # A book with its author
  shelf graphql '{ getBook(id: "2") { title author { firstName lastName } } }'

  # Full-text search
  shelf graphql '{ searchBooks(query: "azka*") { id title } }'

  # Variables (numbers are accepted for IDs)
  shelf graphql -v '{"id": 1}' 'query Author($id: ID!) { getAuthor(id: $id) { lastName books { title } } }'

  # Query from a file
  shelf graphql < query.graphql

  # Schema in SDL
  shelf graphql --schema`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if gqlSchema {
			return printSchema(out)
		}

		query, err := readQuery(args, os.Stdin)
		if err != nil {
			return err
		}
		variables, err := parseVariables(gqlVariables)
		if err != nil {
			return err
		}

		data, err := executeQuery(cmd.Context(), core, query, variables, gqlOperation)
		if err != nil {
			return err
		}

		if gqlRaw || !term.IsTerminal(int(os.Stdout.Fd())) {
			_, err = fmt.Fprintln(out, string(data))
			return err
		}
		_, err = fmt.Fprintln(out, string(pretty.Color(pretty.Pretty(data), nil)))
		return err
	},
}

// readQuery takes the query from the single argument, or reads it from stdin
// when nothing was passed and stdin is not a terminal.
func readQuery(args []string, stdin *os.File) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return "", fmt.Errorf("no query given (pass it as an argument or on stdin)")
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	query := strings.TrimSpace(string(data))
	if query == "" {
		return "", fmt.Errorf("no query given (pass it as an argument or on stdin)")
	}
	return query, nil
}

// parseVariables decodes the variables JSON. Numbers are kept as json.Number so
// that numeric IDs survive validation the same way they do over HTTP.
func parseVariables(s string) (map[string]any, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var variables map[string]any
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	if err := dec.Decode(&variables); err != nil {
		return nil, fmt.Errorf("invalid variables JSON: %w", err)
	}
	return variables, nil
}

// executeQuery runs one operation against c and returns the response data.
// Any request or field error fails the whole call.
func executeQuery(ctx context.Context, c *catalogcore.Core, query string, variables map[string]any, operation string) (json.RawMessage, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	exec := executor.New(graph.NewExecutableSchema(graph.Config{
		Resolvers: &graph.Resolver{Core: c},
	}))
	if cfg == nil || cfg.GraphQL.Introspection {
		exec.Use(extension.Introspection{})
	}

	ctx = graphql.StartOperationTrace(ctx)
	opCtx, errs := exec.CreateOperationContext(ctx, &graphql.RawParams{
		Query:         query,
		Variables:     variables,
		OperationName: operation,
	})
	if errs != nil {
		return nil, joinGraphQLErrors(errs)
	}

	responses, ctx := exec.DispatchOperation(graphql.WithOperationContext(ctx, opCtx), opCtx)
	resp := responses(ctx)
	if len(resp.Errors) > 0 {
		return nil, joinGraphQLErrors(resp.Errors)
	}
	return resp.Data, nil
}

// joinGraphQLErrors folds a response's errors into one error, prefixing each
// message with the field path it belongs to.
func joinGraphQLErrors(errs gqlerror.List) error {
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		if len(e.Path) > 0 {
			msgs = append(msgs, e.Path.String()+": "+e.Message)
		} else {
			msgs = append(msgs, e.Message)
		}
	}

	switch len(msgs) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("graphql: %s", msgs[0])
	default:
		return fmt.Errorf("graphql: %d errors:\n  %s", len(msgs), strings.Join(msgs, "\n  "))
	}
}

// printSchema writes the schema in SDL form.
func printSchema(w io.Writer) error {
	es := graph.NewExecutableSchema(graph.Config{})
	formatter.NewFormatter(w, formatter.WithIndent("  ")).FormatSchema(es.Schema())
	return nil
}

func init() {
	graphqlCmd.Flags().BoolVar(&gqlRaw, "json", false, "Print compact JSON without colors")
	graphqlCmd.Flags().StringVarP(&gqlVariables, "variables", "v", "", "Variables as a JSON object")
	graphqlCmd.Flags().StringVarP(&gqlOperation, "operation", "o", "", "Operation to run from a multi-operation document")
	graphqlCmd.Flags().BoolVar(&gqlSchema, "schema", false, "Print the schema and exit")
	rootCmd.AddCommand(graphqlCmd)
}
