package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hmans/shelf/internal/catalog"
)

// TreeNode represents a row in the author/book tree.
type TreeNode struct {
	ID       string
	Label    string
	Tags     []string
	Muted    bool // true for rows shown for context only, like authors without books
	Children []*TreeNode
}

// TreeNodeJSON is the JSON-serializable version of TreeNode.
type TreeNodeJSON struct {
	ID       string          `json:"id"`
	Label    string          `json:"label"`
	Tags     []string        `json:"tags,omitempty"`
	Children []*TreeNodeJSON `json:"children,omitempty"`
}

// ToJSON converts a TreeNode to its JSON-serializable form.
func (n *TreeNode) ToJSON() *TreeNodeJSON {
	json := &TreeNodeJSON{
		ID:    n.ID,
		Label: n.Label,
		Tags:  n.Tags,
	}
	if len(n.Children) > 0 {
		json.Children = make([]*TreeNodeJSON, len(n.Children))
		for i, child := range n.Children {
			json.Children[i] = child.ToJSON()
		}
	}
	return json
}

// UnknownAuthorID is the ID shown for the group of books whose author does not exist.
const UnknownAuthorID = "?"

// BuildAuthorTree groups books under their authors. Books are matched by their
// own author reference, so books added after seeding appear under the right
// author. Books referencing a missing author are collected under a trailing
// "Unknown author" node. Category references that do not resolve are dropped.
func BuildAuthorTree(authors []*catalog.Author, books []*catalog.Book, categories []*catalog.Category) []*TreeNode {
	categoryNames := make(map[string]string, len(categories))
	for _, c := range categories {
		if _, seen := categoryNames[c.ID]; !seen {
			categoryNames[c.ID] = c.Name
		}
	}

	byAuthor := make(map[string][]*TreeNode)
	bookNodes := make([]*TreeNode, len(books))
	for i, b := range books {
		node := &TreeNode{ID: b.ID, Label: b.Title}
		for _, id := range b.CategoryIDs {
			if name, ok := categoryNames[id]; ok {
				node.Tags = append(node.Tags, name)
			}
		}
		bookNodes[i] = node
		byAuthor[b.AuthorID] = append(byAuthor[b.AuthorID], node)
	}

	known := make(map[string]bool, len(authors))
	nodes := make([]*TreeNode, 0, len(authors)+1)
	for _, a := range authors {
		if known[a.ID] {
			continue
		}
		known[a.ID] = true
		children := byAuthor[a.ID]
		nodes = append(nodes, &TreeNode{
			ID:       a.ID,
			Label:    strings.TrimSpace(a.FirstName + " " + a.LastName),
			Muted:    len(children) == 0,
			Children: children,
		})
	}

	var orphans []*TreeNode
	for i, b := range books {
		if !known[b.AuthorID] {
			orphans = append(orphans, bookNodes[i])
		}
	}
	if len(orphans) > 0 {
		nodes = append(nodes, &TreeNode{
			ID:       UnknownAuthorID,
			Label:    "Unknown author",
			Muted:    true,
			Children: orphans,
		})
	}
	return nodes
}

// Tree rendering constants
const (
	treeBranch     = "├─ "
	treeLastBranch = "└─ "
	treeIndent     = 3 // width of connector (├─  or └─ )
	labelWidth     = 50
)

// TreeLine styles the tree connectors.
var TreeLine = lipgloss.NewStyle().Foreground(ColorSecondary)

// calculateMaxDepth returns the maximum depth of the tree.
func calculateMaxDepth(nodes []*TreeNode) int {
	maxDepth := 0
	for _, node := range nodes {
		depth := 1 + calculateMaxDepth(node.Children)
		if depth > maxDepth {
			maxDepth = depth
		}
	}
	return maxDepth
}

// maxIDWidth returns the width of the longest ID in the tree, at least 2 for the header.
func maxIDWidth(nodes []*TreeNode) int {
	width := 2
	for _, node := range nodes {
		if w := runeWidth(node.ID); w > width {
			width = w
		}
		if w := maxIDWidth(node.Children); w > width {
			width = w
		}
	}
	return width
}

// RenderTree renders the tree as an ASCII tree with styled columns.
func RenderTree(nodes []*TreeNode) string {
	var sb strings.Builder

	// The ID column holds the connectors of the deepest level plus the ID itself
	treeColWidth := maxIDWidth(nodes) + 2
	if maxDepth := calculateMaxDepth(nodes); maxDepth > 1 {
		treeColWidth += (maxDepth - 1) * treeIndent
	}

	idStyle := lipgloss.NewStyle().Width(treeColWidth)
	labelStyle := lipgloss.NewStyle().Width(labelWidth + 2)
	headerCol := lipgloss.NewStyle().Foreground(ColorMuted)

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		idStyle.Render(headerCol.Render("ID")),
		labelStyle.Render(headerCol.Render("NAME")),
		headerCol.Render("CATEGORIES"),
	)
	sb.WriteString(header)
	sb.WriteString("\n")
	sb.WriteString(Muted.Render(strings.Repeat("─", treeColWidth+labelWidth+2+20)))
	sb.WriteString("\n")

	renderNodes(&sb, nodes, 0, treeColWidth)

	return sb.String()
}

// renderNodes recursively renders tree nodes with proper indentation.
// depth 0 = root level (no connector), depth 1+ = nested (has connector)
func renderNodes(sb *strings.Builder, nodes []*TreeNode, depth int, treeColWidth int) {
	for i, node := range nodes {
		isLast := i == len(nodes)-1
		renderNode(sb, node, depth, isLast, treeColWidth)
		renderNodes(sb, node.Children, depth+1, treeColWidth)
	}
}

// renderNode renders a single tree node with tree connectors.
func renderNode(sb *strings.Builder, node *TreeNode, depth int, isLast bool, treeColWidth int) {
	labelStyle := lipgloss.NewStyle().Width(labelWidth + 2)

	var indent, connector string
	if depth > 0 {
		if depth > 1 {
			indent = strings.Repeat("   ", depth-1)
		}
		if isLast {
			connector = treeLastBranch
		} else {
			connector = treeBranch
		}
	}

	var idText, labelText string
	label := Truncate(node.Label, labelWidth)
	switch {
	case node.Muted:
		idText = Muted.Render(node.ID)
		labelText = Muted.Render(label)
	case depth == 0:
		idText = ID.Render(node.ID)
		labelText = Title.Render(label)
	default:
		idText = ID.Render(node.ID)
		labelText = label
	}

	// Pad by visual width, ANSI codes excluded
	visualWidth := runeWidth(indent) + runeWidth(connector) + runeWidth(node.ID)
	padding := ""
	if treeColWidth > visualWidth {
		padding = strings.Repeat(" ", treeColWidth-visualWidth)
	}
	idCell := TreeLine.Render(indent+connector) + idText + padding

	tags := ""
	if depth > 0 {
		tags = RenderTags(node.Tags)
	}

	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		idCell,
		labelStyle.Render(labelText),
		tags,
	))
	sb.WriteString("\n")
}

// runeWidth returns the visual width of a string (counting runes, not bytes).
// This assumes all runes are single-width (which works for our tree connectors).
func runeWidth(s string) int {
	return len([]rune(s))
}
