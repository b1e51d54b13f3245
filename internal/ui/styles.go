package ui

import (
	"hash/fnv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#7C3AED") // Purple
	ColorSecondary = lipgloss.Color("#6B7280") // Gray
	ColorSuccess   = lipgloss.Color("#10B981") // Green
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorDanger    = lipgloss.Color("#EF4444") // Red
	ColorMuted     = lipgloss.Color("#9CA3AF") // Light gray
	ColorBlue      = lipgloss.Color("#3B82F6") // Blue
)

// tagColors are cycled through for category tags.
var tagColors = []lipgloss.Color{
	ColorSuccess,
	ColorWarning,
	ColorBlue,
	ColorPrimary,
	ColorDanger,
}

// Text styles
var (
	Bold      = lipgloss.NewStyle().Bold(true)
	Muted     = lipgloss.NewStyle().Foreground(ColorMuted)
	Primary   = lipgloss.NewStyle().Foreground(ColorPrimary)
	Danger    = lipgloss.NewStyle().Foreground(ColorDanger)
	Secondary = lipgloss.NewStyle().Foreground(ColorSecondary)
)

// ID style - distinctive for record IDs
var ID = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Bold(true)

// Title style
var Title = lipgloss.NewStyle().Bold(true)

// Header style for section headers
var Header = lipgloss.NewStyle().
	Foreground(ColorPrimary).
	Bold(true).
	MarginBottom(1)

// TagColor returns the color used for the given tag. The same name always maps
// to the same color.
func TagColor(name string) lipgloss.Color {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(name)))
	return tagColors[h.Sum32()%uint32(len(tagColors))]
}

// RenderTag returns a category name styled as a colored tag.
func RenderTag(name string) string {
	return lipgloss.NewStyle().Foreground(TagColor(name)).Render(name)
}

// RenderTags renders names as tags separated by commas. Missing names are
// rendered as a muted dash.
func RenderTags(names []string) string {
	if len(names) == 0 {
		return Muted.Render("-")
	}
	tags := make([]string, len(names))
	for i, name := range names {
		tags[i] = RenderTag(name)
	}
	return strings.Join(tags, Muted.Render(", "))
}

// Truncate shortens s to at most max runes, ending in an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
