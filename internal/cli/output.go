package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/jacksmith/shelf/internal/model"
)

const ansiReset = "\033[0m"

var (
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
	yellow = color.New(color.FgYellow)
	gray   = color.New(color.FgHiBlack)
	header = color.New(color.FgCyan, color.Bold)
)

func init() {
	// Colors only when stdout is a terminal
	color.NoColor = !IsTerminal(os.Stdout)
}

// SetColorEnabled overrides terminal detection.
func SetColorEnabled(enabled bool) {
	color.NoColor = !enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return !color.NoColor
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Green returns s in green, used for confirmations.
func Green(s string) string { return green.Sprint(s) }

// Red returns s in red, used for errors.
func Red(s string) string { return red.Sprint(s) }

// Yellow returns s in yellow, used for warnings and hints.
func Yellow(s string) string { return yellow.Sprint(s) }

// Gray returns s in gray, used for ids and secondary detail.
func Gray(s string) string { return gray.Sprint(s) }

// Header styles a folder heading.
func Header(s string) string { return header.Sprint(s) }

// DefaultMaxTitleWidth is the default maximum visible width for title columns.
const DefaultMaxTitleWidth = 50

// DefaultMaxURLWidth caps the URL column.
const DefaultMaxURLWidth = 60

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{}
}

// SetMaxWidth caps the visible width of col. Longer cells are truncated
// with "...".
func (t *Table) SetMaxWidth(col, maxWidth int) {
	if t.maxWidths == nil {
		t.maxWidths = make(map[int]int)
	}
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for len(t.colWidths) < len(cols) {
		t.colWidths = append(t.colWidths, 0)
	}
	for i, col := range cols {
		width := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && width > maxW {
			width = maxW
		}
		t.colWidths[i] = max(t.colWidths[i], width)
	}
	t.rows = append(t.rows, cols)
}

// Render writes the table to w with columns separated by two spaces.
// Trailing columns are not padded.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		var b strings.Builder
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(col)
			if i < len(t.colWidths)-1 && i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", t.colWidths[i]-visibleWidth(col)))
			}
		}
		fmt.Fprintln(w, b.String())
	}
}

// Truncate cuts s to maxWidth visible characters, ending in "..." when
// there is room for it. Escape sequences are kept and, if any were seen,
// a reset is appended.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}

	const ellipsis = "..."
	if maxWidth < len(ellipsis) {
		cut, _ := cutVisible(s, maxWidth)
		return cut
	}

	cut, sawEscape := cutVisible(s, maxWidth-len(ellipsis))
	cut += ellipsis
	if sawEscape {
		cut += ansiReset
	}
	return cut
}

// cutVisible returns the prefix of s holding n visible characters and any
// escape sequences before the cut.
func cutVisible(s string, n int) (string, bool) {
	var b strings.Builder
	visible := 0
	inEscape, sawEscape := false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, sawEscape = true, true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		case visible >= n:
			return b.String(), sawEscape
		default:
			visible++
		}
		b.WriteRune(r)
	}
	return b.String(), sawEscape
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}

// FaviconMark returns a one-character favicon indicator.
func FaviconMark(l *model.Link) string {
	if model.ComputeFaviconState(l) == model.FaviconPresent {
		return Green("*")
	}
	return Gray("-")
}

// LinkRow returns the table cells for one link.
func LinkRow(l *model.Link) []string {
	return []string{
		Gray(model.ShortID(l.ID)),
		FaviconMark(l),
		l.Title,
		l.URL,
	}
}

// RenderLinks writes links as a table with no folder headings.
func RenderLinks(w io.Writer, links []model.Link) {
	table := newLinkTable()
	for i := range links {
		table.AddRow(LinkRow(&links[i])...)
	}
	table.Render(w)
}

// RenderGroups writes each folder bucket under its heading, unfiled first.
// Columns are aligned across groups.
func RenderGroups(w io.Writer, groups []model.Group) {
	if len(groups) == 0 {
		fmt.Fprintln(w, Gray("No links."))
		return
	}

	table := newLinkTable()
	for _, g := range groups {
		for i := range g.Links {
			table.AddRow(LinkRow(&g.Links[i])...)
		}
	}
	var buf strings.Builder
	table.Render(&buf)
	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")

	for gi, g := range groups {
		if gi > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, Header(GroupLabel(g)))
		for range g.Links {
			fmt.Fprintln(w, "  "+lines[0])
			lines = lines[1:]
		}
	}
}

// GroupLabel names a group for display.
func GroupLabel(g model.Group) string {
	if g.Folder == nil {
		return "Unfiled"
	}
	return g.Name()
}

func newLinkTable() *Table {
	table := NewTable()
	table.SetMaxWidth(2, DefaultMaxTitleWidth)
	table.SetMaxWidth(3, DefaultMaxURLWidth)
	return table
}
