package driver

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

var (
	kindColors = map[string]*color.Color{
		"primitive":    color.New(color.FgCyan),
		"class":        color.New(color.FgGreen),
		"interface":    color.New(color.FgGreen),
		"array":        color.New(color.FgBlue),
		"wildcard":     color.New(color.FgMagenta),
		"intersection": color.New(color.FgMagenta),
		"typevar":      color.New(color.FgYellow),
		"unresolved":   color.New(color.FgRed, color.Bold),
		"error":        color.New(color.FgRed, color.Bold),
	}
	pathColor = color.New(color.Bold)
	diagColor = color.New(color.FgRed)
)

// WriteTable renders results as an aligned REF | KIND | TYPE table,
// one block per manifest, with diagnostics below their row.
func WriteTable(w io.Writer, results []ManifestResult, useColor bool) {
	for i, mr := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, paint(pathColor, useColor, mr.Path))
		if mr.Err != nil {
			fmt.Fprintf(w, "  %s\n", paint(diagColor, useColor, mr.Err.Error()))
			continue
		}
		refW, kindW := columnWidths(mr.Refs)
		for _, ref := range mr.Refs {
			fmt.Fprintf(w, "  %s  %s  %s\n",
				pad(ref.Ref, refW),
				paintPadded(kindColors[ref.Kind], useColor, ref.Kind, kindW),
				ref.Type)
			if ref.Bag == nil {
				continue
			}
			for _, d := range ref.Bag.Items() {
				msg := fmt.Sprintf("%s %s: %s", d.Severity, d.Code, d.Message)
				fmt.Fprintf(w, "    %s\n", paint(diagColor, useColor, msg))
			}
		}
	}
}

func columnWidths(refs []RefResult) (refW, kindW int) {
	for _, r := range refs {
		refW = max(refW, runewidth.StringWidth(r.Ref))
		kindW = max(kindW, runewidth.StringWidth(r.Kind))
	}
	return refW, kindW
}

// pad right-pads to the column width using display width, so wide
// runes in identifiers keep columns aligned.
func pad(s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

func paint(c *color.Color, useColor bool, s string) string {
	if !useColor || c == nil {
		return s
	}
	return c.Sprint(s)
}

// paintPadded colors the text but pads on the plain width, keeping
// escape sequences out of the alignment math.
func paintPadded(c *color.Color, useColor bool, s string, width int) string {
	gap := width - runewidth.StringWidth(s)
	out := paint(c, useColor, s)
	if gap > 0 {
		out += strings.Repeat(" ", gap)
	}
	return out
}
