package tui

import (
	"strings"

	"github.com/muesli/termenv"
)

// ColorizeDump applies terminal colors to the plain-text tree dump.
// Allocation percentages are highlighted so uneven splits stand out.
// On dumb terminals the input passes through unchanged.
func ColorizeDump(dump string) string {
	p := termenv.ColorProfile()
	if p == termenv.Ascii {
		return dump
	}

	percent := p.Color("#34d399")
	lines := strings.Split(dump, "\n")
	for i, line := range lines {
		pct, rest, found := strings.Cut(line, " : ")
		if !found {
			continue
		}
		lines[i] = termenv.String(pct).Foreground(percent).Bold().String() + " : " + rest
	}
	return strings.Join(lines, "\n")
}
