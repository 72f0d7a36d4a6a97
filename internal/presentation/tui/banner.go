package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the mdhtml banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []termenv.Style{
		termenv.String(`               _ _     _             _ `).Foreground(p.Color("#818cf8")),
		termenv.String(`  _ __ ___   __| | |__ | |_ _ __ ___ | |`).Foreground(p.Color("#a78bfa")),
		termenv.String(` | '_ ' _ \ / _' | '_ \| __| '_ ' _ \| |`).Foreground(p.Color("#c084fc")),
		termenv.String(` | | | | | | (_| | | | | |_| | | | | | |`).Foreground(p.Color("#e879f9")),
		termenv.String(` |_| |_| |_|\__,_|_| |_|\__|_| |_| |_|_|`).Foreground(p.Color("#f472b6")),
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
	fmt.Fprintln(w, termenv.String("  markdown to html  "+version).Faint())
	fmt.Fprintln(w)
}
