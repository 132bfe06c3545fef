package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Vantage ASCII art banner.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to blue, like a horizon.
	lines := []struct {
		text  string
		color string
	}{
		{" __   __           _                    ", "#2dd4bf"},
		{" \\ \\ / /_ _ _ __  | |_ __ _  __ _  ___  ", "#22d3ee"},
		{"  \\ V / _` | '_ \\ | __/ _` |/ _` |/ _ \\ ", "#38bdf8"},
		{"   \\_/\\__,_|_| |_| \\__\\__,_|\\__, |\\___| ", "#60a5fa"},
		{"                            |___/       ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
