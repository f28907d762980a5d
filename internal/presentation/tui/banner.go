package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text  string
	color string
}{
	{" _ _     _   _           _   ", "#34d399"},
	{"| (_)___| |_| |__   ___ | |_ ", "#2dd4bf"},
	{"| | / __| __| '_ \\ / _ \\| __|", "#22d3ee"},
	{"| | \\__ \\ |_| |_) | (_) | |_ ", "#38bdf8"},
	{"|_|_|___/\\__|_.__/ \\___/ \\__|", "#60a5fa"},
}

// PrintBanner writes the listbot logo, colored when the terminal supports it.
func PrintBanner(w io.Writer) {
	p := termenv.NewOutput(w).ColorProfile()
	fmt.Fprintln(w)
	for _, l := range bannerLines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
