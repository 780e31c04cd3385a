package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Title is drawn centred in the header of every screen
const Title = "World Checkpoint Inspector"

const (
	clearScreen = "\033[2J\033[H"
	clearLine   = "\033[2K"

	defaultWidth = 80
)

var (
	green       = lipgloss.Color("2")
	brightGreen = lipgloss.Color("10")
	red         = lipgloss.Color("9")
	yellow      = lipgloss.Color("11")

	// Color functions for terminal output
	Green       = render(lipgloss.NewStyle().Foreground(green))
	BrightGreen = render(lipgloss.NewStyle().Foreground(brightGreen).Bold(true))
	Red         = render(lipgloss.NewStyle().Foreground(red))
	Yellow      = render(lipgloss.NewStyle().Foreground(yellow))
	Dim         = render(lipgloss.NewStyle().Faint(true))
)

func render(style lipgloss.Style) func(string) string {
	return func(text string) string {
		return style.Render(text)
	}
}

type fdWriter interface {
	Fd() uintptr
}

// IsTerminal reports whether w writes to an interactive terminal
func IsTerminal(w io.Writer) bool {
	f, ok := w.(fdWriter)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// TerminalWidth returns the column count of w, or 80 when w is not a terminal
func TerminalWidth(w io.Writer) int {
	f, ok := w.(fdWriter)
	if !ok || !IsTerminal(w) {
		return defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return defaultWidth
	}
	return width
}

// ClearScreen wipes the terminal. It is a no-op when w is not a terminal.
func ClearScreen(w io.Writer) {
	if IsTerminal(w) {
		fmt.Fprint(w, clearScreen)
	}
}

// DrawHeader prints text centred between two full-width rules
func DrawHeader(w io.Writer, text string) {
	width := TerminalWidth(w)
	rule := Green(strings.Repeat("=", width))

	padding := (width - lipgloss.Width(text)) / 2
	if padding < 0 {
		padding = 0
	}

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, strings.Repeat(" ", padding)+BrightGreen(text))
	fmt.Fprintln(w, rule)
}

// PrintError prints an error message in red
func PrintError(w io.Writer, msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(w, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(w, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, Green(msg))
}

// PrintInfo prints a label/value pair
func PrintInfo(w io.Writer, label string, value string) {
	fmt.Fprintf(w, "%s: %s\n", Green(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(w io.Writer, msg string) {
	fmt.Fprintln(w, Yellow(msg))
}

// PrintList prints items numbered from 1
func PrintList(w io.Writer, heading string, items []string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, Green(heading))
	for i, item := range items {
		fmt.Fprintln(w, BrightGreen(fmt.Sprintf("%d. %s", i+1, item)))
	}
}
