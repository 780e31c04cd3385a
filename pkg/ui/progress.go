package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"savedatamgr/pkg/dirsync"
)

const (
	// barMargin leaves room on the bar line for the percentage and speed
	barMargin   = 20
	minBarWidth = 10
)

// ProgressBar renders dirsync progress as a two-line display:
//
//	> Initializing world...
//	>  42.0% [>========-----------] 3.9 PB/s
//
// On a terminal the bar line is redrawn in place. Otherwise only the final
// state is printed.
type ProgressBar struct {
	mu      sync.Mutex
	out     io.Writer
	tty     bool
	bar     progress.Model
	last    dirsync.Progress
	started bool
}

// NewProgressBar creates a ProgressBar sized to out
func NewProgressBar(out io.Writer) *ProgressBar {
	return newProgressBar(out, IsTerminal(out), TerminalWidth(out))
}

func newProgressBar(out io.Writer, tty bool, columns int) *ProgressBar {
	width := columns - barMargin
	if width < minBarWidth {
		width = minBarWidth
	}

	bar := progress.New(
		progress.WithSolidFill(string(brightGreen)),
		progress.WithoutPercentage(),
		progress.WithWidth(width),
	)
	bar.Full = '='
	bar.Empty = '-'
	bar.EmptyColor = string(green)

	return &ProgressBar{
		out: out,
		tty: tty,
		bar: bar,
	}
}

// Start prints the message line and an empty bar
func (p *ProgressBar) Start(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = true
	p.last = dirsync.Progress{}
	fmt.Fprintln(p.out, Green("> "+message))
	if p.tty {
		fmt.Fprint(p.out, p.line(p.last))
	}
}

// Update redraws the bar line
func (p *ProgressBar) Update(pr dirsync.Progress) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = pr
	if p.tty {
		fmt.Fprint(p.out, "\r"+clearLine+p.line(pr))
	}
}

// Finish leaves the last state on screen and ends the line
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	p.started = false
	if !p.tty {
		fmt.Fprint(p.out, p.line(p.last))
	}
	fmt.Fprintln(p.out)
}

func (p *ProgressBar) line(pr dirsync.Progress) string {
	return Green(fmt.Sprintf("> %5.1f%% [>", pr.Percent)) +
		p.bar.ViewAs(pr.Percent/100) +
		Green("] "+pr.Speed())
}
