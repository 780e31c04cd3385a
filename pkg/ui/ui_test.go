package ui

import (
	"bytes"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"savedatamgr/pkg/dirsync"
	"savedatamgr/pkg/savedata"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;?]*[A-Za-z]`)

func plain(s string) string {
	return ansi.ReplaceAllString(s, "")
}

func TestDrawHeader(t *testing.T) {
	var buf bytes.Buffer
	DrawHeader(&buf, "Title")

	lines := strings.Split(strings.TrimRight(plain(buf.String()), "\n"), "\n")
	if assert.Len(t, lines, 3) {
		assert.Equal(t, strings.Repeat("=", defaultWidth), lines[0])
		assert.Equal(t, strings.Repeat(" ", (defaultWidth-5)/2)+"Title", lines[1])
		assert.Equal(t, lines[0], lines[2])
	}
}

func TestNonTerminalWriter(t *testing.T) {
	var buf bytes.Buffer
	assert.False(t, IsTerminal(&buf))
	assert.Equal(t, defaultWidth, TerminalWidth(&buf))

	ClearScreen(&buf)
	assert.Empty(t, buf.String(), "no escape codes outside a terminal")
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	PrintError(&buf, "Error backing up savedata", assert.AnError)
	PrintList(&buf, "Available backups:", []string{"a", "b"})

	out := plain(buf.String())
	assert.Contains(t, out, "Error backing up savedata: "+assert.AnError.Error())
	assert.Contains(t, out, "Available backups:\n1. a\n2. b\n")
}

func TestBackupLabel(t *testing.T) {
	b := savedata.Backup{Name: "Product-20240101-120000", CreatedAt: time.Now().Add(-3 * time.Hour)}
	assert.Equal(t, "Product-20240101-120000 (3 hours ago)", plain(BackupLabel(b)))

	assert.Equal(t, "Product-x", BackupLabel(savedata.Backup{Name: "Product-x"}))
}

func TestProgressBarNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	bar.Start("Initializing world...")
	bar.Update(dirsync.Progress{Step: 25, Total: 50, Percent: 50, Throughput: 4.6})
	bar.Update(dirsync.Progress{Step: 50, Total: 50, Percent: 100, Throughput: 9.2})
	bar.Finish()

	width := defaultWidth - barMargin
	want := "> Initializing world...\n" +
		"> 100.0% [>" + strings.Repeat("=", width) + "] 9.2 PB/s\n"
	assert.Equal(t, want, plain(buf.String()))
}

func TestProgressBarPartial(t *testing.T) {
	var buf bytes.Buffer
	bar := NewProgressBar(&buf)

	bar.Start("copying")
	bar.Update(dirsync.Progress{Step: 1, Total: 2, Percent: 50, Throughput: 4.6})
	bar.Finish()

	width := defaultWidth - barMargin
	assert.Contains(t, plain(buf.String()),
		">  50.0% [>"+strings.Repeat("=", width/2)+strings.Repeat("-", width-width/2)+"] 4.6 PB/s")
}

func TestProgressBarTerminalRedraw(t *testing.T) {
	var buf bytes.Buffer
	bar := newProgressBar(&buf, true, 30)

	bar.Start("Initializing world...")
	bar.Update(dirsync.Progress{Step: 1, Total: 2, Percent: 50, Throughput: 4.6})
	bar.Update(dirsync.Progress{Step: 2, Total: 2, Percent: 100, Throughput: 9.2})
	bar.Finish()

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, "\r"+clearLine), "each update redraws the bar line in place")
	assert.True(t, strings.HasSuffix(out, "\n"))

	frames := strings.Split(strings.TrimSuffix(out, "\n"), "\r"+clearLine)
	if assert.Len(t, frames, 3) {
		assert.Equal(t, "> Initializing world...\n>   0.0% [>----------] 0.0 PB/s", plain(frames[0]))
		assert.Equal(t, ">  50.0% [>=====-----] 4.6 PB/s", plain(frames[1]))
		assert.Equal(t, "> 100.0% [>==========] 9.2 PB/s", plain(frames[2]))
	}
}

func TestProgressBarFinishWithoutStart(t *testing.T) {
	var buf bytes.Buffer
	NewProgressBar(&buf).Finish()
	assert.Empty(t, buf.String())
}

func TestProgressBarImplementsObserver(t *testing.T) {
	var _ dirsync.Observer = NewProgressBar(&bytes.Buffer{})
}
