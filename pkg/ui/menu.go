package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"savedatamgr/pkg/dirsync"
	saveerrors "savedatamgr/pkg/errors"
	"savedatamgr/pkg/savedata"
)

const (
	msgNoCheckpoints  = "No checkpoints found! Please ensure checkpoints are in the './checkpoints' directory."
	msgNoBackups      = "No backups found!"
	msgInvalidNumber  = "Invalid input! Please enter a number."
	msgInvalidSelect  = "Invalid selection!"
	msgInvalidChoice  = "Invalid choice! Please enter a number between 1 and 4."
	msgGoodbye        = "Thank you for using Game Savedata Manager!"
	promptChoice      = "Enter your choice (1-4): "
	promptCheckpoint  = "Select checkpoint number: "
	promptBackup      = "Select backup number: "
	promptContinue    = "Press Enter to continue..."
	headingCheckpoint = "Available checkpoints:"
	headingBackup     = "Available backups:"
)

// Service is the set of savedata operations the menu drives.
// *savedata.Manager implements it.
type Service interface {
	ListCheckpoints() ([]string, error)
	ListBackups() ([]savedata.Backup, error)
	Replace(name string, obs dirsync.Observer) (*dirsync.Result, error)
	Backup(silent bool, obs dirsync.Observer) (string, error)
	Recover(backupPath string, obs dirsync.Observer) (*dirsync.Result, error)
}

// Menu is the interactive numbered menu
type Menu struct {
	in      *bufio.Reader
	out     io.Writer
	service Service

	// NewObserver builds the progress display for each copy
	NewObserver func() dirsync.Observer
}

// NewMenu creates a Menu reading choices from in and writing to out
func NewMenu(in io.Reader, out io.Writer, service Service) *Menu {
	m := &Menu{
		in:      bufio.NewReader(in),
		out:     out,
		service: service,
	}
	m.NewObserver = func() dirsync.Observer { return NewProgressBar(out) }
	return m
}

// Run shows the menu until the user exits or input ends. Operation failures
// are reported and never end the loop.
func (m *Menu) Run() error {
	for {
		m.screen()
		m.printMenu()

		choice, err := m.prompt(promptChoice)
		if err != nil {
			return eofIsExit(err)
		}

		m.screen()

		switch choice {
		case "1":
			err = m.replace()
		case "2":
			path, berr := m.service.Backup(false, m.NewObserver())
			ReportBackup(m.out, path, berr)
		case "3":
			err = m.recover()
		case "4":
			PrintSuccess(m.out, msgGoodbye)
			return nil
		default:
			PrintError(m.out, msgInvalidChoice)
		}
		if err != nil {
			return eofIsExit(err)
		}

		if _, err := m.prompt(promptContinue); err != nil {
			return eofIsExit(err)
		}
	}
}

// SelectIndex prompts for a number between 1 and n and returns it as a
// 0-based index. Non-numeric and out-of-range answers are invalid input.
func (m *Menu) SelectIndex(prompt string, n int) (int, error) {
	answer, err := m.prompt(prompt)
	if err != nil {
		return -1, err
	}

	num, err := strconv.Atoi(answer)
	if err != nil {
		return -1, saveerrors.InvalidInput("select", msgInvalidNumber)
	}
	if num < 1 || num > n {
		return -1, saveerrors.InvalidInput("select", msgInvalidSelect)
	}
	return num - 1, nil
}

func (m *Menu) replace() error {
	checkpoints, err := m.service.ListCheckpoints()
	if err != nil {
		PrintError(m.out, "Error listing checkpoints", err)
		return nil
	}
	if len(checkpoints) == 0 {
		PrintWarning(m.out, msgNoCheckpoints)
		return nil
	}

	PrintList(m.out, headingCheckpoint, checkpoints)
	idx, err := m.selectIndex(promptCheckpoint, len(checkpoints))
	if err != nil || idx < 0 {
		return err
	}

	m.screen()
	name := checkpoints[idx]
	_, err = m.service.Replace(name, m.NewObserver())
	ReportReplace(m.out, name, err)
	return nil
}

func (m *Menu) recover() error {
	backups, err := m.service.ListBackups()
	if err != nil {
		PrintError(m.out, "Error listing backups", err)
		return nil
	}
	if len(backups) == 0 {
		PrintWarning(m.out, msgNoBackups)
		return nil
	}

	names := make([]string, len(backups))
	for i, b := range backups {
		names[i] = b.Name
	}
	PrintList(m.out, headingBackup, names)
	idx, err := m.selectIndex(promptBackup, len(backups))
	if err != nil || idx < 0 {
		return err
	}

	m.screen()
	path := backups[idx].Path
	_, err = m.service.Recover(path, m.NewObserver())
	ReportRecover(m.out, path, err)
	return nil
}

// selectIndex reports invalid input and returns -1 for it. Only read
// errors are returned.
func (m *Menu) selectIndex(prompt string, n int) (int, error) {
	idx, err := m.SelectIndex(prompt, n)
	if saveerrors.IsInvalidInput(err) {
		var e *saveerrors.Error
		errors.As(err, &e)
		PrintError(m.out, e.Err.Error())
		return -1, nil
	}
	return idx, err
}

func (m *Menu) screen() {
	ClearScreen(m.out)
	DrawHeader(m.out, Title)
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, Green("Game Savedata Manager"))
	fmt.Fprintln(m.out, BrightGreen("1. Replace current savedata with a checkpoint"))
	fmt.Fprintln(m.out, BrightGreen("2. Back up current savedata"))
	fmt.Fprintln(m.out, BrightGreen("3. Recover a backup"))
	fmt.Fprintln(m.out, BrightGreen("4. Exit"))
}

// prompt prints text and reads one trimmed line. A final line without a
// newline still counts; io.EOF is only returned when nothing was read.
func (m *Menu) prompt(text string) (string, error) {
	fmt.Fprint(m.out, "\n"+Green(text))
	line, err := m.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func eofIsExit(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
