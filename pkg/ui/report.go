package ui

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	saveerrors "savedatamgr/pkg/errors"
	"savedatamgr/pkg/savedata"
)

// ReportReplace prints the outcome of a replace
func ReportReplace(w io.Writer, checkpoint string, err error) {
	switch {
	case err == nil:
		PrintSuccess(w, fmt.Sprintf("Successfully replaced savedata with checkpoint: %s", checkpoint))
	case saveerrors.IsNotFound(err):
		PrintError(w, fmt.Sprintf("Checkpoint '%s' not found!", checkpoint))
	default:
		PrintError(w, "Error replacing savedata", err)
	}
}

// ReportBackup prints the outcome of a backup
func ReportBackup(w io.Writer, path string, err error) {
	switch {
	case err == nil:
		PrintSuccess(w, fmt.Sprintf("Successfully backed up savedata to: %s", path))
	case errors.Is(err, savedata.ErrNoSaveData):
		PrintWarning(w, "No savedata found to backup!")
	default:
		PrintError(w, "Error backing up savedata", err)
	}
}

// ReportRecover prints the outcome of a recover
func ReportRecover(w io.Writer, path string, err error) {
	switch {
	case err == nil:
		PrintSuccess(w, fmt.Sprintf("Successfully recovered savedata from: %s", path))
	case saveerrors.IsNotFound(err):
		PrintError(w, fmt.Sprintf("Backup directory not found: %s", path))
	default:
		PrintError(w, "Error recovering savedata", err)
	}
}

// BackupLabel renders a backup's name followed by its dimmed age
func BackupLabel(b savedata.Backup) string {
	if b.CreatedAt.IsZero() {
		return b.Name
	}
	return b.Name + " " + Dim("("+humanize.Time(b.CreatedAt)+")")
}
