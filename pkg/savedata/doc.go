// Package savedata implements the user-facing save operations.
//
// Each operation is a short linear sequence with no retries and no rollback:
//
//	Replace(name):  validate checkpoint -> silent backup -> ensure live dir -> copy -> report
//	Backup(silent): check live dir -> copy to <live>-YYYYMMDD-HHMMSS -> report
//	Recover(path):  validate backup -> silent backup -> ensure live dir -> copy -> report
//
// Copies are overlays (see package dirsync). Backups are never deleted.
package savedata
