package paths

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"savedatamgr/pkg/config"
)

// TimestampLayout is the fixed-width suffix of backup directory names (YYYYMMDD-HHMMSS)
const TimestampLayout = "20060102-150405"

// Resolver computes the filesystem locations the manager operates on
type Resolver struct {
	UserProfile        string
	AppBaseDir         string
	Vendor             string
	Product            string
	CheckpointsDirName string
}

// NewResolver builds a Resolver from configuration, detecting any location left empty
func NewResolver(cfg *config.Config) *Resolver {
	r := &Resolver{
		UserProfile:        cfg.Paths.UserProfile,
		AppBaseDir:         cfg.Paths.AppBaseDir,
		Vendor:             cfg.Game.Vendor,
		Product:            cfg.Game.Product,
		CheckpointsDirName: cfg.Paths.CheckpointsDirName,
	}
	if r.UserProfile == "" {
		r.UserProfile = DefaultUserProfile()
	}
	if r.AppBaseDir == "" {
		r.AppBaseDir = DefaultAppBaseDir()
	}
	return r
}

// LiveSaveDirectory returns <UserProfile>/AppData/LocalLow/<Vendor>/<Product>.
// Existence is not checked.
func (r *Resolver) LiveSaveDirectory() string {
	return filepath.Join(r.UserProfile, "AppData", "LocalLow", r.Vendor, r.Product)
}

// CheckpointsDirectory returns the checkpoints root beside the application
func (r *Resolver) CheckpointsDirectory() string {
	return filepath.Join(r.AppBaseDir, r.CheckpointsDirName)
}

// CheckpointPath returns the directory of the named checkpoint
func (r *Resolver) CheckpointPath(name string) string {
	return filepath.Join(r.CheckpointsDirectory(), name)
}

// BackupPath returns <liveDir>-<YYYYMMDD-HHMMSS> for t
func BackupPath(liveDir string, t time.Time) string {
	return liveDir + "-" + t.Format(TimestampLayout)
}

// ParseBackupTime extracts the timestamp from a backup directory name
// belonging to a live directory with basename base.
func ParseBackupTime(base, name string) (time.Time, bool) {
	suffix, ok := strings.CutPrefix(name, base+"-")
	if !ok || len(suffix) != len(TimestampLayout) {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(TimestampLayout, suffix, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// BackupPattern returns a doublestar pattern matching exactly the backup
// names of a live directory with basename base: base-########-######.
func BackupPattern(base string) string {
	digit := "[0-9]"
	return escapeMeta(base) + "-" + strings.Repeat(digit, 8) + "-" + strings.Repeat(digit, 6)
}

// escapeMeta backslash-escapes doublestar metacharacters
func escapeMeta(s string) string {
	var b strings.Builder
	for _, c := range s {
		switch c {
		case '*', '?', '[', ']', '{', '}', '\\':
			b.WriteRune('\\')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// DefaultUserProfile returns the current user's profile directory.
// %USERPROFILE% wins on Windows; elsewhere the home directory is used.
func DefaultUserProfile() string {
	if runtime.GOOS == "windows" {
		if p := os.Getenv("USERPROFILE"); p != "" {
			return p
		}
	}
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// DefaultAppBaseDir returns the directory holding the running executable.
// Under `go run` the executable lives in a temp dir, so the working directory
// is used instead.
func DefaultAppBaseDir() string {
	exe, err := os.Executable()
	if err != nil {
		return workingDir()
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	if strings.HasPrefix(dir, filepath.Clean(os.TempDir())) && strings.Contains(dir, "go-build") {
		return workingDir()
	}
	return dir
}

func workingDir() string {
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}
