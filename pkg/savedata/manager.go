package savedata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/juju/clock"
	"savedatamgr/pkg/dirsync"
	saveerrors "savedatamgr/pkg/errors"
	"savedatamgr/pkg/logger"
	"savedatamgr/pkg/paths"
)

// ErrNoSaveData is returned by Backup when the live save directory does not exist
var ErrNoSaveData = errors.New("no savedata found to backup")

// Copier copies directory trees. *dirsync.Synchronizer implements it.
type Copier interface {
	CopyTree(src, dst string, obs dirsync.Observer) (*dirsync.Result, error)
	Copy(src, dst string) (*dirsync.Result, error)
}

// Backup is a timestamped snapshot of the live save directory
type Backup struct {
	Name      string
	Path      string
	CreatedAt time.Time
}

// Manager runs the replace, backup and recover operations
type Manager struct {
	resolver *paths.Resolver
	copier   Copier
	clock    clock.Clock
	logger   logger.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithClock sets the clock used to timestamp backups
func WithClock(c clock.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager creates a Manager
func NewManager(resolver *paths.Resolver, copier Copier, opts ...Option) *Manager {
	m := &Manager{
		resolver: resolver,
		copier:   copier,
		clock:    clock.WallClock,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = logger.GetLogger()
	}
	return m
}

// LiveSaveDirectory returns the directory the game reads and writes
func (m *Manager) LiveSaveDirectory() string {
	return m.resolver.LiveSaveDirectory()
}

// CheckpointsDirectory returns the checkpoints root
func (m *Manager) CheckpointsDirectory() string {
	return m.resolver.CheckpointsDirectory()
}

// ListCheckpoints returns the names of the checkpoint directories, sorted
// ascending. A missing checkpoints root yields an empty list.
func (m *Manager) ListCheckpoints() ([]string, error) {
	root := m.resolver.CheckpointsDirectory()
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, saveerrors.IO("list checkpoints", root, err)
	}

	var names []string
	for _, entry := range entries {
		if isDir(filepath.Join(root, entry.Name())) {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// ListBackups returns the backups of the live save directory, most recent first
func (m *Manager) ListBackups() ([]Backup, error) {
	live := m.resolver.LiveSaveDirectory()
	parent, base := filepath.Dir(live), filepath.Base(live)

	entries, err := os.ReadDir(parent)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, saveerrors.IO("list backups", parent, err)
	}

	pattern := paths.BackupPattern(base)
	var backups []Backup
	for _, entry := range entries {
		name := entry.Name()
		if ok, _ := doublestar.Match(pattern, name); !ok {
			continue
		}
		path := filepath.Join(parent, name)
		if !isDir(path) {
			continue
		}
		created, _ := paths.ParseBackupTime(base, name)
		backups = append(backups, Backup{Name: name, Path: path, CreatedAt: created})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
	return backups, nil
}

// ResolveBackup turns a backup name into a path beside the live directory.
// Anything that already looks like a path is returned unchanged.
func (m *Manager) ResolveBackup(ref string) string {
	if filepath.IsAbs(ref) || strings.ContainsAny(ref, `/\`) {
		return ref
	}
	return filepath.Join(filepath.Dir(m.resolver.LiveSaveDirectory()), ref)
}

// Replace overwrites the live save directory with the named checkpoint. The
// current live directory is backed up silently first.
func (m *Manager) Replace(name string, obs dirsync.Observer) (*dirsync.Result, error) {
	src := m.resolver.CheckpointPath(name)
	if !validName(name) || !isDir(src) {
		err := saveerrors.NotFound("replace", src)
		logger.LogOperation(m.logger, "replace", name, err)
		return nil, fmt.Errorf("checkpoint %q not found: %w", name, err)
	}

	res, err := m.restore("replace", src, obs)
	logger.LogOperation(m.logger, "replace", name, err)
	if err != nil {
		return res, fmt.Errorf("failed to replace savedata with checkpoint %q: %w", name, err)
	}
	return res, nil
}

// Recover overwrites the live save directory with the backup at backupPath.
// The current live directory is backed up silently first.
func (m *Manager) Recover(backupPath string, obs dirsync.Observer) (*dirsync.Result, error) {
	if !isDir(backupPath) {
		err := saveerrors.NotFound("recover", backupPath)
		logger.LogOperation(m.logger, "recover", backupPath, err)
		return nil, fmt.Errorf("backup directory not found: %w", err)
	}

	res, err := m.restore("recover", backupPath, obs)
	logger.LogOperation(m.logger, "recover", backupPath, err)
	if err != nil {
		return res, fmt.Errorf("failed to recover savedata from %s: %w", backupPath, err)
	}
	return res, nil
}

// Backup snapshots the live save directory to <live>-<timestamp> and returns
// the new path. A silent backup copies synchronously without progress.
func (m *Manager) Backup(silent bool, obs dirsync.Observer) (string, error) {
	live := m.resolver.LiveSaveDirectory()
	if !isDir(live) {
		return "", &saveerrors.Error{Type: saveerrors.ErrorTypeNotFound, Op: "backup", Path: live, Err: ErrNoSaveData}
	}

	dst := paths.BackupPath(live, m.clock.Now())
	var err error
	if silent {
		_, err = m.copier.Copy(live, dst)
	} else {
		_, err = m.copier.CopyTree(live, dst, obs)
	}
	if err != nil {
		if !silent {
			logger.LogOperation(m.logger, "backup", dst, err)
		}
		return "", fmt.Errorf("failed to back up savedata: %w", err)
	}

	if !silent {
		logger.LogOperation(m.logger, "backup", dst, nil)
	}
	return dst, nil
}

// restore is the shared tail of Replace and Recover: silent pre-backup,
// ensure the live directory exists, then overlay src onto it.
func (m *Manager) restore(op, src string, obs dirsync.Observer) (*dirsync.Result, error) {
	live := m.resolver.LiveSaveDirectory()

	// A backup taken within the same second would land on src itself.
	if filepath.Clean(paths.BackupPath(live, m.clock.Now())) == filepath.Clean(src) {
		m.logger.DebugWithFields("Skipping silent backup onto its own source", map[string]interface{}{
			"operation": op,
			"path":      src,
		})
	} else {
		m.silentBackup(op)
	}

	if err := os.MkdirAll(live, 0o755); err != nil {
		return nil, saveerrors.IO(op, live, err)
	}

	return m.copier.CopyTree(src, live, obs)
}

// silentBackup is a best-effort safety net. Failures are logged at debug and
// never reach the caller.
func (m *Manager) silentBackup(op string) {
	path, err := m.Backup(true, nil)
	if err != nil {
		m.logger.WithError(err).DebugWithFields("Silent backup failed", map[string]interface{}{
			"operation": op,
		})
		return
	}
	m.logger.DebugWithFields("Silent backup created", map[string]interface{}{
		"operation": op,
		"path":      path,
	})
}

func validName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
