package savedata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/juju/clock/testclock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"savedatamgr/pkg/dirsync"
	saveerrors "savedatamgr/pkg/errors"
	"savedatamgr/pkg/logger"
	"savedatamgr/pkg/paths"
)

var testNow = time.Date(2024, time.March, 7, 9, 5, 3, 0, time.Local)

type fixture struct {
	resolver *paths.Resolver
	clock    *testclock.Clock
	log      *logger.TestLogger
	manager  *Manager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		resolver: &paths.Resolver{
			UserProfile:        filepath.Join(root, "profile"),
			AppBaseDir:         filepath.Join(root, "app"),
			Vendor:             "GameCreatorNeko",
			Product:            "Save",
			CheckpointsDirName: "checkpoints",
		},
		clock: testclock.NewClock(testNow),
		log:   logger.NewTestLogger(),
	}
	f.manager = f.newManager(dirsync.New(
		dirsync.WithSteps(3),
		dirsync.WithInterval(time.Millisecond),
		dirsync.WithLogger(logger.NewNopLogger()),
	))
	return f
}

func (f *fixture) newManager(c Copier) *Manager {
	return NewManager(f.resolver, c, WithClock(f.clock), WithLogger(f.log))
}

func (f *fixture) live() string { return f.resolver.LiveSaveDirectory() }

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// failingCopier delegates to a real copier but can fail either copy mode
type failingCopier struct {
	Copier
	copyErr     error
	copyTreeErr error
}

func (c *failingCopier) Copy(src, dst string) (*dirsync.Result, error) {
	if c.copyErr != nil {
		return nil, c.copyErr
	}
	return c.Copier.Copy(src, dst)
}

func (c *failingCopier) CopyTree(src, dst string, obs dirsync.Observer) (*dirsync.Result, error) {
	if c.copyTreeErr != nil {
		return nil, c.copyTreeErr
	}
	return c.Copier.CopyTree(src, dst, obs)
}

type countingObserver struct{ updates, finishes int }

func (o *countingObserver) Start(string)            {}
func (o *countingObserver) Update(dirsync.Progress) { o.updates++ }
func (o *countingObserver) Finish()                 { o.finishes++ }

func TestReplace(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.resolver.CheckpointPath("ep3"), map[string]string{
		"a.dat":     "episode 3 a",
		"sub/b.dat": "episode 3 b",
	})
	writeTree(t, f.live(), map[string]string{
		"a.dat":   "current a",
		"old.dat": "current only",
	})

	obs := &countingObserver{}
	res, err := f.manager.Replace("ep3", obs)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Files)
	assert.Equal(t, 1, obs.finishes)

	assert.Equal(t, "episode 3 a", readFile(t, filepath.Join(f.live(), "a.dat")))
	assert.Equal(t, "episode 3 b", readFile(t, filepath.Join(f.live(), "sub", "b.dat")))
	assert.Equal(t, "current only", readFile(t, filepath.Join(f.live(), "old.dat")), "overlay keeps extra files")

	backups, err := f.manager.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 1, "exactly one silent backup")
	assert.Equal(t, paths.BackupPath(f.live(), testNow), backups[0].Path)
	assert.True(t, backups[0].CreatedAt.Equal(testNow))
	assert.Equal(t, "current a", readFile(t, filepath.Join(backups[0].Path, "a.dat")))

	assert.True(t, f.log.HasMessage("Silent backup created"))
	assert.True(t, f.log.HasMessage("Operation completed"))
}

func TestReplaceWithoutLiveDirectory(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.resolver.CheckpointPath("ep1"), map[string]string{"a.dat": "A"})

	_, err := f.manager.Replace("ep1", nil)
	require.NoError(t, err)

	assert.Equal(t, "A", readFile(t, filepath.Join(f.live(), "a.dat")))
	backups, err := f.manager.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)

	debug := f.log.GetMessagesByLevel("DEBUG")
	require.NotEmpty(t, debug)
	assert.Equal(t, "Silent backup failed", debug[0].Message)
	assert.True(t, errors.Is(debug[0].Error, ErrNoSaveData))
}

func TestReplaceMissingCheckpoint(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.live(), map[string]string{"a.dat": "current"})
	writeTree(t, f.resolver.CheckpointsDirectory(), map[string]string{"file-not-dir": "x"})

	for _, name := range []string{"missing", "file-not-dir", "", "..", "../app"} {
		t.Run(name, func(t *testing.T) {
			_, err := f.manager.Replace(name, nil)
			require.Error(t, err)
			assert.True(t, saveerrors.IsNotFound(err))
		})
	}

	backups, err := f.manager.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups, "validation failures take no backup")
	assert.Equal(t, "current", readFile(t, filepath.Join(f.live(), "a.dat")))
}

func TestReplaceCopyFailure(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.resolver.CheckpointPath("ep3"), map[string]string{"a.dat": "A"})

	m := f.newManager(&failingCopier{
		Copier:      dirsync.New(dirsync.WithLogger(logger.NewNopLogger())),
		copyTreeErr: saveerrors.IO("copy", f.live(), errors.New("disk full")),
	})

	_, err := m.Replace("ep3", nil)
	require.Error(t, err)
	assert.True(t, saveerrors.IsIO(err))
	assert.Contains(t, err.Error(), "disk full")
	assert.True(t, f.log.HasMessage("Operation failed"))
}

func TestSilentBackupFailureIsSwallowed(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.resolver.CheckpointPath("ep3"), map[string]string{"a.dat": "A"})
	writeTree(t, f.live(), map[string]string{"a.dat": "current"})

	m := f.newManager(&failingCopier{
		Copier:  dirsync.New(dirsync.WithSteps(2), dirsync.WithInterval(0), dirsync.WithLogger(logger.NewNopLogger())),
		copyErr: saveerrors.IO("copy", "backup", errors.New("permission denied")),
	})

	_, err := m.Replace("ep3", nil)
	require.NoError(t, err)
	assert.Equal(t, "A", readFile(t, filepath.Join(f.live(), "a.dat")))

	failed := false
	for _, msg := range f.log.GetMessagesByLevel("DEBUG") {
		if msg.Message == "Silent backup failed" {
			failed = true
			assert.Contains(t, msg.Error.Error(), "permission denied")
		}
	}
	assert.True(t, failed, "silent backup failure is logged at debug")
}

func TestBackup(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.live(), map[string]string{"a.dat": "A", "sub/b.dat": "B"})

	obs := &countingObserver{}
	path, err := f.manager.Backup(false, obs)
	require.NoError(t, err)

	assert.Equal(t, f.live()+"-20240307-090503", path)
	assert.Equal(t, "B", readFile(t, filepath.Join(path, "sub", "b.dat")))
	assert.GreaterOrEqual(t, obs.updates, 3)
	assert.Equal(t, 1, obs.finishes)

	updates := obs.updates
	f.clock.Advance(time.Second)
	silentPath, err := f.manager.Backup(true, obs)
	require.NoError(t, err)
	assert.Equal(t, f.live()+"-20240307-090504", silentPath)
	assert.Equal(t, updates, obs.updates, "silent backups report no progress")
	assert.Equal(t, 1, obs.finishes)
}

func TestBackupNothingToBackUp(t *testing.T) {
	f := newFixture(t)

	_, err := f.manager.Backup(false, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoSaveData))
	assert.True(t, saveerrors.IsNotFound(err))
}

func TestRecover(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.live(), map[string]string{"a.dat": "before"})

	backup, err := f.manager.Backup(true, nil)
	require.NoError(t, err)

	writeTree(t, f.live(), map[string]string{"a.dat": "after"})
	f.clock.Advance(time.Minute)

	_, err = f.manager.Recover(backup, nil)
	require.NoError(t, err)
	assert.Equal(t, "before", readFile(t, filepath.Join(f.live(), "a.dat")))

	backups, err := f.manager.ListBackups()
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "after", readFile(t, filepath.Join(backups[0].Path, "a.dat")), "pre-recover state was saved")
}

func TestRecoverSameSecondBackup(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.live(), map[string]string{"a.dat": "before"})

	backup, err := f.manager.Backup(true, nil)
	require.NoError(t, err)
	writeTree(t, f.live(), map[string]string{"a.dat": "after"})

	_, err = f.manager.Recover(backup, nil)
	require.NoError(t, err)
	assert.Equal(t, "before", readFile(t, filepath.Join(f.live(), "a.dat")))
	assert.Equal(t, "before", readFile(t, filepath.Join(backup, "a.dat")), "backup was not overwritten")
}

func TestRecoverMissingBackup(t *testing.T) {
	f := newFixture(t)
	writeTree(t, f.live(), map[string]string{"a.dat": "current"})

	_, err := f.manager.Recover(filepath.Join(t.TempDir(), "gone"), nil)
	require.Error(t, err)
	assert.True(t, saveerrors.IsNotFound(err))

	assert.Equal(t, "current", readFile(t, filepath.Join(f.live(), "a.dat")))
	entries, err := os.ReadDir(f.live())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	backups, err := f.manager.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestListCheckpoints(t *testing.T) {
	f := newFixture(t)

	names, err := f.manager.ListCheckpoints()
	require.NoError(t, err)
	assert.Empty(t, names, "missing root is not an error")

	root := f.resolver.CheckpointsDirectory()
	for _, dir := range []string{"ep3", "ep1", "Ep2", "ep10"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}
	writeTree(t, root, map[string]string{"readme.txt": "not a checkpoint"})

	names, err = f.manager.ListCheckpoints()
	require.NoError(t, err)
	assert.Equal(t, []string{"Ep2", "ep1", "ep10", "ep3"}, names)
}

func TestListBackups(t *testing.T) {
	f := newFixture(t)
	parent := filepath.Dir(f.live())

	for _, dir := range []string{
		"Save-20240101-120000",
		"Save-20240315-080000",
		"Save-20231231-235959",
		"Save-old",
		"Save-20240101-1200",
		"Other-20240101-000000",
		"Save",
	} {
		require.NoError(t, os.MkdirAll(filepath.Join(parent, dir), 0o755))
	}
	writeTree(t, parent, map[string]string{"Save-20240102-000000": "a file, not a backup"})

	backups, err := f.manager.ListBackups()
	require.NoError(t, err)

	var names []string
	for _, b := range backups {
		names = append(names, b.Name)
		assert.Equal(t, filepath.Join(parent, b.Name), b.Path)
	}
	assert.Equal(t, []string{"Save-20240315-080000", "Save-20240101-120000", "Save-20231231-235959"}, names)
	assert.Equal(t, time.Date(2024, time.March, 15, 8, 0, 0, 0, time.Local), backups[0].CreatedAt)
}

func TestListBackupsMissingParent(t *testing.T) {
	f := newFixture(t)
	backups, err := f.manager.ListBackups()
	require.NoError(t, err)
	assert.Empty(t, backups)
}

func TestResolveBackup(t *testing.T) {
	f := newFixture(t)
	parent := filepath.Dir(f.live())

	assert.Equal(t, filepath.Join(parent, "Save-20240101-120000"), f.manager.ResolveBackup("Save-20240101-120000"))
	abs := filepath.Join(t.TempDir(), "elsewhere")
	assert.Equal(t, abs, f.manager.ResolveBackup(abs))
	assert.Equal(t, "rel/dir", f.manager.ResolveBackup("rel/dir"))
}
