package dirsync

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	saveerrors "savedatamgr/pkg/errors"
)

// Result summarizes a finished copy
type Result struct {
	Files    int
	Dirs     int
	Symlinks int
	Skipped  int
	Bytes    int64
	Duration time.Duration
}

func (r *Result) String() string {
	return fmt.Sprintf("%d files, %s in %s", r.Files, humanize.Bytes(uint64(r.Bytes)), r.Duration.Round(time.Millisecond))
}

// resolveSource fails with a not-found error unless src is an existing
// directory. A symlinked root is resolved so the walk descends into it.
func resolveSource(op, src string) (string, error) {
	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return "", saveerrors.NotFound(op, src)
		}
		return "", saveerrors.IO(op, src, err)
	}
	if !info.IsDir() {
		return "", saveerrors.NotFound(op, src)
	}
	resolved, err := filepath.EvalSymlinks(src)
	if err != nil {
		return "", saveerrors.IO(op, src, err)
	}
	return resolved, nil
}

// copyDir overlays the tree at src onto dst. Existing files in dst are
// overwritten, files only present in dst are left alone.
func copyDir(src, dst string) (*Result, error) {
	res := &Result{}

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return saveerrors.IO("copy", path, walkErr)
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return saveerrors.IO("copy", path, err)
		}
		target := filepath.Join(dst, rel)

		info, err := d.Info()
		if err != nil {
			return saveerrors.IO("copy", path, err)
		}

		switch {
		case d.IsDir():
			if err := os.MkdirAll(target, info.Mode().Perm()|0o700); err != nil {
				return saveerrors.IO("copy", target, err)
			}
			if rel != "." {
				res.Dirs++
			}
		case d.Type()&fs.ModeSymlink != 0:
			if err := copySymlink(path, target); err != nil {
				return saveerrors.IO("copy", target, err)
			}
			res.Symlinks++
		case d.Type().IsRegular():
			n, err := copyFile(path, target, info)
			if err != nil {
				return saveerrors.IO("copy", target, err)
			}
			res.Files++
			res.Bytes += n
		default:
			// sockets, devices and pipes have no place in a save tree
			res.Skipped++
		}
		return nil
	})

	return res, err
}

// copyFile stages src in a uniquely named hidden sibling of dst and renames it
// into place, keeping the source mode and modification time. The staging
// name never collides with an existing destination entry.
func copyFile(src, dst string, info fs.FileInfo) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".*.tmp")
	if err != nil {
		return 0, err
	}
	tmp := out.Name()

	n, err := io.Copy(out, in)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmp, info.Mode().Perm())
	}
	if err == nil {
		err = os.Rename(tmp, dst)
	}
	if err != nil {
		os.Remove(tmp)
		return 0, err
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return n, err
	}
	return n, nil
}

// copySymlink recreates the link at src as dst, replacing any non-directory at dst
func copySymlink(src, dst string) error {
	link, err := os.Readlink(src)
	if err != nil {
		return err
	}
	if fi, err := os.Lstat(dst); err == nil && !fi.IsDir() {
		if err := os.Remove(dst); err != nil {
			return err
		}
	}
	return os.Symlink(link, dst)
}
