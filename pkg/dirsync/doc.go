// Package dirsync performs overlay copies of directory trees.
//
// CopyTree merges a source tree into a destination: files in the source
// overwrite their counterparts, files that exist only in the destination are
// left untouched. It is not a mirror.
//
// The copy runs in a single background goroutine while the caller's goroutine
// drives a fixed number of synthetic progress steps to an Observer. The steps
// are cosmetic: they measure elapsed ticks, not bytes. The last step is held
// back until the copy really finishes, so an observer never sees 100% early.
//
//	s := dirsync.New(dirsync.WithSteps(50), dirsync.WithInterval(50*time.Millisecond))
//	res, err := s.CopyTree(src, dst, bar)
package dirsync
