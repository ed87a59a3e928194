package persist

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/renameio/v2"
)

const lockRetryDelay = 25 * time.Millisecond

// withFileLock runs fn while holding an exclusive lock on path+".lock".
func withFileLock(ctx context.Context, path string, fn func() error) error {
	return runLocked(ctx, path, true, fn)
}

// withReadLock runs fn while holding a shared lock on path+".lock". When the
// lock file cannot be created, as in a read-only directory, fn runs unlocked.
func withReadLock(ctx context.Context, path string, fn func() error) error {
	return runLocked(ctx, path, false, fn)
}

func runLocked(ctx context.Context, path string, exclusive bool, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock := flock.New(path + ".lock")

	var locked bool
	var err error
	if exclusive {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		if !exclusive && lockFileUnwritable(err) {
			return fn()
		}
		return &IOError{Op: "lock", Path: path, Err: err}
	}
	if !locked {
		return &IOError{Op: "lock", Path: path, Err: errors.New("lock not acquired")}
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

func lockFileUnwritable(err error) bool {
	return errors.Is(err, fs.ErrPermission) || errors.Is(err, syscall.EROFS)
}

// exists reports whether path names an existing file. Errors other than
// "does not exist" are returned as *IOError.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &IOError{Op: "stat", Path: path, Err: err}
}

// ensureDir creates the parent directory of path.
func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	return nil
}

// writeAtomic replaces path with data via a synced temporary file and rename.
func writeAtomic(path string, data []byte) error {
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
