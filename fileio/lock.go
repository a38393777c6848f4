package fileio

import (
	"golang.org/x/sys/unix"

	"github.com/waxmem/wax/errs"
)

// LockMode selects the advisory lock mode acquired on open.
type LockMode int

const (
	// LockExclusive is held by the single writer for the process's
	// lifetime; a second process opening read-write fails with
	// errs.ErrLocked.
	LockExclusive LockMode = iota
	// LockShared permits multiple concurrent readers but excludes any
	// exclusive holder.
	LockShared
)

// Lock acquires a POSIX-advisory lock on f in the given mode, non-
// blocking: if the lock is already held incompatibly, it returns
// errs.ErrLocked immediately rather than waiting. The lock is released by
// Unlock, normally deferred until the process (or store) shuts down —
// per spec.md §4.4, "held for the process's lifetime."
func Lock(f *File, mode LockMode) error {
	how := unix.LOCK_EX
	if mode == LockShared {
		how = unix.LOCK_SH
	}

	if err := unix.Flock(int(f.Fd()), how|unix.LOCK_NB); err != nil {
		if err == unix.EWOULDBLOCK {
			return errs.ErrLocked
		}
		return errs.IO("flock failed", err)
	}

	return nil
}

// Unlock releases a lock acquired with Lock.
func Unlock(f *File) error {
	if err := unix.Flock(int(f.Fd()), unix.LOCK_UN); err != nil {
		return errs.IO("flock unlock failed", err)
	}
	return nil
}
