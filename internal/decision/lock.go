package decision

import (
	"fmt"
	"os"
	"syscall"
)

// fileLock serializes writers to the decision log across processes. The lock
// lives in a sidecar file next to the log so that Rewrite's atomic rename
// never swaps the inode a concurrent writer is blocked on.
type fileLock struct {
	f *os.File
}

// acquireLock blocks until the exclusive advisory lock is held.
func acquireLock(logPath string) (*fileLock, error) {
	f, err := os.OpenFile(logPath+".lock", os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX); err != nil {
		f.Close()
		return nil, fmt.Errorf("locking %s: %w", f.Name(), err)
	}
	return &fileLock{f: f}, nil
}

// release drops the lock. Safe to call once; use with defer.
func (l *fileLock) release() error {
	defer l.f.Close()
	if err := syscall.Flock(int(l.f.Fd()), syscall.LOCK_UN); err != nil {
		return fmt.Errorf("unlocking %s: %w", l.f.Name(), err)
	}
	return nil
}
