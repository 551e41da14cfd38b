package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"
)

// featureLockFile is the on-disk format of a per-feature advisory lock.
// A writer that finds a lock held by a process that no longer exists, or
// one older than the staleness threshold, may take it over.
type featureLockFile struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	AcquiredAt time.Time `json:"acquired_at"`
}

// acquireLock claims the advisory lock file at path. It returns a
// release func on success. Contention with a live holder is an error,
// surfaced to the caller rather than retried.
func acquireLock(path string, stale time.Duration) (release func(), err error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("failed to get hostname: %w", err)
	}
	lock := featureLockFile{
		PID:        os.Getpid(),
		Hostname:   hostname,
		AcquiredAt: time.Now().UTC(),
	}
	data, err := json.Marshal(lock)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lock: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if err == nil {
			_, werr := f.Write(data)
			cerr := f.Close()
			if werr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", werr)
			}
			if cerr != nil {
				_ = os.Remove(path)
				return nil, fmt.Errorf("failed to close lock file: %w", cerr)
			}
			return func() { _ = os.Remove(path) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		// Lock exists. Take over only if the holder is gone or stale.
		existing, rerr := readLock(path)
		if rerr == nil && isProcessAlive(existing.PID, existing.Hostname) &&
			time.Since(existing.AcquiredAt) < stale {
			return nil, fmt.Errorf("feature is locked by PID %d on %s since %s",
				existing.PID, existing.Hostname, existing.AcquiredAt.Format(time.RFC3339))
		}
		_ = os.Remove(path)
	}
	return nil, fmt.Errorf("failed to acquire lock after stale takeover")
}

func readLock(path string) (*featureLockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var lock featureLockFile
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, err
	}
	return &lock, nil
}

// isProcessAlive checks if a process with the given PID exists on the
// given hostname. Remote holders cannot be probed and are assumed alive.
func isProcessAlive(pid int, hostname string) bool {
	currentHost, err := os.Hostname()
	if err != nil {
		return true
	}
	if !strings.EqualFold(hostname, currentHost) {
		return true
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	// EPERM means the process exists but belongs to someone else.
	if err == syscall.EPERM {
		return true
	}
	return false
}
