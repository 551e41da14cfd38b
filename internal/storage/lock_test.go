package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAcquireAndReleaseLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".feat.lock")

	release, err := acquireLock(path, time.Minute)
	if err != nil {
		t.Fatalf("acquireLock: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("lock file missing: %v", err)
	}

	// Held by this live process: a second acquire must fail.
	if _, err := acquireLock(path, time.Minute); err == nil {
		t.Fatal("expected contention error while lock is held")
	}

	release()
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("lock file still present after release: %v", err)
	}

	// Reacquirable after release.
	release2, err := acquireLock(path, time.Minute)
	if err != nil {
		t.Fatalf("reacquire after release: %v", err)
	}
	release2()
}

func TestStaleLockTakeover(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".feat.lock")

	hostname, _ := os.Hostname()
	// A PID beyond the kernel's pid space cannot be a live local process.
	dead := featureLockFile{PID: 1 << 22, Hostname: hostname, AcquiredAt: time.Now().UTC()}
	data, _ := json.Marshal(dead)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	release, err := acquireLock(path, time.Minute)
	if err != nil {
		t.Fatalf("expected takeover of dead holder's lock, got %v", err)
	}
	release()
}

func TestExpiredLockTakeover(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".feat.lock")

	hostname, _ := os.Hostname()
	// Held by this live process but past the staleness threshold.
	old := featureLockFile{PID: os.Getpid(), Hostname: hostname, AcquiredAt: time.Now().UTC().Add(-time.Hour)}
	data, _ := json.Marshal(old)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	release, err := acquireLock(path, 10*time.Minute)
	if err != nil {
		t.Fatalf("expected takeover of expired lock, got %v", err)
	}
	release()
}

func TestCorruptLockTakeover(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".feat.lock")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	release, err := acquireLock(path, time.Minute)
	if err != nil {
		t.Fatalf("expected takeover of corrupt lock, got %v", err)
	}
	release()
}
