package lockfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if l.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", l.PID, os.Getpid())
	}
	if _, err := os.Stat(l.Path()); err != nil {
		t.Errorf("lock file missing: %v", err)
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := os.Stat(l.Path()); !os.IsNotExist(err) {
		t.Error("lock file survives Release")
	}
}

func TestAcquireHeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()

	l, err := Acquire(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer l.Release()

	_, err = Acquire(dir)
	var locked *ErrLocked
	if !errors.As(err, &locked) {
		t.Fatalf("second Acquire err = %v, want *ErrLocked", err)
	}
	if locked.PID != os.Getpid() {
		t.Errorf("ErrLocked.PID = %d", locked.PID)
	}
}

func TestAcquireReplacesStaleLock(t *testing.T) {
	dir := t.TempDir()
	stale := "pid: 999999999\nstarted_at: 2024-01-01T00:00:00Z\n"
	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte(stale), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire over stale lock: %v", err)
	}
	defer l.Release()
	if l.PID != os.Getpid() {
		t.Errorf("PID = %d", l.PID)
	}
}

func TestAcquireReplacesCorruptLock(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, LockFileName), []byte(":::"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Acquire(dir)
	if err != nil {
		t.Fatalf("Acquire over corrupt lock: %v", err)
	}
	defer l.Release()
}
