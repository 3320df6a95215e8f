// Package lockfile implements potui.lock — an advisory per-project lock
// that keeps two potui instances from mangling the same catalogs. The
// lock file lives next to .potui.yaml and records the holder's pid, so
// a lock left behind by a dead process is detected and taken over.
package lockfile

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"
)

// LockFileName is the lock file name, created in the project root.
const LockFileName = "potui.lock"

// Lock is the on-disk structure plus the path it was acquired at.
type Lock struct {
	PID       int       `yaml:"pid"`
	StartedAt time.Time `yaml:"started_at"`

	path string `yaml:"-"`
}

// ErrLocked reports that another live process holds the project lock.
type ErrLocked struct {
	Path string
	PID  int
}

func (e *ErrLocked) Error() string {
	return fmt.Sprintf("project is locked by running process %d (%s)", e.PID, e.Path)
}

// Acquire takes the project lock in dir. A lock held by a live process
// fails with *ErrLocked; a stale lock from a dead process is replaced.
func Acquire(dir string) (*Lock, error) {
	path := filepath.Join(dir, LockFileName)

	if existing, err := read(path); err == nil && existing != nil {
		if processAlive(existing.PID) {
			return nil, &ErrLocked{Path: path, PID: existing.PID}
		}
		// stale lock from a dead process
		os.Remove(path)
	}

	l := &Lock{
		PID:       os.Getpid(),
		StartedAt: time.Now(),
		path:      path,
	}
	data, err := yaml.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encoding lock: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return l, nil
}

// Release removes the lock file. Only the holder should call it.
func (l *Lock) Release() error {
	if l.path == "" {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", l.path, err)
	}
	return nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.path
}

func read(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var l Lock
	if err := yaml.Unmarshal(data, &l); err != nil {
		// an unreadable lock file is treated as stale
		return nil, nil
	}
	l.path = path
	return &l, nil
}

// processAlive probes a pid with signal 0.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return proc.Signal(syscall.Signal(0)) == nil
}
