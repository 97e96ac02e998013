package lock

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/fsutil"
	"github.com/versync-project/versync/pkg/model"
)

// DefaultTTL bounds how long a crashed run can keep the repository locked.
const DefaultTTL = 10 * time.Minute

// Manager guards the repository-wide sync lock. Only one synchronization
// run may write manifests at a time.
type Manager struct {
	repoRoot string
	ttl      time.Duration
	mu       sync.Mutex
}

// NewManager creates a lock manager for the repository. A zero ttl
// selects DefaultTTL.
func NewManager(repoRoot string, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		repoRoot: repoRoot,
		ttl:      ttl,
	}
}

// Acquire attempts to take the sync lock for the given transaction.
// An expired lock left behind by a crashed run is stolen.
func (m *Manager) Acquire(txID, purpose string) (*model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	lockPath := m.lockPath()
	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}

	// Try O_CREAT|O_EXCL for atomic acquire
	file, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		if os.IsExist(err) {
			rec, readErr := m.readLock(lockPath)
			if readErr != nil {
				// Unreadable lock file, treat as stale
				return m.stealLocked(txID, purpose)
			}
			if rec.IsExpired(time.Now()) {
				return m.stealLocked(txID, purpose)
			}
			return nil, errclass.ErrVersionConflict.WithMessagef(
				"another synchronization run is in flight (pid %d on %s, expires %s)",
				rec.PID, rec.Hostname, rec.ExpiresAt.Format(time.RFC3339))
		}
		return nil, fmt.Errorf("create lock: %w", err)
	}
	defer file.Close()

	rec := m.newRecord(txID, purpose)
	if err := m.writeLock(file, rec); err != nil {
		os.Remove(lockPath)
		return nil, err
	}
	return rec, nil
}

// Release frees the sync lock held by txID. Releasing a lock that is
// already gone is not an error.
func (m *Manager) Release(txID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lockPath := m.lockPath()
	rec, err := m.readLock(lockPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // already released
		}
		return fmt.Errorf("read lock: %w", err)
	}

	if rec.TxID != txID {
		return errclass.ErrVersionConflict.WithMessagef(
			"cannot release: lock held by transaction %s", rec.TxID)
	}

	if err := os.Remove(lockPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove lock: %w", err)
	}
	return nil
}

// Current returns the lock record if one exists, or nil when the
// repository is unlocked.
func (m *Manager) Current() (*model.LockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.readLock(m.lockPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read lock: %w", err)
	}
	return rec, nil
}

// stealLocked replaces an expired or unreadable lock. Caller holds m.mu.
func (m *Manager) stealLocked(txID, purpose string) (*model.LockRecord, error) {
	rec := m.newRecord(txID, purpose)
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal lock: %w", err)
	}
	if err := fsutil.AtomicWrite(m.lockPath(), data, 0644); err != nil {
		return nil, fmt.Errorf("steal lock: %w", err)
	}
	return rec, nil
}

func (m *Manager) newRecord(txID, purpose string) *model.LockRecord {
	now := time.Now().UTC()
	hostname, _ := os.Hostname()
	return &model.LockRecord{
		PID:        os.Getpid(),
		Hostname:   hostname,
		TxID:       txID,
		AcquiredAt: now,
		ExpiresAt:  now.Add(m.ttl),
		Purpose:    purpose,
	}
}

func (m *Manager) lockPath() string {
	return filepath.Join(m.repoRoot, ".versync", "lock")
}

func (m *Manager) readLock(path string) (*model.LockRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rec model.LockRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse lock: %w", err)
	}
	return &rec, nil
}

func (m *Manager) writeLock(file *os.File, rec *model.LockRecord) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lock: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("write lock: %w", err)
	}
	return file.Sync()
}
