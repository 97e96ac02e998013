package model

import "time"

// LockRecord is stored at .versync/lock while a synchronization run is
// in flight. A second run must not begin while the lock is held.
type LockRecord struct {
	PID        int       `json:"pid"`
	Hostname   string    `json:"hostname"`
	TxID       string    `json:"tx_id"`
	AcquiredAt time.Time `json:"acquired_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Purpose    string    `json:"purpose,omitempty"`
}

// IsExpired returns true if the lock has expired.
func (l *LockRecord) IsExpired(now time.Time) bool {
	return now.After(l.ExpiresAt)
}
