package model

import "time"

// HashValue is a SHA-256 hash stored as hex string.
type HashValue string

// AuditRecord is a single line in the audit log (JSONL format). Records
// are append-only: once written a line is never rewritten or truncated.
type AuditRecord struct {
	Timestamp  time.Time      `json:"timestamp"`
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	Details    map[string]any `json:"details,omitempty"`
	CommitSHA  string         `json:"commit_sha,omitempty"`
	Cause      []string       `json:"cause,omitempty"`
	PrevHash   HashValue      `json:"prev_hash"`
	RecordHash HashValue      `json:"record_hash"`
}
