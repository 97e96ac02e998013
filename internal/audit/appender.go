// Package audit maintains the append-only error log. One JSON record is
// written per line; prior entries are never rewritten or truncated.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/versync-project/versync/pkg/jsonutil"
	"github.com/versync-project/versync/pkg/model"
)

// FileAppender appends audit records to a JSONL file with a hash chain.
// It is the sink capability injected into the error handler at startup:
// opened for append on first write, flushed per write, never truncated.
type FileAppender struct {
	path string
	mu   sync.Mutex
}

// NewFileAppender creates a new FileAppender.
func NewFileAppender(path string) *FileAppender {
	return &FileAppender{path: path}
}

// Path returns the audit log location.
func (a *FileAppender) Path() string {
	return a.path
}

// Append adds one error record to the log.
func (a *FileAppender) Append(code, message string, details map[string]any, commitSHA string, cause []string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(a.path), 0755); err != nil {
		return fmt.Errorf("create audit dir: %w", err)
	}

	file, err := os.OpenFile(a.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	// Exclusive flock guards against concurrent CLI invocations.
	if err := lockFile(file); err != nil {
		return fmt.Errorf("flock audit log: %w", err)
	}
	defer unlockFile(file)

	prevHash, err := a.lastRecordHashLocked(file)
	if err != nil {
		return fmt.Errorf("get last record hash: %w", err)
	}

	record := &model.AuditRecord{
		Timestamp: time.Now().UTC(),
		Code:      code,
		Message:   message,
		Details:   details,
		CommitSHA: commitSHA,
		Cause:     cause,
		PrevHash:  prevHash,
	}

	recordHash, err := computeRecordHash(record)
	if err != nil {
		return fmt.Errorf("compute record hash: %w", err)
	}
	record.RecordHash = recordHash

	line, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	if _, err := file.Seek(0, 2); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}
	if _, err := file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write audit record: %w", err)
	}
	if err := file.Sync(); err != nil {
		return fmt.Errorf("sync audit log: %w", err)
	}

	return nil
}

// ReadAll returns every record in the log, oldest first. A missing log
// file yields an empty slice.
func (a *FileAppender) ReadAll() ([]*model.AuditRecord, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	file, err := os.Open(a.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	defer file.Close()

	var records []*model.AuditRecord
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record model.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue // skip malformed lines
		}
		records = append(records, &record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}
	return records, nil
}

// VerifyChain re-hashes every record and checks the prev-hash links.
func (a *FileAppender) VerifyChain() error {
	records, err := a.ReadAll()
	if err != nil {
		return err
	}
	var prev model.HashValue
	for i, record := range records {
		if record.PrevHash != prev {
			return fmt.Errorf("audit chain broken at record %d: prev hash mismatch", i)
		}
		want, err := computeRecordHash(record)
		if err != nil {
			return err
		}
		if record.RecordHash != want {
			return fmt.Errorf("audit chain broken at record %d: record hash mismatch", i)
		}
		prev = record.RecordHash
	}
	return nil
}

func (a *FileAppender) lastRecordHashLocked(file *os.File) (model.HashValue, error) {
	if _, err := file.Seek(0, 0); err != nil {
		return "", fmt.Errorf("seek to start: %w", err)
	}

	var lastHash model.HashValue
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var record model.AuditRecord
		if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
			continue // skip malformed lines
		}
		lastHash = record.RecordHash
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan audit log: %w", err)
	}
	return lastHash, nil
}

func computeRecordHash(record *model.AuditRecord) (model.HashValue, error) {
	// Hash a copy with RecordHash zeroed.
	hashRecord := *record
	hashRecord.RecordHash = ""

	data, err := jsonutil.CanonicalMarshal(&hashRecord)
	if err != nil {
		return "", fmt.Errorf("canonical marshal: %w", err)
	}

	hash := sha256.Sum256(data)
	return model.HashValue(hex.EncodeToString(hash[:])), nil
}
