// Package engine applies a resolved version across a manifest set as a
// single all-or-nothing transaction with in-memory backup and rollback.
package engine

import (
	"os"
	"sync"
	"time"

	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/fsutil"
	"github.com/versync-project/versync/pkg/logging"
	"github.com/versync-project/versync/pkg/metrics"
	"github.com/versync-project/versync/pkg/model"
	"github.com/versync-project/versync/pkg/uuidutil"
)

// DefaultConcurrency bounds the backup/write fan-out across files.
const DefaultConcurrency = 8

// Transaction is an ephemeral aggregate over a manifest set: in-memory
// backups, the target version, and a state machine. It is created for
// one synchronization run and must not be reused after Apply returns.
type Transaction struct {
	id          string
	targets     []*model.Manifest
	version     string
	concurrency int
	log         *logging.Logger
	registry    *metrics.Registry

	mu      sync.Mutex
	state   model.TxState
	backups map[string][]byte
	modes   map[string]os.FileMode
	written map[string]bool

	readFile  func(path string) ([]byte, error)
	writeFile func(path string, data []byte, perm os.FileMode) error
}

// Option configures a Transaction.
type Option func(*Transaction)

// WithConcurrency bounds parallel file I/O.
func WithConcurrency(n int) Option {
	return func(t *Transaction) {
		if n > 0 {
			t.concurrency = n
		}
	}
}

// WithLogger sets the transaction's logger.
func WithLogger(l *logging.Logger) Option {
	return func(t *Transaction) { t.log = l }
}

// WithMetrics sets the registry sync outcomes are recorded to.
func WithMetrics(r *metrics.Registry) Option {
	return func(t *Transaction) { t.registry = r }
}

// NewTransaction creates a transaction that will move every target
// manifest to version.
func NewTransaction(targets []*model.Manifest, version string, opts ...Option) *Transaction {
	t := &Transaction{
		id:          uuidutil.NewV4(),
		targets:     targets,
		version:     version,
		concurrency: DefaultConcurrency,
		log:         logging.WithFields(nil),
		registry:    metrics.Default(),
		state:       model.TxPending,
		backups:     make(map[string][]byte, len(targets)),
		modes:       make(map[string]os.FileMode, len(targets)),
		written:     make(map[string]bool, len(targets)),
		readFile:    os.ReadFile,
		writeFile:   fsutil.AtomicWrite,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.log = t.log.WithFields(map[string]any{"tx_id": t.id, "version": version})
	return t
}

// ID returns the transaction identifier used in logs and audit details.
func (t *Transaction) ID() string { return t.id }

// State returns the current transaction state.
func (t *Transaction) State() model.TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Transaction) setState(s model.TxState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
	t.log.Debug("transaction state", map[string]any{"state": string(s)})
}

// Apply runs the transaction to a terminal state. On success every
// target carries the new version; on failure every target is
// byte-identical to its pre-transaction contents, unless rollback
// itself failed, which is surfaced as E_ROLLBACK_FAILED.
func (t *Transaction) Apply() error {
	if t.State() != model.TxPending {
		return errclass.ErrUnknown.WithMessagef("transaction %s already ran", t.id)
	}
	start := time.Now()
	err := t.run()
	t.registry.RecordSync(err == nil, time.Since(start), len(t.written))
	return err
}

func (t *Transaction) run() error {
	// Backup phase: read all originals before any mutation. A failure
	// here aborts with nothing written, so no rollback is needed.
	if err := t.backup(); err != nil {
		return err
	}
	t.setState(model.TxBackedUp)

	// Rewrites are computed up front so version conflicts and cascade
	// failures surface before the first write is issued.
	rewritten := make(map[string][]byte, len(t.targets))
	for _, m := range t.targets {
		out, err := Rewrite(t.backups[m.Path], m, t.version)
		if err != nil {
			return err
		}
		rewritten[m.Path] = out
	}

	t.setState(model.TxWriting)
	if err := t.writeAll(rewritten); err != nil {
		t.setState(model.TxRollingBack)
		t.registry.RecordRollback()
		if rbErr := t.rollback(); rbErr != nil {
			t.setState(model.TxRollbackFailed)
			return errclass.ErrRollbackFailed.
				WithMessagef("rollback failed after write error: %v", rbErr).
				WithDetails(map[string]any{"tx_id": t.id, "write_error": err.Error()}).
				WithCause(rbErr)
		}
		t.setState(model.TxRolledBack)
		t.log.Warn("transaction rolled back", map[string]any{"files": len(t.written)})
		return err
	}

	t.setState(model.TxCommitted)
	t.backups = nil // discard; there is no durable transaction log
	t.log.Info("transaction committed", map[string]any{"files": len(t.targets)})
	return nil
}

func (t *Transaction) backup() error {
	return t.forEach(func(m *model.Manifest) error {
		info, err := os.Stat(m.Path)
		if err != nil {
			return errclass.ErrFileRead.
				WithMessagef("stat %s", m.Path).WithCause(err)
		}
		data, err := t.readFile(m.Path)
		if err != nil {
			return errclass.ErrFileRead.
				WithMessagef("backup read %s", m.Path).WithCause(err)
		}
		t.mu.Lock()
		t.backups[m.Path] = data
		t.modes[m.Path] = info.Mode().Perm()
		t.mu.Unlock()
		return nil
	})
}

func (t *Transaction) writeAll(rewritten map[string][]byte) error {
	return t.forEach(func(m *model.Manifest) error {
		t.mu.Lock()
		t.written[m.Path] = true
		mode := t.modes[m.Path]
		t.mu.Unlock()
		if err := t.writeFile(m.Path, rewritten[m.Path], mode); err != nil {
			return errclass.ErrFileWrite.
				WithMessagef("write %s", m.Path).
				WithDetails(map[string]any{"path": m.Path}).
				WithCause(err)
		}
		return nil
	})
}

// rollback restores every file marked written from its in-memory
// backup. Restore order does not matter: the files are independent.
func (t *Transaction) rollback() error {
	var firstErr error
	for path := range t.written {
		if err := t.writeFile(path, t.backups[path], t.modes[path]); err != nil {
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// forEach runs fn over the targets with bounded concurrency. After the
// first failure no new work is issued; in-flight work is allowed to
// finish and the first error is returned.
func (t *Transaction) forEach(fn func(m *model.Manifest) error) error {
	sem := make(chan struct{}, t.concurrency)
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for _, m := range t.targets {
		errMu.Lock()
		failed := firstErr != nil
		errMu.Unlock()
		if failed {
			break
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(m *model.Manifest) {
			defer wg.Done()
			defer func() { <-sem }()
			if err := fn(m); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMu.Unlock()
			}
		}(m)
	}
	wg.Wait()
	return firstErr
}
