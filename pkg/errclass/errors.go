package errclass

import (
	"fmt"
	"time"
)

// VersionError is a stable, machine-readable error class. Values are
// immutable once constructed; the With* helpers return copies.
type VersionError struct {
	Code      string
	Message   string
	Recovery  string
	Details   map[string]any
	Cause     error
	Timestamp time.Time
}

func (e *VersionError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *VersionError) Is(target error) bool {
	t, ok := target.(*VersionError)
	return ok && e.Code == t.Code
}

// Unwrap exposes the wrapped lower-level error, if any.
func (e *VersionError) Unwrap() error {
	return e.Cause
}

func (e *VersionError) clone() *VersionError {
	c := &VersionError{
		Code:      e.Code,
		Message:   e.Message,
		Recovery:  e.Recovery,
		Cause:     e.Cause,
		Timestamp: e.Timestamp,
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = time.Now().UTC()
	}
	if len(e.Details) > 0 {
		c.Details = make(map[string]any, len(e.Details))
		for k, v := range e.Details {
			c.Details[k] = v
		}
	}
	return c
}

// WithMessage returns a new VersionError with the same Code but a specific message.
func (e *VersionError) WithMessage(msg string) *VersionError {
	c := e.clone()
	c.Message = msg
	return c
}

// WithMessagef returns a new VersionError with a formatted message.
func (e *VersionError) WithMessagef(format string, args ...any) *VersionError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// WithDetails returns a new VersionError with additional context values.
func (e *VersionError) WithDetails(details map[string]any) *VersionError {
	c := e.clone()
	if c.Details == nil {
		c.Details = make(map[string]any, len(details))
	}
	for k, v := range details {
		c.Details[k] = v
	}
	return c
}

// WithCause returns a new VersionError wrapping a lower-level error.
func (e *VersionError) WithCause(cause error) *VersionError {
	c := e.clone()
	c.Cause = cause
	if c.Message == "" && cause != nil {
		c.Message = cause.Error()
	}
	return c
}

// All stable error classes (11 total). Every failure this engine can
// surface is one of these; there is no untyped error path.
var (
	ErrParse = &VersionError{
		Code:     "E_PARSE_ERROR",
		Recovery: "rewrite the commit header as type(scope)!: subject, e.g. feat(core): add retry logic",
	}
	ErrSanitization = &VersionError{
		Code:     "E_SANITIZATION_FAILED",
		Recovery: "remove shell metacharacters and control characters from the commit message",
	}
	ErrFileRead = &VersionError{
		Code:     "E_FILE_READ",
		Recovery: "check that every package directory contains its manifest and that it is readable",
	}
	ErrFileWrite = &VersionError{
		Code:     "E_FILE_WRITE",
		Recovery: "check disk space and file permissions, then re-run the bump",
	}
	ErrVersionConflict = &VersionError{
		Code:     "E_VERSION_CONFLICT",
		Recovery: "align all package manifests to the same version before bumping",
	}
	ErrRollbackFailed = &VersionError{
		Code:     "E_ROLLBACK_FAILED",
		Recovery: "MANUAL INSPECTION REQUIRED: the repository may be in a mixed state; verify each manifest's version by hand",
	}
	ErrInvalidVersion = &VersionError{
		Code:     "E_INVALID_VERSION",
		Recovery: "use a MAJOR.MINOR.PATCH semantic version, e.g. 1.4.2",
	}
	ErrCascade = &VersionError{
		Code:     "E_CASCADE",
		Recovery: "fix the dependency range on the named sibling package so it can be updated in lockstep",
	}
	ErrGitState = &VersionError{
		Code:     "E_GIT_STATE",
		Recovery: "run inside a git repository with at least one commit",
	}
	ErrEmptyCommit = &VersionError{
		Code:     "E_EMPTY_COMMIT",
		Recovery: "provide a non-empty commit message, e.g. fix(parser): handle empty scope",
	}
	ErrUnknown = &VersionError{
		Code:     "E_UNKNOWN",
		Recovery: "re-run with --verbose and report the audit log entry if the failure persists",
	}
)

// All returns every defined error class, for exhaustive handling checks.
func All() []*VersionError {
	return []*VersionError{
		ErrParse,
		ErrSanitization,
		ErrFileRead,
		ErrFileWrite,
		ErrVersionConflict,
		ErrRollbackFailed,
		ErrInvalidVersion,
		ErrCascade,
		ErrGitState,
		ErrEmptyCommit,
		ErrUnknown,
	}
}
