package errhandle

import (
	"errors"
	"fmt"
	"io"

	"github.com/versync-project/versync/internal/audit"
	"github.com/versync-project/versync/pkg/errclass"
	"github.com/versync-project/versync/pkg/logging"
)

// Handler funnels every failure through classification, the audit log,
// and the operator-facing stream. The audit sink is injected once at
// startup rather than reached through a hidden global.
type Handler struct {
	appender *audit.FileAppender
	out      io.Writer
	log      *logging.Logger
}

// New creates a handler writing formatted errors to out and durable
// records to the given audit appender.
func New(appender *audit.FileAppender, out io.Writer, log *logging.Logger) *Handler {
	return &Handler{appender: appender, out: out, log: log}
}

// Handle classifies err, appends it to the audit log, formats it for
// the operator, and returns the classified error for the caller to
// fail with. It never returns nil for a non-nil err: the current
// operation is over.
func (h *Handler) Handle(err error, commitSHA string) *errclass.VersionError {
	if err == nil {
		return nil
	}
	verr := Classify(err)

	if logErr := h.appender.Append(verr.Code, verr.Message, verr.Details, commitSHA, causeChain(verr)); logErr != nil {
		// The operator still sees the formatted error even when the
		// audit log itself cannot be written.
		h.log.ErrorErr("append audit record", logErr)
	}

	fmt.Fprint(h.out, Format(verr))
	h.log.ErrorErr("operation failed", verr, map[string]any{"code": verr.Code})
	return verr
}

// Classify returns err as a VersionError, wrapping anything foreign as
// the unknown class with the original error as cause.
func Classify(err error) *errclass.VersionError {
	var verr *errclass.VersionError
	if errors.As(err, &verr) {
		return verr
	}
	return errclass.ErrUnknown.WithMessage(err.Error()).WithCause(err)
}

// causeChain flattens the wrapped errors under e, outermost first.
func causeChain(e *errclass.VersionError) []string {
	var chain []string
	for err := e.Cause; err != nil; err = errors.Unwrap(err) {
		chain = append(chain, err.Error())
	}
	return chain
}
