package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/versync-project/versync/internal/audit"
	"github.com/versync-project/versync/internal/errhandle"
	"github.com/versync-project/versync/internal/repo"
	"github.com/versync-project/versync/pkg/color"
	"github.com/versync-project/versync/pkg/config"
	"github.com/versync-project/versync/pkg/logging"
	"github.com/versync-project/versync/pkg/versync"
)

// requireRepo discovers the repo from CWD and returns it, or exits.
func requireRepo() *repo.Repo {
	cwd, err := os.Getwd()
	if err != nil {
		fmtErr("cannot get current directory: %v", err)
		os.Exit(1)
	}
	r, err := repo.Discover(cwd)
	if err != nil {
		fmtErr("not a versync repository: %v", err)
		fmt.Fprintf(os.Stderr, "Run %s to create one.\n", color.Code("versync init"))
		os.Exit(1)
	}
	return r
}

// requireClient opens the facade client from CWD, or exits.
func requireClient() *versync.Client {
	cwd, err := os.Getwd()
	if err != nil {
		fmtErr("cannot get current directory: %v", err)
		os.Exit(1)
	}
	client, err := versync.Open(cwd)
	if err != nil {
		fmtErr("not a versync repository: %v", err)
		fmt.Fprintf(os.Stderr, "Run %s to create one.\n", color.Code("versync init"))
		os.Exit(1)
	}
	applyLogConfig(client.Config())
	return client
}

// applyLogConfig sets the global log level from the repo config. The
// --verbose flag wins over the configured level.
func applyLogConfig(cfg *config.Config) {
	if verbose {
		return
	}
	logging.SetLevel(logging.ParseLevel(cfg.Logging.Level))
}

// exitErr routes an operation failure through the error subsystem:
// classify, append to the audit log, print the formatted report, exit.
func exitErr(client *versync.Client, err error, commitSHA string) {
	handleErr(client, err, commitSHA, os.Stderr)
	os.Exit(1)
}

// exitErrQuiet classifies and audit-logs the failure like exitErr but
// keeps the console down to a single line, for hook invocations.
func exitErrQuiet(client *versync.Client, err error, commitSHA string) {
	handleErr(client, err, commitSHA, io.Discard)
	fmtErr("%v", err)
	os.Exit(1)
}

func handleErr(client *versync.Client, err error, commitSHA string, out io.Writer) {
	appender := audit.NewFileAppender(client.Config().AuditLogPath(client.RepoRoot()))
	handler := errhandle.New(appender, out, logging.WithFields(nil))
	handler.Handle(err, commitSHA)
}

func fmtErr(format string, args ...any) {
	prefix := "versync: "
	if color.Enabled() {
		prefix = color.Error("versync:") + " "
	}
	fmt.Fprintf(os.Stderr, prefix+format+"\n", args...)
}
