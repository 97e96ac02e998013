package doctor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/versync-project/versync/internal/audit"
	"github.com/versync-project/versync/internal/lock"
	"github.com/versync-project/versync/internal/scan"
	"github.com/versync-project/versync/pkg/config"
)

// Finding represents a detected issue.
type Finding struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Severity    string `json:"severity"`
	Path        string `json:"path,omitempty"`
}

// Result contains doctor check results.
type Result struct {
	Healthy  bool      `json:"healthy"`
	Findings []Finding `json:"findings"`
}

// Doctor performs repository health checks.
type Doctor struct {
	repoRoot string
	cfg      *config.Config
}

// NewDoctor creates a new doctor for the repository.
func NewDoctor(repoRoot string, cfg *config.Config) *Doctor {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Doctor{repoRoot: repoRoot, cfg: cfg}
}

// Check runs all diagnostic checks. Strict mode additionally verifies
// the audit log hash chain.
func (d *Doctor) Check(strict bool) (*Result, error) {
	result := &Result{Healthy: true}

	d.checkLayout(result)
	d.checkPackages(result)
	d.checkStaleLock(result)
	if strict {
		d.checkAuditChain(result)
	}
	d.checkOrphanTmp(result)

	return result, nil
}

func (d *Doctor) checkLayout(result *Result) {
	versyncDir := filepath.Join(d.repoRoot, ".versync")
	if info, err := os.Stat(versyncDir); err != nil || !info.IsDir() {
		result.Findings = append(result.Findings, Finding{
			Category:    "layout",
			Description: ".versync directory missing (run `versync init`)",
			Severity:    "critical",
			Path:        versyncDir,
		})
		result.Healthy = false
	}

	packagesDir := filepath.Join(d.repoRoot, d.cfg.PackagesDir)
	if info, err := os.Stat(packagesDir); err != nil || !info.IsDir() {
		result.Findings = append(result.Findings, Finding{
			Category:    "layout",
			Description: fmt.Sprintf("packages directory '%s' missing", d.cfg.PackagesDir),
			Severity:    "critical",
			Path:        packagesDir,
		})
		result.Healthy = false
	}
}

func (d *Doctor) checkPackages(result *Result) {
	manifests, err := scan.Scan(d.repoRoot, d.cfg.PackagesDir)
	if err != nil {
		result.Findings = append(result.Findings, Finding{
			Category:    "packages",
			Description: fmt.Sprintf("scan failed: %v", err),
			Severity:    "error",
		})
		result.Healthy = false
		return
	}

	// All manifests must agree on one version.
	versions := map[string][]string{}
	for _, m := range manifests {
		versions[m.Version] = append(versions[m.Version], m.Name)
	}
	if len(versions) > 1 {
		var parts []string
		for v, names := range versions {
			parts = append(parts, fmt.Sprintf("%s: %s", v, strings.Join(names, ", ")))
		}
		result.Findings = append(result.Findings, Finding{
			Category:    "packages",
			Description: fmt.Sprintf("version drift across packages (%s)", strings.Join(parts, "; ")),
			Severity:    "error",
		})
		result.Healthy = false
	}
}

func (d *Doctor) checkStaleLock(result *Result) {
	mgr := lock.NewManager(d.repoRoot, 0)
	rec, err := mgr.Current()
	if err != nil || rec == nil {
		return
	}
	if rec.IsExpired(time.Now()) {
		result.Findings = append(result.Findings, Finding{
			Category:    "lock",
			Description: fmt.Sprintf("stale sync lock held by pid %d (expired %s)", rec.PID, rec.ExpiresAt.Format(time.RFC3339)),
			Severity:    "info",
			Path:        filepath.Join(d.repoRoot, ".versync", "lock"),
		})
	}
}

func (d *Doctor) checkAuditChain(result *Result) {
	appender := audit.NewFileAppender(d.cfg.AuditLogPath(d.repoRoot))
	if err := appender.VerifyChain(); err != nil {
		result.Findings = append(result.Findings, Finding{
			Category:    "audit",
			Description: fmt.Sprintf("audit log chain broken: %v", err),
			Severity:    "critical",
			Path:        appender.Path(),
		})
		result.Healthy = false
	}
}

func (d *Doctor) checkOrphanTmp(result *Result) {
	filepath.Walk(d.repoRoot, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if strings.HasPrefix(info.Name(), ".versync-tmp-") {
			result.Findings = append(result.Findings, Finding{
				Category:    "tmp",
				Description: fmt.Sprintf("orphan temp file: %s", info.Name()),
				Severity:    "info",
				Path:        path,
			})
		}
		return nil
	})
}
