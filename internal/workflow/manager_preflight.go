package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"geotag/internal/config"
	"geotag/internal/logging"
	"geotag/internal/preflight"
	"geotag/internal/services"
)

// runPreflightChecks validates filesystem and binary readiness before a run.
// Returns nil when all checks pass, or a fatal error describing all failures.
func (m *Manager) runPreflightChecks(ctx context.Context, logger *slog.Logger) error {
	cfg := *m.cfg
	cfg.Rename.DryRun = m.dryRun
	if m.extractor != nil {
		cfg.Metadata.Extractor = config.ExtractorNative
	}
	results := preflight.RunAll(ctx, &cfg)

	var failures []string
	for _, r := range results {
		if r.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", r.Name),
				logging.String("detail", r.Detail),
				logging.String(logging.FieldEventType, "preflight_passed"),
			)
			continue
		}
		logger.Error("preflight check failed",
			logging.String("check", r.Name),
			logging.String("detail", r.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun geotag"),
		)
		failures = append(failures, fmt.Sprintf("%s: %s", r.Name, r.Detail))
	}

	if len(failures) > 0 {
		return services.Wrap(services.ErrFatal, "preflight", "", strings.Join(failures, "; "), nil)
	}
	return nil
}
