package workflow

import (
	"log/slog"

	"geotag/internal/logging"
	"geotag/internal/services"
)

// handleDirectoryFailure logs a per-directory error and reports whether the
// run may continue with the next directory.
func (m *Manager) handleDirectoryFailure(logger *slog.Logger, stage string, err error) bool {
	kind := services.Classify(err)
	if kind == services.KindFatal {
		logger.Error("directory failed, aborting run",
			logging.String(logging.FieldStage, stage),
			logging.String("error_kind", kind.String()),
			logging.Error(err),
			logging.String(logging.FieldEventType, "directory_fatal"),
			logging.String(logging.FieldErrorHint, "fix the reported issue and rerun geotag"),
		)
		return false
	}
	eventType := "directory_skipped"
	if !services.IsSkippable(err) {
		eventType = "directory_degraded"
	}
	logging.WarnWithContext(logger, "directory skipped", eventType,
		logging.String(logging.FieldStage, stage),
		logging.String("error_kind", kind.String()),
		logging.Error(err),
		logging.String(logging.FieldImpact, "directory keeps its current name"),
	)
	return true
}
