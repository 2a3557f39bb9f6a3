package rename

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"geotag/internal/logging"
	"geotag/internal/services"
)

// ErrTargetExists is returned when the new name is already taken.
var ErrTargetExists = errors.New("rename target exists")

// Outcome describes what Rename did.
type Outcome struct {
	From    string
	To      string
	Applied bool
	// Unchanged is true when the directory already carries the target name.
	Unchanged bool
}

// Renamer applies directory renames.
type Renamer struct {
	DryRun bool
	logger *slog.Logger
}

// NewRenamer returns a renamer. In dry-run mode renames are only logged.
func NewRenamer(dryRun bool, logger *slog.Logger) *Renamer {
	return &Renamer{DryRun: dryRun, logger: logging.NewComponentLogger(logger, "rename")}
}

// Rename moves dir to a sibling called newName. Failures are returned as
// skippable errors so the run continues with the next directory.
func (r *Renamer) Rename(dir, newName string) (Outcome, error) {
	target := filepath.Join(filepath.Dir(dir), newName)
	outcome := Outcome{From: dir, To: target}

	if filepath.Clean(dir) == filepath.Clean(target) {
		outcome.Unchanged = true
		r.logger.Debug("directory already named", logging.Directory(dir))
		return outcome, nil
	}
	if newName == "" || newName != filepath.Base(newName) {
		return outcome, services.Wrap(services.ErrSkippable, "rename", "validate", fmt.Sprintf("invalid target name %q", newName), nil)
	}

	r.logger.Info("rename planned",
		logging.String("from", filepath.Base(dir)),
		logging.String("to", newName),
		logging.Bool("dry_run", r.DryRun))
	if r.DryRun {
		return outcome, nil
	}

	if _, err := os.Lstat(target); err == nil {
		return outcome, services.Wrap(services.ErrSkippable, "rename", "apply", target, ErrTargetExists)
	} else if !errors.Is(err, os.ErrNotExist) {
		return outcome, services.Wrap(services.ErrSkippable, "rename", "stat target", target, err)
	}
	if err := os.Rename(dir, target); err != nil {
		return outcome, services.Wrap(services.ErrSkippable, "rename", "apply", dir, err)
	}
	outcome.Applied = true
	return outcome, nil
}
