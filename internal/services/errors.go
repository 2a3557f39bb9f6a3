package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSkippable marks a failure confined to a single item (one photo, one
	// geocoder call). The caller drops that item and continues.
	ErrSkippable = errors.New("skippable failure")
	// ErrStoreUnavailable marks a persistent-store connectivity failure. The
	// batch continues without staleness checks or storage.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrConfiguration marks invalid or missing configuration.
	ErrConfiguration = errors.New("configuration error")
	// ErrFatal marks failures that must terminate the process.
	ErrFatal = errors.New("fatal error")
	// ErrExternalTool marks a failing external binary.
	ErrExternalTool = errors.New("external tool error")
)

// Kind classifies an error by how the caller must react to it.
type Kind int

const (
	// KindFatal aborts the process with a non-zero exit code.
	KindFatal Kind = iota
	// KindSkippable drops the affected item.
	KindSkippable
	// KindDegraded switches the batch to store-less operation.
	KindDegraded
)

func (k Kind) String() string {
	switch k {
	case KindSkippable:
		return "skippable"
	case KindDegraded:
		return "degraded"
	default:
		return "fatal"
	}
}

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrSkippable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps an error to the reaction the pipeline applies. Unmarked errors
// are fatal so that nothing is silently swallowed.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindSkippable
	case errors.Is(err, ErrFatal), errors.Is(err, ErrConfiguration):
		return KindFatal
	case errors.Is(err, ErrStoreUnavailable):
		return KindDegraded
	case errors.Is(err, ErrSkippable):
		return KindSkippable
	default:
		return KindFatal
	}
}

// IsSkippable reports whether err only affects a single item.
func IsSkippable(err error) bool {
	return err != nil && Classify(err) == KindSkippable
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
