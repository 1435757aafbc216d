package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Markers for errors.Is classification.
var (
	// ErrValidation: the snapshot or scene content cannot be exported as is.
	ErrValidation = errors.New("validation error")
	// ErrConfiguration: settings or the environment need fixing.
	ErrConfiguration = errors.New("configuration error")
	// ErrNotFound: a snapshot file or tag reference does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: another writer holds the tag.
	ErrConflict = errors.New("conflict")
	// ErrTransient: I/O failures worth retrying.
	ErrTransient = errors.New("transient failure")
)

// Export outcomes recorded in history.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Outcome maps an export error to the status persisted in the history.
// Errors that need the scene or configuration fixed report "invalid"; everything
// else reports "failed".
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrNotFound):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

func buildDetail(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return "export failure"
	}
	return strings.Join(kept, ": ")
}
