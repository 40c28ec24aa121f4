package shared

import (
	"fmt"
	"strings"
	"time"
)

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")
	ErrMissingAPIKey = fmt.Errorf("missing API key")

	// Precondition errors
	ErrLockHeld             = fmt.Errorf("enrichment lock held")
	ErrPrerequisitesMissing = fmt.Errorf("prerequisite tables not seeded")

	// Mid-run exhaustion conditions
	ErrQuotaExceeded = fmt.Errorf("API quota exceeded")
	ErrShutdown      = fmt.Errorf("shutdown requested")

	// API and lookup errors
	ErrAPIRequest      = fmt.Errorf("API request failed")
	ErrVideoNotFound   = fmt.Errorf("video not found")
	ErrChannelNotFound = fmt.Errorf("channel not found")

	// Input validation errors
	ErrInvalidPriority = fmt.Errorf("invalid priority tier")
	ErrInvalidInput    = fmt.Errorf("invalid input")
)

// LockHeldError reports a failed lock acquisition along with who holds the
// lock, so an operator can decide whether a force acquire is safe.
type LockHeldError struct {
	Holder     string
	AcquiredAt time.Time
}

func (e *LockHeldError) Error() string {
	return fmt.Sprintf("enrichment lock held by %s since %s (use --force to override)",
		e.Holder, e.AcquiredAt.Format(time.RFC3339))
}

func (e *LockHeldError) Unwrap() error { return ErrLockHeld }

// PrerequisiteError lists reference tables that must be seeded before an
// enrichment run can start.
type PrerequisiteError struct {
	Missing []string
}

func (e *PrerequisiteError) Error() string {
	return fmt.Sprintf("prerequisite tables empty: %s", strings.Join(e.Missing, ", "))
}

func (e *PrerequisiteError) Unwrap() error { return ErrPrerequisitesMissing }

// RunInterruptedError wraps a mid-run exhaustion condition (quota exceeded or
// shutdown requested). Everything committed before the interruption is durable.
// Processed counts the video ids attempted across completed batches so the
// caller can report "re-run to continue".
type RunInterruptedError struct {
	Reason    error
	Processed int
}

func (e *RunInterruptedError) Error() string {
	return fmt.Sprintf("%v after processing %d videos (committed batches are durable, re-run to continue)",
		e.Reason, e.Processed)
}

func (e *RunInterruptedError) Unwrap() error { return e.Reason }
