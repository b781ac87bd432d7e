package migration

import (
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// RollbackOutcome reports the secondary outcome of reverting a key
// after a failed migration. A rollback failure is terminal for the
// call and is surfaced alongside the primary cause, never instead of
// it.
type RollbackOutcome struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Result is the caller-facing outcome of one migration attempt. On any
// non-success the Errors list is complete (all validation violations,
// or the persistence failure) and the caller must not assume any
// partial persistence occurred.
type Result struct {
	// AttemptID correlates this attempt across log lines.
	AttemptID string `json:"attempt_id"`

	Success bool     `json:"success"`
	Errors  []string `json:"errors"`

	// Data is the canonical payload produced by mapping, nil when the
	// form type is unknown.
	Data schema.CanonicalPayload `json:"data"`

	// Rollback is present only when a rollback was attempted.
	Rollback *RollbackOutcome `json:"rollback,omitempty"`
}
