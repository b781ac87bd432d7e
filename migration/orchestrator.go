// Package migration composes the mapper, validator, and stores into
// the per-form-type migration pipeline: map, validate, snapshot,
// persist, with rollback on any step failure. No failure escapes the
// orchestration boundary as a raw error or panic; everything becomes a
// structured Result.
package migration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/0xthiagomartins/rpa-analyst-sub000/backup"
	"github.com/0xthiagomartins/rpa-analyst-sub000/mapper"
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
	"github.com/0xthiagomartins/rpa-analyst-sub000/store"
	"github.com/0xthiagomartins/rpa-analyst-sub000/validator"
)

// RecordStore is the persistence surface the orchestrator drives.
// *store.Store satisfies it.
type RecordStore interface {
	Save(ctx context.Context, formType schema.FormType, processID string, payload schema.CanonicalPayload) error
	Load(ctx context.Context, formType schema.FormType, processID string) (*store.MigrationRecord, error)
	Delete(ctx context.Context, formType schema.FormType, processID string) error
}

// SnapshotStore is the backup surface the orchestrator drives.
// *backup.Store satisfies it.
type SnapshotStore interface {
	Create(ctx context.Context, formType schema.FormType, payload any) (backup.SnapshotID, error)
}

// Orchestrator runs migrations for single keys and batches. It is
// designed for single-writer-per-key use: if two callers migrate the
// same (formType, processID) concurrently, the last persisted record
// wins and no merge is attempted.
type Orchestrator struct {
	records   RecordStore
	snapshots SnapshotStore
	logger    *slog.Logger
}

// New creates an Orchestrator over the given stores.
func New(records RecordStore, snapshots SnapshotStore, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{records: records, snapshots: snapshots, logger: logger}
}

// Migrate runs the full pipeline for one (formType, processID) key:
//
//  1. Map the legacy payload to canonical shape (total, never fails).
//  2. Validate. On violations, roll back any prior record for the key
//     and report the complete violation list plus the rollback outcome.
//  3. Snapshot the legacy payload. A snapshot failure aborts before
//     any destructive write; nothing is persisted or deleted.
//  4. Persist. On failure, roll back and report both outcomes.
//
// Migration for the key is complete on successful persistence. The
// feature flag for the form type is deliberately not flipped here:
// flags are per form type, not per process, and only the caller knows
// when every process of a type has migrated.
func (o *Orchestrator) Migrate(ctx context.Context, formType schema.FormType, processID string, legacy schema.LegacyPayload) (result Result) {
	result = Result{AttemptID: uuid.New().String(), Errors: []string{}}

	// Mapping and validation are pure and must not fail, but a defect
	// there must surface as a structured failure, not a panic crossing
	// into the caller.
	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("internal error: %v", r))
			observeMigration(formType, outcomePanic)
			o.logger.Error("migration panicked",
				slog.String("attempt_id", result.AttemptID),
				slog.String("form_type", string(formType)),
				slog.String("process_id", processID),
				slog.Any("panic", r))
		}
	}()

	log := o.logger.With(
		slog.String("attempt_id", result.AttemptID),
		slog.String("form_type", string(formType)),
		slog.String("process_id", processID))

	canonical := mapper.MapForm(formType, legacy)
	if canonical == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("unknown form type: %s", formType))
		observeMigration(formType, outcomeUnknownForm)
		return result
	}
	result.Data = canonical
	log.Debug("legacy payload mapped")

	if violations := validator.Validate(formType, canonical); len(violations) > 0 {
		for _, v := range violations {
			result.Errors = append(result.Errors, v.String())
		}
		rb := o.rollback(ctx, formType, processID)
		result.Rollback = &rb
		observeMigration(formType, outcomeInvalid)
		// Expected and recoverable; not an exceptional condition.
		log.Debug("validation failed",
			slog.Int("violations", len(violations)),
			slog.Bool("rollback_ok", rb.Success))
		return result
	}
	log.Debug("canonical payload validated")

	// Snapshot the legacy payload before the destructive overwrite so
	// the pre-migration data survives regardless of what follows.
	snapshotID, err := o.snapshots.Create(ctx, formType, legacy)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("backup failed: %v", err))
		observeMigration(formType, outcomeBackupError)
		log.Error("backup failed, aborting before persist", slog.String("error", err.Error()))
		return result
	}
	log.Debug("legacy payload snapshotted", slog.String("snapshot_id", string(snapshotID)))

	if err := o.records.Save(ctx, formType, processID, canonical); err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("persist failed: %v", err))
		rb := o.rollback(ctx, formType, processID)
		result.Rollback = &rb
		observeMigration(formType, outcomePersistError)
		log.Error("persist failed",
			slog.String("error", err.Error()),
			slog.Bool("rollback_ok", rb.Success))
		return result
	}

	result.Success = true
	observeMigration(formType, outcomeSuccess)
	log.Info("migration complete")
	return result
}

// rollback restores the pre-migration absence of a canonical record
// for the key: it deletes any existing record, snapshotting it first
// so nothing is destroyed without a copy. It does not restore a prior
// legacy-schema backup; those stay in the backup store for a human or
// higher-level process to consult.
func (o *Orchestrator) rollback(ctx context.Context, formType schema.FormType, processID string) RollbackOutcome {
	record, err := o.records.Load(ctx, formType, processID)
	if errors.Is(err, store.ErrNotFound) {
		// Nothing to revert; the post-condition already holds.
		return RollbackOutcome{Success: true}
	}
	if err != nil {
		observeRollback(false)
		return RollbackOutcome{Error: fmt.Sprintf("load prior record: %v", err)}
	}

	if _, err := o.snapshots.Create(ctx, formType, record); err != nil {
		// Without a snapshot the delete would be unrecoverable, so the
		// record is left in place.
		observeRollback(false)
		return RollbackOutcome{Error: fmt.Sprintf("snapshot prior record: %v", err)}
	}

	if err := o.records.Delete(ctx, formType, processID); err != nil {
		observeRollback(false)
		return RollbackOutcome{Error: fmt.Sprintf("delete record: %v", err)}
	}

	observeRollback(true)
	return RollbackOutcome{Success: true}
}

// MigrateAll migrates every process in legacyByProcess for one form
// type, in process-id order. It reports per-process results and
// whether every process succeeded; the caller flips the feature flag
// on full success.
func (o *Orchestrator) MigrateAll(ctx context.Context, formType schema.FormType, legacyByProcess map[string]schema.LegacyPayload) (map[string]Result, bool) {
	ids := make([]string, 0, len(legacyByProcess))
	for id := range legacyByProcess {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	results := make(map[string]Result, len(ids))
	allOK := true
	for _, id := range ids {
		r := o.Migrate(ctx, formType, id, legacyByProcess[id])
		results[id] = r
		if !r.Success {
			allOK = false
		}
	}
	return results, allOK
}
