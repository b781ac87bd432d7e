// Package store persists canonical payloads as migration records in
// NATS JetStream KV, keyed by (form type, process id).
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// BucketRecords is the KV bucket holding migration records.
const BucketRecords = "PROCDOC_RECORDS"

// SchemaVersion is the canonical schema version stamped into every
// persisted record.
const SchemaVersion = "2.0.0"

// RecordStatus is the lifecycle status of a persisted record.
type RecordStatus string

// StatusMigrated marks a record produced by a successful migration.
const StatusMigrated RecordStatus = "migrated"

// Metadata is the envelope metadata wrapping a persisted payload.
type Metadata struct {
	Version    string       `json:"version"`
	MigratedAt time.Time    `json:"migratedAt"`
	Status     RecordStatus `json:"status"`
}

// MigrationRecord is the persisted envelope for one (formType,
// processID) pair. Data holds the canonical payload as raw JSON so the
// record round-trips without knowing its form type; DecodeData recovers
// the typed payload.
type MigrationRecord struct {
	Data     json.RawMessage `json:"data"`
	Metadata Metadata        `json:"metadata"`
}

// DecodeData unmarshals the record's payload into the typed canonical
// shape for formType.
func (r *MigrationRecord) DecodeData(formType schema.FormType) (schema.CanonicalPayload, error) {
	return schema.DecodePayload(formType, r.Data)
}

// Store provides migration-record persistence backed by NATS KV.
type Store struct {
	records jetstream.KeyValue
}

// New creates a Store, creating the records bucket if needed.
func New(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	records, err := getOrCreateBucket(ctx, js, BucketRecords)
	if err != nil {
		return nil, fmt.Errorf("create records bucket: %w", err)
	}
	return &Store{records: records}, nil
}

func getOrCreateBucket(ctx context.Context, js jetstream.JetStream, name string) (jetstream.KeyValue, error) {
	kv, err := js.KeyValue(ctx, name)
	if err == nil {
		return kv, nil
	}
	// Bucket doesn't exist, create it
	return js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      name,
		Description: fmt.Sprintf("Procdoc %s storage", strings.ToLower(name)),
		History:     5, // Keep last 5 revisions
	})
}

// recordKey derives the storage key for a (formType, processID) pair.
func recordKey(formType schema.FormType, processID string) string {
	return fmt.Sprintf("%s.%s", formType, processID)
}

// Save wraps payload in a fresh metadata envelope and overwrites any
// prior record for the key. It is not additive: re-migration replaces
// the record wholesale.
func (s *Store) Save(ctx context.Context, formType schema.FormType, processID string, payload schema.CanonicalPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", formType, err)
	}

	record := MigrationRecord{
		Data: data,
		Metadata: Metadata{
			Version:    SchemaVersion,
			MigratedAt: time.Now().UTC(),
			Status:     StatusMigrated,
		},
	}

	envelope, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal migration record: %w", err)
	}

	if _, err := s.records.Put(ctx, recordKey(formType, processID), envelope); err != nil {
		return fmt.Errorf("store migration record %s/%s: %w", formType, processID, err)
	}
	return nil
}

// Load retrieves the migration record for a key. ErrNotFound means the
// key was never migrated (or was rolled back); it is not an error
// condition and must not be conflated with one.
func (s *Store) Load(ctx context.Context, formType schema.FormType, processID string) (*MigrationRecord, error) {
	entry, err := s.records.Get(ctx, recordKey(formType, processID))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load migration record %s/%s: %w", formType, processID, err)
	}

	var record MigrationRecord
	if err := json.Unmarshal(entry.Value(), &record); err != nil {
		return nil, fmt.Errorf("unmarshal migration record %s/%s: %w", formType, processID, err)
	}
	return &record, nil
}

// Delete removes the record for a key. Deleting an absent key is not
// an error: the post-condition (no record) already holds.
func (s *Store) Delete(ctx context.Context, formType schema.FormType, processID string) error {
	if err := s.records.Delete(ctx, recordKey(formType, processID)); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete migration record %s/%s: %w", formType, processID, err)
	}
	return nil
}

// List returns the process ids with a persisted record for formType.
func (s *Store) List(ctx context.Context, formType schema.FormType) ([]string, error) {
	keys, err := s.records.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list record keys: %w", err)
	}

	prefix := string(formType) + "."
	ids := make([]string, 0, len(keys))
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			ids = append(ids, strings.TrimPrefix(key, prefix))
		}
	}
	return ids, nil
}

// isNotFound checks if an error indicates a key was not found.
func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "key not found")
}
