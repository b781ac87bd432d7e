// Package backup stores immutable point-in-time snapshots of payloads
// under a form-type namespace, for recovery after failed migrations.
// Snapshot ids are strictly increasing per form type and lexically
// orderable, even under rapid consecutive calls.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// BucketBackups is the KV bucket holding snapshots.
const BucketBackups = "PROCDOC_BACKUPS"

// SnapshotID identifies one snapshot. The id embeds the form type, a
// UTC timestamp, a microsecond component, and a monotonic counter, so
// ids sort lexically in creation order and same-millisecond creations
// cannot collide.
type SnapshotID string

// FormType extracts the form-type namespace from a snapshot id.
func (id SnapshotID) FormType() schema.FormType {
	if i := strings.Index(string(id), "."); i > 0 {
		return schema.FormType(id[:i])
	}
	return ""
}

// Snapshot is the stored record for one backup event. Snapshots are
// append-only: never edited after creation, removed only by retention
// pruning.
type Snapshot struct {
	FormType  schema.FormType `json:"formType"`
	CreatedAt time.Time       `json:"createdAt"`
	Sequence  uint64          `json:"sequenceCounter"`
	Payload   json.RawMessage `json:"payload"`
}

// Store provides snapshot storage backed by NATS KV.
type Store struct {
	kv      jetstream.KeyValue
	counter atomic.Uint64
}

// New creates a Store, creating the backups bucket if needed.
func New(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	kv, err := js.KeyValue(ctx, BucketBackups)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      BucketBackups,
			Description: "Procdoc payload snapshots",
		})
		if err != nil {
			return nil, fmt.Errorf("create backups bucket: %w", err)
		}
	}
	return &Store{kv: kv}, nil
}

// nextID builds the snapshot id for formType at time now. The
// monotonic counter breaks ties between calls landing in the same
// microsecond.
func (s *Store) nextID(formType schema.FormType, now time.Time) (SnapshotID, uint64) {
	seq := s.counter.Add(1)
	id := SnapshotID(fmt.Sprintf("%s.%s.%06d.%06d",
		formType,
		now.UTC().Format("20060102T150405"),
		now.UTC().Nanosecond()/1000%1000000,
		seq,
	))
	return id, seq
}

// Create writes a new immutable snapshot of payload and returns its id.
// An error means no snapshot was written; callers must treat that as
// cause to abort the surrounding migration before any destructive
// write occurs.
func (s *Store) Create(ctx context.Context, formType schema.FormType, payload any) (SnapshotID, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot payload: %w", err)
	}

	now := time.Now()
	id, seq := s.nextID(formType, now)
	snapshot := Snapshot{
		FormType:  formType,
		CreatedAt: now.UTC(),
		Sequence:  seq,
		Payload:   data,
	}

	envelope, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("marshal snapshot: %w", err)
	}

	// Create rejects existing keys, preserving snapshot immutability.
	if _, err := s.kv.Create(ctx, string(id), envelope); err != nil {
		return "", fmt.Errorf("store snapshot %s: %w", id, err)
	}
	snapshotsCreated.WithLabelValues(string(formType)).Inc()
	return id, nil
}

// Restore retrieves the payload stored under a snapshot id.
func (s *Store) Restore(ctx context.Context, id SnapshotID) (*Snapshot, error) {
	entry, err := s.kv.Get(ctx, string(id))
	if err != nil {
		if strings.Contains(err.Error(), "key not found") {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("restore snapshot %s: %w", id, err)
	}

	var snapshot Snapshot
	if err := json.Unmarshal(entry.Value(), &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", id, err)
	}
	return &snapshot, nil
}

// List returns the snapshot ids for formType ordered oldest to newest.
// An empty form type lists snapshots across all form types.
func (s *Store) List(ctx context.Context, formType schema.FormType) ([]SnapshotID, error) {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		if err == jetstream.ErrNoKeysFound {
			return nil, nil
		}
		return nil, fmt.Errorf("list snapshot keys: %w", err)
	}

	prefix := ""
	if formType != "" {
		prefix = string(formType) + "."
	}

	ids := make([]SnapshotID, 0, len(keys))
	for _, key := range keys {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			ids = append(ids, SnapshotID(key))
		}
	}
	// Ids are built to sort lexically in creation order.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Prune deletes all but the keep most recent snapshots for formType.
// Deletion is best-effort per item: a failure on one snapshot does not
// stop the rest, and the newest keep snapshots are never touched.
func (s *Store) Prune(ctx context.Context, formType schema.FormType, keep int) error {
	if keep < 0 {
		keep = 0
	}

	ids, err := s.List(ctx, formType)
	if err != nil {
		return err
	}
	if len(ids) <= keep {
		return nil
	}

	var failed []string
	for _, id := range ids[:len(ids)-keep] {
		if err := s.kv.Delete(ctx, string(id)); err != nil {
			failed = append(failed, string(id))
			continue
		}
		snapshotsPruned.WithLabelValues(string(id.FormType())).Inc()
	}
	if len(failed) > 0 {
		return fmt.Errorf("prune %s: failed to delete %d snapshots: %s",
			formType, len(failed), strings.Join(failed, ", "))
	}
	return nil
}
