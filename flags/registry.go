// Package flags tracks, per form type, whether migration to the
// canonical schema is complete. The flag set is persisted as a whole:
// every mutation is a full read-modify-write-through, and every known
// form type always has an explicit entry.
package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// BucketFlags is the KV bucket holding the flag set.
const BucketFlags = "PROCDOC_FLAGS"

// flagsKey is the single key under which the whole set is stored.
const flagsKey = "migration_flags"

// Set is the full flag mapping, one entry per known form type.
type Set map[schema.FormType]bool

// Registry is an explicitly constructed, injected flag registry with a
// load/write-through lifecycle. Callers hold a reference and are
// responsible for its scope; concurrent mutation from multiple callers
// is not supported and must be serialized by the integrating
// application.
type Registry struct {
	kv     jetstream.KeyValue
	logger *slog.Logger
}

// NewRegistry creates a Registry, creating the flags bucket if needed,
// and initializes the persisted set: on first use with no persisted
// state, every known form type is written as false before control
// returns.
func NewRegistry(ctx context.Context, js jetstream.JetStream, logger *slog.Logger) (*Registry, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kv, err := js.KeyValue(ctx, BucketFlags)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      BucketFlags,
			Description: "Procdoc migration feature flags",
		})
		if err != nil {
			return nil, fmt.Errorf("create flags bucket: %w", err)
		}
	}

	r := &Registry{kv: kv, logger: logger}
	if _, err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

// load reads the persisted set, initializing it if absent and filling
// in entries for form types added after the set was first written.
func (r *Registry) load(ctx context.Context) (Set, error) {
	set := Set{}

	entry, err := r.kv.Get(ctx, flagsKey)
	switch {
	case err == nil:
		if err := json.Unmarshal(entry.Value(), &set); err != nil {
			return nil, fmt.Errorf("unmarshal flag set: %w", err)
		}
	case strings.Contains(err.Error(), "key not found"):
		r.logger.Debug("no persisted flag set, initializing")
	default:
		return nil, fmt.Errorf("load flag set: %w", err)
	}

	changed := false
	for _, ft := range schema.AllFormTypes() {
		if _, ok := set[ft]; !ok {
			set[ft] = false
			changed = true
		}
	}
	if changed {
		if err := r.write(ctx, set); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// write persists the whole set.
func (r *Registry) write(ctx context.Context, set Set) error {
	data, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal flag set: %w", err)
	}
	if _, err := r.kv.Put(ctx, flagsKey, data); err != nil {
		return fmt.Errorf("persist flag set: %w", err)
	}
	return nil
}

// IsEnabled reports whether migration for formType is flagged complete.
func (r *Registry) IsEnabled(ctx context.Context, formType schema.FormType) (bool, error) {
	set, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	enabled, ok := set[formType]
	if !ok {
		return false, fmt.Errorf("unknown form type: %s", formType)
	}
	return enabled, nil
}

// Enable marks migration for formType complete.
func (r *Registry) Enable(ctx context.Context, formType schema.FormType) error {
	return r.set(ctx, formType, true)
}

// Disable clears the migration flag for formType.
func (r *Registry) Disable(ctx context.Context, formType schema.FormType) error {
	return r.set(ctx, formType, false)
}

func (r *Registry) set(ctx context.Context, formType schema.FormType, value bool) error {
	if _, err := schema.ParseFormType(string(formType)); err != nil {
		return err
	}
	set, err := r.load(ctx)
	if err != nil {
		return err
	}
	set[formType] = value
	if err := r.write(ctx, set); err != nil {
		return err
	}
	r.logger.Debug("flag updated",
		slog.String("form_type", string(formType)),
		slog.Bool("enabled", value))
	return nil
}

// ResetAll clears every flag back to false.
func (r *Registry) ResetAll(ctx context.Context) error {
	set := Set{}
	for _, ft := range schema.AllFormTypes() {
		set[ft] = false
	}
	return r.write(ctx, set)
}

// Status returns a snapshot of the full flag set.
func (r *Registry) Status(ctx context.Context) (Set, error) {
	return r.load(ctx)
}
