package migration_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xthiagomartins/rpa-analyst-sub000/backup"
	"github.com/0xthiagomartins/rpa-analyst-sub000/migration"
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
	"github.com/0xthiagomartins/rpa-analyst-sub000/store"
	"github.com/0xthiagomartins/rpa-analyst-sub000/testutil"
)

// End-to-end over real JetStream-backed stores.
func TestPipelineAgainstJetStream(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	records, err := store.New(ctx, js)
	require.NoError(t, err)
	backups, err := backup.New(ctx, js)
	require.NoError(t, err)

	o := migration.New(records, backups, nil)

	result := o.Migrate(ctx, schema.FormIdentification, "PROC-007", validLegacy())
	require.True(t, result.Success, "errors: %v", result.Errors)

	// The record is readable back with the full envelope.
	record, err := records.Load(ctx, schema.FormIdentification, "PROC-007")
	require.NoError(t, err)
	assert.Equal(t, store.SchemaVersion, record.Metadata.Version)
	assert.Equal(t, store.StatusMigrated, record.Metadata.Status)

	payload, err := record.DecodeData(schema.FormIdentification)
	require.NoError(t, err)
	data, ok := payload.(schema.IdentificationData)
	require.True(t, ok)
	assert.Equal(t, "Invoice Matching", data.ProcessName)
	assert.Equal(t, "PROC-007", data.ProcessID)

	// The legacy payload was snapshotted before persistence.
	snapshots, err := backups.List(ctx, schema.FormIdentification)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)

	restored, err := backups.Restore(ctx, snapshots[0])
	require.NoError(t, err)
	var legacy map[string]any
	require.NoError(t, json.Unmarshal(restored.Payload, &legacy))
	assert.Equal(t, "Invoice Matching", legacy["name"])

	// Re-running the same migration is idempotent: the record is
	// overwritten in place and a new snapshot is taken.
	again := o.Migrate(ctx, schema.FormIdentification, "PROC-007", validLegacy())
	require.True(t, again.Success)

	snapshots, err = backups.List(ctx, schema.FormIdentification)
	require.NoError(t, err)
	assert.Len(t, snapshots, 2)

	_, err = records.Load(ctx, schema.FormIdentification, "PROC-007")
	assert.NoError(t, err)
}

func TestPipelineInvalidLeavesNoRecord(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	records, err := store.New(ctx, js)
	require.NoError(t, err)
	backups, err := backup.New(ctx, js)
	require.NoError(t, err)

	o := migration.New(records, backups, nil)

	result := o.Migrate(ctx, schema.FormIdentification, "PROC-001", schema.LegacyPayload{})
	require.False(t, result.Success)
	require.NotNil(t, result.Rollback)
	assert.True(t, result.Rollback.Success)

	_, err = records.Load(ctx, schema.FormIdentification, "PROC-001")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
