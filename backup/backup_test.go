package backup_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xthiagomartins/rpa-analyst-sub000/backup"
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
	"github.com/0xthiagomartins/rpa-analyst-sub000/testutil"
)

func newStore(t *testing.T) *backup.Store {
	t.Helper()
	js := testutil.StartJetStream(t)
	s, err := backup.New(context.Background(), js)
	require.NoError(t, err)
	return s
}

func TestCreateAndRestore(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	payload := map[string]any{"name": "Invoice Matching", "id": "PROC-007"}
	id, err := s.Create(ctx, schema.FormIdentification, payload)
	require.NoError(t, err)
	assert.Equal(t, schema.FormIdentification, id.FormType())

	snapshot, err := s.Restore(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, schema.FormIdentification, snapshot.FormType)
	assert.False(t, snapshot.CreatedAt.IsZero())

	var restored map[string]any
	require.NoError(t, json.Unmarshal(snapshot.Payload, &restored))
	assert.Equal(t, "Invoice Matching", restored["name"])
}

func TestRestoreUnknownID(t *testing.T) {
	s := newStore(t)

	_, err := s.Restore(context.Background(), "identification.20260101T000000.000000.000001")
	assert.ErrorIs(t, err, backup.ErrSnapshotNotFound)
}

// Rapid consecutive snapshots for the same form type must yield
// distinct, strictly increasing identifiers.
func TestSnapshotOrdering(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var ids []backup.SnapshotID
	for i := 0; i < 3; i++ {
		id, err := s.Create(ctx, schema.FormRisks, map[string]any{"n": i})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	for i := 1; i < len(ids); i++ {
		assert.Less(t, string(ids[i-1]), string(ids[i]),
			"snapshot ids must be strictly increasing")
	}

	listed, err := s.List(ctx, schema.FormRisks)
	require.NoError(t, err)
	assert.Equal(t, ids, listed, "List must return creation order")
}

func TestListFiltersByFormType(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, schema.FormRisks, map[string]any{})
	require.NoError(t, err)
	_, err = s.Create(ctx, schema.FormSteps, map[string]any{})
	require.NoError(t, err)

	risks, err := s.List(ctx, schema.FormRisks)
	require.NoError(t, err)
	assert.Len(t, risks, 1)

	all, err := s.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

// After 7 snapshots and a prune with keep=5, exactly the 5 most recent
// remain.
func TestPruneRetention(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	var ids []backup.SnapshotID
	for i := 0; i < 7; i++ {
		id, err := s.Create(ctx, schema.FormSteps, map[string]any{"n": i})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	require.NoError(t, s.Prune(ctx, schema.FormSteps, 5))

	remaining, err := s.List(ctx, schema.FormSteps)
	require.NoError(t, err)
	require.Len(t, remaining, 5)
	assert.Equal(t, ids[2:], remaining, "the 5 most recent must survive")

	// The pruned snapshots are gone.
	_, err = s.Restore(ctx, ids[0])
	assert.ErrorIs(t, err, backup.ErrSnapshotNotFound)
}

func TestPruneFewerThanKeep(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	_, err := s.Create(ctx, schema.FormSteps, map[string]any{})
	require.NoError(t, err)

	require.NoError(t, s.Prune(ctx, schema.FormSteps, 5))

	remaining, err := s.List(ctx, schema.FormSteps)
	require.NoError(t, err)
	assert.Len(t, remaining, 1)
}

func TestPruneDoesNotCrossFormTypes(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := s.Create(ctx, schema.FormSteps, map[string]any{})
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, schema.FormRisks, map[string]any{})
	require.NoError(t, err)

	require.NoError(t, s.Prune(ctx, schema.FormSteps, 1))

	risks, err := s.List(ctx, schema.FormRisks)
	require.NoError(t, err)
	assert.Len(t, risks, 1, "pruning one form type must not touch another")
}
