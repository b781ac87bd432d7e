package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
	"github.com/0xthiagomartins/rpa-analyst-sub000/store"
	"github.com/0xthiagomartins/rpa-analyst-sub000/testutil"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	js := testutil.StartJetStream(t)
	s, err := store.New(context.Background(), js)
	require.NoError(t, err)
	return s
}

func samplePayload() schema.IdentificationData {
	return schema.IdentificationData{
		ProcessName:  "Invoice Matching",
		ProcessID:    "PROC-007",
		Department:   "Finance",
		Owner:        "A. Silva",
		Participants: []string{},
		Status:       schema.StatusDraft,
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	require.NoError(t, s.Save(ctx, schema.FormIdentification, "PROC-007", samplePayload()))

	record, err := s.Load(ctx, schema.FormIdentification, "PROC-007")
	require.NoError(t, err)

	assert.Equal(t, store.SchemaVersion, record.Metadata.Version)
	assert.Equal(t, store.StatusMigrated, record.Metadata.Status)
	assert.True(t, record.Metadata.MigratedAt.After(before))

	payload, err := record.DecodeData(schema.FormIdentification)
	require.NoError(t, err)
	assert.Equal(t, samplePayload(), payload)
}

func TestLoadAbsentIsNotFound(t *testing.T) {
	s := newStore(t)

	_, err := s.Load(context.Background(), schema.FormIdentification, "PROC-999")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSaveOverwrites(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	first := samplePayload()
	require.NoError(t, s.Save(ctx, schema.FormIdentification, "PROC-007", first))

	second := samplePayload()
	second.Owner = "B. Costa"
	require.NoError(t, s.Save(ctx, schema.FormIdentification, "PROC-007", second))

	record, err := s.Load(ctx, schema.FormIdentification, "PROC-007")
	require.NoError(t, err)
	payload, err := record.DecodeData(schema.FormIdentification)
	require.NoError(t, err)
	assert.Equal(t, "B. Costa", payload.(schema.IdentificationData).Owner)
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, schema.FormIdentification, "PROC-007", samplePayload()))
	require.NoError(t, s.Delete(ctx, schema.FormIdentification, "PROC-007"))

	_, err := s.Load(ctx, schema.FormIdentification, "PROC-007")
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Deleting an absent key is not an error.
	assert.NoError(t, s.Delete(ctx, schema.FormIdentification, "PROC-007"))
}

func TestListByFormType(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, schema.FormIdentification, "PROC-001", samplePayload()))
	require.NoError(t, s.Save(ctx, schema.FormIdentification, "PROC-002", samplePayload()))
	require.NoError(t, s.Save(ctx, schema.FormRisks, "PROC-001", schema.RisksData{Risks: []schema.Risk{}}))

	ids, err := s.List(ctx, schema.FormIdentification)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"PROC-001", "PROC-002"}, ids)

	ids, err = s.List(ctx, schema.FormSteps)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
