package flags_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xthiagomartins/rpa-analyst-sub000/flags"
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
	"github.com/0xthiagomartins/rpa-analyst-sub000/testutil"
)

func TestInitialSetHasEveryFormType(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	r, err := flags.NewRegistry(ctx, js, nil)
	require.NoError(t, err)

	set, err := r.Status(ctx)
	require.NoError(t, err)

	require.Len(t, set, len(schema.AllFormTypes()))
	for _, ft := range schema.AllFormTypes() {
		enabled, ok := set[ft]
		require.True(t, ok, "form type %s must have an explicit entry", ft)
		assert.False(t, enabled, "form type %s must start disabled", ft)
	}
}

// Enabling a flag, reloading the registry from scratch, and reading
// the flag again yields true.
func TestFlagPersistenceRoundTrip(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	r, err := flags.NewRegistry(ctx, js, nil)
	require.NoError(t, err)
	require.NoError(t, r.Enable(ctx, schema.FormIdentification))

	// Fresh registry over the same persisted state.
	reloaded, err := flags.NewRegistry(ctx, js, nil)
	require.NoError(t, err)

	enabled, err := reloaded.IsEnabled(ctx, schema.FormIdentification)
	require.NoError(t, err)
	assert.True(t, enabled)

	// Unrelated flags are untouched.
	enabled, err = reloaded.IsEnabled(ctx, schema.FormRisks)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestDisable(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	r, err := flags.NewRegistry(ctx, js, nil)
	require.NoError(t, err)

	require.NoError(t, r.Enable(ctx, schema.FormSteps))
	require.NoError(t, r.Disable(ctx, schema.FormSteps))

	enabled, err := r.IsEnabled(ctx, schema.FormSteps)
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestResetAll(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	r, err := flags.NewRegistry(ctx, js, nil)
	require.NoError(t, err)

	require.NoError(t, r.Enable(ctx, schema.FormIdentification))
	require.NoError(t, r.Enable(ctx, schema.FormRisks))
	require.NoError(t, r.ResetAll(ctx))

	set, err := r.Status(ctx)
	require.NoError(t, err)
	for ft, enabled := range set {
		assert.False(t, enabled, "form type %s should be reset", ft)
	}
}

func TestUnknownFormType(t *testing.T) {
	js := testutil.StartJetStream(t)
	ctx := context.Background()

	r, err := flags.NewRegistry(ctx, js, nil)
	require.NoError(t, err)

	assert.Error(t, r.Enable(ctx, "not_a_form"))

	_, err = r.IsEnabled(ctx, "not_a_form")
	assert.Error(t, err)
}
