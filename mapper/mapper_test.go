package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// Mapping must be total: for every form type, an empty legacy payload
// maps to a canonical payload with every field at its default.
func TestMapFormTotality(t *testing.T) {
	for _, ft := range schema.AllFormTypes() {
		t.Run(string(ft), func(t *testing.T) {
			for _, legacy := range []schema.LegacyPayload{nil, {}} {
				canonical := MapForm(ft, legacy)
				require.NotNil(t, canonical)
				assert.Equal(t, ft, canonical.FormType())
			}
		})
	}
}

func TestMapFormUnknownType(t *testing.T) {
	assert.Nil(t, MapForm("not_a_form", schema.LegacyPayload{}))
}

func TestMapIdentification(t *testing.T) {
	t.Run("legacy aliases and defaults", func(t *testing.T) {
		legacy := schema.LegacyPayload{
			"name":       "Invoice Matching",
			"id":         "PROC-007",
			"department": "Finance",
			"owner":      "A. Silva",
			"status":     "draft",
		}

		got := MapIdentification(legacy)

		assert.Equal(t, "Invoice Matching", got.ProcessName)
		assert.Equal(t, "PROC-007", got.ProcessID)
		assert.Equal(t, "Finance", got.Department)
		assert.Equal(t, "A. Silva", got.Owner)
		assert.Empty(t, got.Participants)
		assert.NotNil(t, got.Participants)
		assert.Equal(t, "", got.CreationDate)
		assert.Equal(t, "", got.LastUpdate)
		assert.Equal(t, schema.StatusDraft, got.Status)
	})

	t.Run("empty input gets full defaults", func(t *testing.T) {
		got := MapIdentification(schema.LegacyPayload{})

		assert.Equal(t, "", got.ProcessName)
		assert.Equal(t, "", got.ProcessID)
		assert.Equal(t, schema.StatusDraft, got.Status)
		assert.NotNil(t, got.Participants)
	})

	t.Run("status is normalized, invalid values pass through", func(t *testing.T) {
		got := MapIdentification(schema.LegacyPayload{"status": " In_Review "})
		assert.Equal(t, schema.StatusInReview, got.Status)

		got = MapIdentification(schema.LegacyPayload{"status": "published"})
		assert.Equal(t, "published", got.Status)
	})

	t.Run("wrong types are coerced", func(t *testing.T) {
		got := MapIdentification(schema.LegacyPayload{
			"name":         float64(42),
			"participants": "solo",
		})
		assert.Equal(t, "42", got.ProcessName)
		assert.Equal(t, []string{"solo"}, got.Participants)
	})
}

func TestMapBusinessRules(t *testing.T) {
	legacy := schema.LegacyPayload{
		"business_rules": []any{
			map[string]any{
				"id":          "BR-1",
				"description": "Match totals",
				"type":        "Calculation",
				"criticality": "high",
			},
			"not a record",
			map[string]any{"description": "Audit trail"},
		},
	}

	got := MapBusinessRules(legacy)

	require.Len(t, got.BusinessRules, 3)
	assert.Equal(t, "BR-1", got.BusinessRules[0].RuleID)
	assert.Equal(t, schema.RuleTypeCalculation, got.BusinessRules[0].RuleType)
	assert.Equal(t, schema.LevelHigh, got.BusinessRules[0].Criticality)

	// Malformed element becomes a default-filled record in place.
	assert.Equal(t, schema.RuleTypeValidation, got.BusinessRules[1].RuleType)
	assert.Equal(t, "", got.BusinessRules[1].Description)

	assert.Equal(t, "Audit trail", got.BusinessRules[2].Description)
	assert.Equal(t, schema.LevelMedium, got.BusinessRules[2].Criticality)

	assert.NotNil(t, got.Exceptions)
	assert.Empty(t, got.Exceptions)
}

func TestMapSteps(t *testing.T) {
	legacy := schema.LegacyPayload{
		"steps": []any{
			map[string]any{"description": "Open portal", "actor": "Clerk"},
			map[string]any{"step_number": float64(5), "description": "Download report", "automated": true},
		},
	}

	got := MapSteps(legacy)

	require.Len(t, got.Steps, 2)
	// Missing step number defaults to list position.
	assert.Equal(t, 1, got.Steps[0].StepNumber)
	assert.Equal(t, 5, got.Steps[1].StepNumber)
	assert.True(t, got.Steps[1].Automated)
	assert.Equal(t, 2, got.TotalSteps)
}

func TestMapRisks(t *testing.T) {
	legacy := schema.LegacyPayload{
		"risks": []any{
			map[string]any{
				"id":          "RK-1",
				"description": "Credential expiry",
				"severity":    "Critical",
				"mitigation":  "Rotate monthly",
			},
		},
		"contingency_plan": "Manual fallback",
	}

	got := MapRisks(legacy)

	require.Len(t, got.Risks, 1)
	assert.Equal(t, schema.LevelCritical, got.Risks[0].Level)
	assert.Equal(t, schema.LevelLow, got.Risks[0].Probability)
	assert.Equal(t, "Rotate monthly", got.Risks[0].Mitigation)
	assert.Equal(t, "Manual fallback", got.ContingencyPlan)
}

func TestMapDataPreservesOrder(t *testing.T) {
	legacy := schema.LegacyPayload{
		"inputs": []any{
			map[string]any{"name": "invoice", "type": "file"},
			map[string]any{"name": "po_number", "type": "text"},
			map[string]any{"name": "amount", "type": "number"},
		},
	}

	got := MapData(legacy)

	require.Len(t, got.Inputs, 3)
	assert.Equal(t, "invoice", got.Inputs[0].Name)
	assert.Equal(t, "po_number", got.Inputs[1].Name)
	assert.Equal(t, "amount", got.Inputs[2].Name)
	assert.Equal(t, schema.DataTypeFile, got.Inputs[0].DataType)
}

// Mapping the same input twice yields identical output.
func TestMapFormDeterministic(t *testing.T) {
	legacy := schema.LegacyPayload{
		"name":   "Invoice Matching",
		"id":     "PROC-007",
		"status": "draft",
	}

	first := MapForm(schema.FormIdentification, legacy)
	second := MapForm(schema.FormIdentification, legacy)
	assert.Equal(t, first, second)
}
