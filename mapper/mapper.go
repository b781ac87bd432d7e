// Package mapper converts legacy form payloads into their canonical
// shapes. Every mapping function is pure and total: it never fails,
// never performs I/O, and produces every canonical field for any legacy
// input, including an empty one. Absent fields resolve to documented
// defaults; present fields are coerced best-effort and passed through
// for the validator to judge.
package mapper

import (
	"strings"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// MapForm maps a legacy payload to the canonical shape for formType.
// Unknown form types map to nil; callers are expected to have parsed
// the form type first.
func MapForm(formType schema.FormType, legacy schema.LegacyPayload) schema.CanonicalPayload {
	if legacy == nil {
		legacy = schema.LegacyPayload{}
	}
	switch formType {
	case schema.FormIdentification:
		return MapIdentification(legacy)
	case schema.FormProcessDetails:
		return MapProcessDetails(legacy)
	case schema.FormBusinessRules:
		return MapBusinessRules(legacy)
	case schema.FormAutomationGoals:
		return MapAutomationGoals(legacy)
	case schema.FormSystems:
		return MapSystems(legacy)
	case schema.FormData:
		return MapData(legacy)
	case schema.FormSteps:
		return MapSteps(legacy)
	case schema.FormRisks:
		return MapRisks(legacy)
	case schema.FormDocumentation:
		return MapDocumentation(legacy)
	default:
		return nil
	}
}

// normalized lowercases and trims an enum-valued legacy field so that
// "Draft" and "draft " compare equal. Empty input yields def; anything
// else passes through unchanged for validation to judge membership.
func normalized(value, def string) string {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return def
	}
	return v
}
