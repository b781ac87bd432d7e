package mapper

import (
	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// MapIdentification maps the legacy identification form. Older exports
// used bare "name" and "id" keys for the process name and identifier.
func MapIdentification(legacy schema.LegacyPayload) schema.IdentificationData {
	return schema.IdentificationData{
		ProcessName:  legacy.StringOr("process_name", "name"),
		ProcessID:    legacy.StringOr("process_id", "id"),
		Department:   legacy.String("department"),
		Owner:        legacy.StringOr("owner", "responsible"),
		Participants: legacy.StringList("participants"),
		CreationDate: legacy.StringOr("creation_date", "created_at"),
		LastUpdate:   legacy.StringOr("last_update", "updated_at"),
		Status:       normalized(legacy.String("status"), schema.StatusDraft),
	}
}

// MapProcessDetails maps the legacy process details form.
func MapProcessDetails(legacy schema.LegacyPayload) schema.ProcessDetailsData {
	return schema.ProcessDetailsData{
		Description: legacy.StringOr("description", "process_description"),
		Objective:   legacy.StringOr("objective", "goal"),
		Scope:       legacy.String("scope"),
		Frequency:   legacy.StringOr("frequency", "periodicity"),
		Volume:      legacy.String("volume"),
		Duration:    legacy.String("duration"),
		Complexity:  normalized(legacy.String("complexity"), schema.LevelMedium),
		DataUsed:    legacy.StringMap("data_used"),
		Systems:     legacy.StringList("systems"),
	}
}

// MapBusinessRules maps the legacy business rules form. Each rule and
// exception record maps independently; a malformed element contributes
// a default-filled record rather than aborting the list.
func MapBusinessRules(legacy schema.LegacyPayload) schema.BusinessRulesData {
	out := schema.BusinessRulesData{
		BusinessRules: []schema.BusinessRule{},
		Exceptions:    []schema.RuleException{},
	}
	for _, rec := range legacy.RecordList("business_rules") {
		out.BusinessRules = append(out.BusinessRules, schema.BusinessRule{
			RuleID:      rec.StringOr("rule_id", "id"),
			Description: rec.String("description"),
			RuleType:    normalized(rec.StringOr("rule_type", "type"), schema.RuleTypeValidation),
			Criticality: normalized(rec.String("criticality"), schema.LevelMedium),
		})
	}
	for _, rec := range legacy.RecordList("exceptions") {
		out.Exceptions = append(out.Exceptions, schema.RuleException{
			ExceptionID: rec.StringOr("exception_id", "id"),
			Description: rec.String("description"),
			Handling:    rec.StringOr("handling", "treatment"),
		})
	}
	return out
}

// MapAutomationGoals maps the legacy automation goals form.
func MapAutomationGoals(legacy schema.LegacyPayload) schema.AutomationGoalsData {
	return schema.AutomationGoalsData{
		AutomationGoals: legacy.StringList("automation_goals"),
		Benefits:        legacy.StringList("benefits"),
		SuccessMetrics:  legacy.StringList("success_metrics"),
		Priority:        normalized(legacy.String("priority"), schema.LevelMedium),
	}
}

// MapSystems maps the legacy systems form.
func MapSystems(legacy schema.LegacyPayload) schema.SystemsData {
	out := schema.SystemsData{
		Systems:      []schema.SystemEntry{},
		Integrations: legacy.StringList("integrations"),
	}
	for _, rec := range legacy.RecordList("systems") {
		out.Systems = append(out.Systems, schema.SystemEntry{
			Name:                rec.String("name"),
			Role:                rec.String("role"),
			AccessType:          normalized(rec.String("access_type"), schema.AccessUI),
			CredentialsRequired: rec.Bool("credentials_required"),
		})
	}
	return out
}

// MapData maps the legacy data form.
func MapData(legacy schema.LegacyPayload) schema.DataData {
	out := schema.DataData{
		Inputs:          []schema.DataField{},
		Outputs:         []schema.DataField{},
		DataVolume:      legacy.String("data_volume"),
		RetentionPolicy: legacy.String("retention_policy"),
	}
	for _, rec := range legacy.RecordList("inputs") {
		out.Inputs = append(out.Inputs, schema.DataField{
			Name:     rec.String("name"),
			DataType: normalized(rec.StringOr("data_type", "type"), schema.DataTypeText),
			Source:   rec.String("source"),
			Format:   rec.String("format"),
		})
	}
	for _, rec := range legacy.RecordList("outputs") {
		out.Outputs = append(out.Outputs, schema.DataField{
			Name:        rec.String("name"),
			DataType:    normalized(rec.StringOr("data_type", "type"), schema.DataTypeText),
			Destination: rec.String("destination"),
			Format:      rec.String("format"),
		})
	}
	return out
}

// MapSteps maps the legacy steps form. Step numbers default to the
// element's position when the legacy record carries none, preserving
// legacy list order.
func MapSteps(legacy schema.LegacyPayload) schema.StepsData {
	out := schema.StepsData{Steps: []schema.ProcessStep{}}
	for i, rec := range legacy.RecordList("steps") {
		number := rec.Int("step_number")
		if number == 0 {
			number = i + 1
		}
		out.Steps = append(out.Steps, schema.ProcessStep{
			StepNumber:  number,
			Description: rec.String("description"),
			Actor:       rec.StringOr("actor", "responsible"),
			System:      rec.String("system"),
			Input:       rec.String("input"),
			Output:      rec.String("output"),
			Automated:   rec.Bool("automated"),
		})
	}
	out.TotalSteps = len(out.Steps)
	return out
}

// MapRisks maps the legacy risks form.
func MapRisks(legacy schema.LegacyPayload) schema.RisksData {
	out := schema.RisksData{
		Risks:           []schema.Risk{},
		ContingencyPlan: legacy.String("contingency_plan"),
	}
	for _, rec := range legacy.RecordList("risks") {
		out.Risks = append(out.Risks, schema.Risk{
			RiskID:      rec.StringOr("risk_id", "id"),
			Description: rec.String("description"),
			Level:       normalized(rec.StringOr("level", "severity"), schema.LevelLow),
			Probability: normalized(rec.String("probability"), schema.LevelLow),
			Impact:      rec.String("impact"),
			Mitigation:  rec.StringOr("mitigation", "mitigation_plan"),
		})
	}
	return out
}

// MapDocumentation maps the legacy documentation form.
func MapDocumentation(legacy schema.LegacyPayload) schema.DocumentationData {
	out := schema.DocumentationData{
		ProcessDocumentation: legacy.StringOr("process_documentation", "documentation"),
		TrainingMaterials:    legacy.StringList("training_materials"),
		SupportContacts:      []schema.SupportContact{},
		ReviewDate:           legacy.String("review_date"),
	}
	for _, rec := range legacy.RecordList("support_contacts") {
		out.SupportContacts = append(out.SupportContacts, schema.SupportContact{
			Name:    rec.String("name"),
			Role:    rec.String("role"),
			Contact: rec.StringOr("contact", "email"),
		})
	}
	return out
}
