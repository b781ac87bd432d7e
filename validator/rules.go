package validator

import (
	"fmt"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

func validateIdentification(p schema.IdentificationData) []FieldError {
	var errs []FieldError
	errs = required(errs, "process_name", p.ProcessName)
	errs = required(errs, "process_id", p.ProcessID)
	errs = pattern(errs, "process_id", p.ProcessID, processIDRe, "PROC-<digits>")
	errs = oneOf(errs, "status", p.Status,
		schema.StatusDraft, schema.StatusInReview, schema.StatusApproved, schema.StatusArchived)
	errs = validDate(errs, "creation_date", p.CreationDate)
	errs = validDate(errs, "last_update", p.LastUpdate)
	return errs
}

func validateProcessDetails(p schema.ProcessDetailsData) []FieldError {
	var errs []FieldError
	errs = required(errs, "description", p.Description)
	errs = oneOf(errs, "complexity", p.Complexity,
		schema.LevelLow, schema.LevelMedium, schema.LevelHigh)
	return errs
}

func validateBusinessRules(p schema.BusinessRulesData) []FieldError {
	var errs []FieldError
	for i, rule := range p.BusinessRules {
		prefix := fmt.Sprintf("business_rules[%d]", i)
		errs = required(errs, prefix+".description", rule.Description)
		errs = oneOf(errs, prefix+".rule_type", rule.RuleType,
			schema.RuleTypeValidation, schema.RuleTypeCalculation,
			schema.RuleTypeDecision, schema.RuleTypeCompliance)
		errs = oneOf(errs, prefix+".criticality", rule.Criticality,
			schema.LevelLow, schema.LevelMedium, schema.LevelHigh)
	}
	for i, exc := range p.Exceptions {
		prefix := fmt.Sprintf("exceptions[%d]", i)
		errs = required(errs, prefix+".description", exc.Description)
	}
	return errs
}

func validateAutomationGoals(p schema.AutomationGoalsData) []FieldError {
	var errs []FieldError
	errs = oneOf(errs, "priority", p.Priority,
		schema.LevelLow, schema.LevelMedium, schema.LevelHigh)
	for i, goal := range p.AutomationGoals {
		errs = required(errs, fmt.Sprintf("automation_goals[%d]", i), goal)
	}
	return errs
}

func validateSystems(p schema.SystemsData) []FieldError {
	var errs []FieldError
	for i, sys := range p.Systems {
		prefix := fmt.Sprintf("systems[%d]", i)
		errs = required(errs, prefix+".name", sys.Name)
		errs = oneOf(errs, prefix+".access_type", sys.AccessType,
			schema.AccessUI, schema.AccessAPI, schema.AccessDatabase, schema.AccessFile)
	}
	return errs
}

func validateData(p schema.DataData) []FieldError {
	var errs []FieldError
	for i, in := range p.Inputs {
		prefix := fmt.Sprintf("inputs[%d]", i)
		errs = required(errs, prefix+".name", in.Name)
		errs = oneOf(errs, prefix+".data_type", in.DataType,
			schema.DataTypeText, schema.DataTypeNumber, schema.DataTypeDate,
			schema.DataTypeBoolean, schema.DataTypeFile)
	}
	for i, out := range p.Outputs {
		prefix := fmt.Sprintf("outputs[%d]", i)
		errs = required(errs, prefix+".name", out.Name)
		errs = oneOf(errs, prefix+".data_type", out.DataType,
			schema.DataTypeText, schema.DataTypeNumber, schema.DataTypeDate,
			schema.DataTypeBoolean, schema.DataTypeFile)
	}
	return errs
}

func validateSteps(p schema.StepsData) []FieldError {
	var errs []FieldError
	for i, step := range p.Steps {
		prefix := fmt.Sprintf("steps[%d]", i)
		errs = required(errs, prefix+".description", step.Description)
		if step.StepNumber < 1 {
			errs = append(errs, FieldError{
				Path:    prefix + ".step_number",
				Message: fmt.Sprintf("must be positive, got %d", step.StepNumber),
			})
		}
	}
	if p.TotalSteps != len(p.Steps) {
		errs = append(errs, FieldError{
			Path:    "total_steps",
			Message: fmt.Sprintf("expected %d, got %d", len(p.Steps), p.TotalSteps),
		})
	}
	return errs
}

func validateRisks(p schema.RisksData) []FieldError {
	var errs []FieldError
	for i, risk := range p.Risks {
		prefix := fmt.Sprintf("risks[%d]", i)
		errs = required(errs, prefix+".description", risk.Description)
		errs = oneOf(errs, prefix+".level", risk.Level,
			schema.LevelLow, schema.LevelMedium, schema.LevelHigh, schema.LevelCritical)
		errs = oneOf(errs, prefix+".probability", risk.Probability,
			schema.LevelLow, schema.LevelMedium, schema.LevelHigh)
		// High and critical risks require a mitigation plan.
		if (risk.Level == schema.LevelHigh || risk.Level == schema.LevelCritical) && risk.Mitigation == "" {
			errs = append(errs, FieldError{
				Path:    prefix + ".mitigation",
				Message: fmt.Sprintf("required for %s risks", risk.Level),
			})
		}
	}
	return errs
}

func validateDocumentation(p schema.DocumentationData) []FieldError {
	var errs []FieldError
	errs = validDate(errs, "review_date", p.ReviewDate)
	for i, contact := range p.SupportContacts {
		errs = required(errs, fmt.Sprintf("support_contacts[%d].name", i), contact.Name)
	}
	return errs
}
