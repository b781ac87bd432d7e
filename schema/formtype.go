// Package schema defines the form types captured by the documentation
// wizard and the canonical payload shapes they migrate into.
package schema

import "fmt"

// FormType identifies one of the fixed categories of captured process data.
type FormType string

const (
	FormIdentification  FormType = "identification"
	FormProcessDetails  FormType = "process_details"
	FormBusinessRules   FormType = "business_rules"
	FormAutomationGoals FormType = "automation_goals"
	FormSystems         FormType = "systems"
	FormData            FormType = "data"
	FormSteps           FormType = "steps"
	FormRisks           FormType = "risks"
	FormDocumentation   FormType = "documentation"
)

// AllFormTypes returns every known form type in wizard order.
func AllFormTypes() []FormType {
	return []FormType{
		FormIdentification,
		FormProcessDetails,
		FormBusinessRules,
		FormAutomationGoals,
		FormSystems,
		FormData,
		FormSteps,
		FormRisks,
		FormDocumentation,
	}
}

// ParseFormType validates a form type string.
func ParseFormType(s string) (FormType, error) {
	ft := FormType(s)
	for _, known := range AllFormTypes() {
		if ft == known {
			return ft, nil
		}
	}
	return "", fmt.Errorf("unknown form type: %s", s)
}

// String returns the string representation of the form type.
func (f FormType) String() string {
	return string(f)
}
