// Package validator checks canonical payloads against per-form-type
// field rules. Validation is a pure function of its input: no I/O, no
// knowledge of other processes. A run accumulates every violation
// rather than stopping at the first, so callers can surface a complete
// error report in one round trip.
package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// Pre-compiled patterns for format rules.
var (
	// processIDRe matches canonical process identifiers (PROC-007).
	processIDRe = regexp.MustCompile(`^PROC-\d{3,}$`)
)

// dateLayouts are the accepted layouts for date-valued fields.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"2006-01-02 15:04:05",
}

// FieldError is a single validation violation. Path addresses the
// offending field in dotted/bracketed notation, e.g.
// "business_rules[2].rule_type".
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// String renders the violation as "path: message".
func (e FieldError) String() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate checks a canonical payload against the rules for its form
// type. An empty result means the payload is valid. A payload whose
// dynamic type does not match formType yields a single form-level
// violation.
func Validate(formType schema.FormType, payload schema.CanonicalPayload) []FieldError {
	switch p := payload.(type) {
	case schema.IdentificationData:
		return validateIdentification(p)
	case schema.ProcessDetailsData:
		return validateProcessDetails(p)
	case schema.BusinessRulesData:
		return validateBusinessRules(p)
	case schema.AutomationGoalsData:
		return validateAutomationGoals(p)
	case schema.SystemsData:
		return validateSystems(p)
	case schema.DataData:
		return validateData(p)
	case schema.StepsData:
		return validateSteps(p)
	case schema.RisksData:
		return validateRisks(p)
	case schema.DocumentationData:
		return validateDocumentation(p)
	default:
		return []FieldError{{
			Path:    string(formType),
			Message: fmt.Sprintf("no canonical payload for form type %s", formType),
		}}
	}
}

// required appends a violation when value is empty.
func required(errs []FieldError, path, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		errs = append(errs, FieldError{Path: path, Message: "field is required"})
	}
	return errs
}

// oneOf appends a violation when value is not a member of allowed.
// Empty values are left to the required rule.
func oneOf(errs []FieldError, path, value string, allowed ...string) []FieldError {
	if value == "" {
		return errs
	}
	for _, a := range allowed {
		if value == a {
			return errs
		}
	}
	return append(errs, FieldError{
		Path:    path,
		Message: fmt.Sprintf("must be one of [%s], got %q", strings.Join(allowed, ", "), value),
	})
}

// pattern appends a violation when a non-empty value does not match re.
func pattern(errs []FieldError, path, value string, re *regexp.Regexp, hint string) []FieldError {
	if value == "" || re.MatchString(value) {
		return errs
	}
	return append(errs, FieldError{
		Path:    path,
		Message: fmt.Sprintf("must match %s, got %q", hint, value),
	})
}

// validDate appends a violation when a non-empty value parses under
// none of the accepted date layouts.
func validDate(errs []FieldError, path, value string) []FieldError {
	if value == "" {
		return errs
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, value); err == nil {
			return errs
		}
	}
	return append(errs, FieldError{
		Path:    path,
		Message: fmt.Sprintf("not a valid date: %q", value),
	})
}
