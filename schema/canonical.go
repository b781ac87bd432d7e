package schema

import (
	"encoding/json"
	"fmt"
)

// CanonicalPayload is implemented by the typed per-form-type payload
// structs. The mapper guarantees every field of an implementation is
// populated, so a payload can always be persisted as-is.
type CanonicalPayload interface {
	FormType() FormType
}

// Process status values for the identification form.
const (
	StatusDraft    = "draft"
	StatusInReview = "in_review"
	StatusApproved = "approved"
	StatusArchived = "archived"
)

// Shared low/medium/high scale values.
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)

// IdentificationData is the canonical shape of the identification form.
type IdentificationData struct {
	ProcessName  string   `json:"process_name"`
	ProcessID    string   `json:"process_id"`
	Department   string   `json:"department"`
	Owner        string   `json:"owner"`
	Participants []string `json:"participants"`
	CreationDate string   `json:"creation_date"`
	LastUpdate   string   `json:"last_update"`
	Status       string   `json:"status"`
}

func (IdentificationData) FormType() FormType { return FormIdentification }

// ProcessDetailsData is the canonical shape of the process details form.
type ProcessDetailsData struct {
	Description string            `json:"description"`
	Objective   string            `json:"objective"`
	Scope       string            `json:"scope"`
	Frequency   string            `json:"frequency"`
	Volume      string            `json:"volume"`
	Duration    string            `json:"duration"`
	Complexity  string            `json:"complexity"`
	DataUsed    map[string]string `json:"data_used"`
	Systems     []string          `json:"systems"`
}

func (ProcessDetailsData) FormType() FormType { return FormProcessDetails }

// BusinessRule is one rule record in the business rules form.
type BusinessRule struct {
	RuleID      string `json:"rule_id"`
	Description string `json:"description"`
	RuleType    string `json:"rule_type"`
	Criticality string `json:"criticality"`
}

// RuleException is one exception record in the business rules form.
type RuleException struct {
	ExceptionID string `json:"exception_id"`
	Description string `json:"description"`
	Handling    string `json:"handling"`
}

// BusinessRulesData is the canonical shape of the business rules form.
type BusinessRulesData struct {
	BusinessRules []BusinessRule  `json:"business_rules"`
	Exceptions    []RuleException `json:"exceptions"`
}

func (BusinessRulesData) FormType() FormType { return FormBusinessRules }

// Rule type values for business rules.
const (
	RuleTypeValidation  = "validation"
	RuleTypeCalculation = "calculation"
	RuleTypeDecision    = "decision"
	RuleTypeCompliance  = "compliance"
)

// AutomationGoalsData is the canonical shape of the automation goals form.
type AutomationGoalsData struct {
	AutomationGoals []string `json:"automation_goals"`
	Benefits        []string `json:"benefits"`
	SuccessMetrics  []string `json:"success_metrics"`
	Priority        string   `json:"priority"`
}

func (AutomationGoalsData) FormType() FormType { return FormAutomationGoals }

// SystemEntry is one system record in the systems form.
type SystemEntry struct {
	Name                string `json:"name"`
	Role                string `json:"role"`
	AccessType          string `json:"access_type"`
	CredentialsRequired bool   `json:"credentials_required"`
}

// Access type values for system entries.
const (
	AccessUI       = "ui"
	AccessAPI      = "api"
	AccessDatabase = "database"
	AccessFile     = "file"
)

// SystemsData is the canonical shape of the systems form.
type SystemsData struct {
	Systems      []SystemEntry `json:"systems"`
	Integrations []string      `json:"integrations"`
}

func (SystemsData) FormType() FormType { return FormSystems }

// DataField is one input or output record in the data form.
type DataField struct {
	Name     string `json:"name"`
	DataType string `json:"data_type"`
	// Source is set for inputs, Destination for outputs.
	Source      string `json:"source,omitempty"`
	Destination string `json:"destination,omitempty"`
	Format      string `json:"format"`
}

// Data type values for data fields.
const (
	DataTypeText    = "text"
	DataTypeNumber  = "number"
	DataTypeDate    = "date"
	DataTypeBoolean = "boolean"
	DataTypeFile    = "file"
)

// DataData is the canonical shape of the data form.
type DataData struct {
	Inputs          []DataField `json:"inputs"`
	Outputs         []DataField `json:"outputs"`
	DataVolume      string      `json:"data_volume"`
	RetentionPolicy string      `json:"retention_policy"`
}

func (DataData) FormType() FormType { return FormData }

// ProcessStep is one step record in the steps form.
type ProcessStep struct {
	StepNumber  int    `json:"step_number"`
	Description string `json:"description"`
	Actor       string `json:"actor"`
	System      string `json:"system"`
	Input       string `json:"input"`
	Output      string `json:"output"`
	Automated   bool   `json:"automated"`
}

// StepsData is the canonical shape of the steps form.
type StepsData struct {
	Steps      []ProcessStep `json:"steps"`
	TotalSteps int           `json:"total_steps"`
}

func (StepsData) FormType() FormType { return FormSteps }

// Risk is one risk record in the risks form.
type Risk struct {
	RiskID      string `json:"risk_id"`
	Description string `json:"description"`
	Level       string `json:"level"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}

// RisksData is the canonical shape of the risks form.
type RisksData struct {
	Risks           []Risk `json:"risks"`
	ContingencyPlan string `json:"contingency_plan"`
}

func (RisksData) FormType() FormType { return FormRisks }

// SupportContact is one contact record in the documentation form.
type SupportContact struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Contact string `json:"contact"`
}

// DocumentationData is the canonical shape of the documentation form.
type DocumentationData struct {
	ProcessDocumentation string           `json:"process_documentation"`
	TrainingMaterials    []string         `json:"training_materials"`
	SupportContacts      []SupportContact `json:"support_contacts"`
	ReviewDate           string           `json:"review_date"`
}

func (DocumentationData) FormType() FormType { return FormDocumentation }

// DecodePayload unmarshals a canonical payload of the given form type.
func DecodePayload(formType FormType, data []byte) (CanonicalPayload, error) {
	var (
		payload CanonicalPayload
		err     error
	)
	switch formType {
	case FormIdentification:
		var p IdentificationData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormProcessDetails:
		var p ProcessDetailsData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormBusinessRules:
		var p BusinessRulesData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormAutomationGoals:
		var p AutomationGoalsData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormSystems:
		var p SystemsData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormData:
		var p DataData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormSteps:
		var p StepsData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormRisks:
		var p RisksData
		err = json.Unmarshal(data, &p)
		payload = p
	case FormDocumentation:
		var p DocumentationData
		err = json.Unmarshal(data, &p)
		payload = p
	default:
		return nil, fmt.Errorf("unknown form type: %s", formType)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", formType, err)
	}
	return payload, nil
}
