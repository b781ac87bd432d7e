package migration

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/0xthiagomartins/rpa-analyst-sub000/schema"
)

// Export is one legacy export file as written by the wizard UI: the
// process identity plus the form's captured data under the old schema.
type Export struct {
	ProcessID string               `json:"process_id"`
	FormType  string               `json:"form_type"`
	Data      schema.LegacyPayload `json:"data"`
}

// Form returns the export's form type. LoadExport guarantees it is a
// known type.
func (e *Export) Form() schema.FormType {
	return schema.FormType(e.FormType)
}

// LoadExport reads and parses a legacy export file. The form type is
// validated; the data itself is not, since the mapper accepts any
// shape.
func LoadExport(path string) (*Export, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read export %s: %w", path, err)
	}

	var export Export
	if err := json.Unmarshal(raw, &export); err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}
	if export.ProcessID == "" {
		return nil, fmt.Errorf("export %s: missing process_id", path)
	}
	if _, err := schema.ParseFormType(export.FormType); err != nil {
		return nil, fmt.Errorf("export %s: %w", path, err)
	}
	if export.Data == nil {
		export.Data = schema.LegacyPayload{}
	}
	return &export, nil
}
