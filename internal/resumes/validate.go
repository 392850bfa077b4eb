package resumes

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const workHistorySchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["position"],
    "properties": {
      "position":    {"type": "string", "pattern": "\\S"},
      "name":        {"type": "string"},
      "companyName": {"type": "string"},
      "company":     {"type": "string"}
    },
    "anyOf": [
      {"required": ["name"],        "properties": {"name":        {"pattern": "\\S"}}},
      {"required": ["companyName"], "properties": {"companyName": {"pattern": "\\S"}}},
      {"required": ["company"],     "properties": {"company":     {"pattern": "\\S"}}}
    ]
  }
}`

var compiledWorkHistorySchema = mustSchema(workHistorySchema)

func mustSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("work history schema: %v", err))
	}
	return schema
}

// Validate checks the required fields and parses workHistory. Missing
// scalars are reported in form order: fullName, currentPosition,
// currentLength, currentTechnologies.
func Validate(raw RawFields) (ValidatedInput, error) {
	required := []struct {
		name  string
		value string
	}{
		{"fullName", raw.FullName},
		{"currentPosition", raw.CurrentPosition},
		{"currentLength", raw.CurrentLength},
		{"currentTechnologies", raw.CurrentTechnologies},
	}
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			return ValidatedInput{}, &MissingFieldError{Field: field.name}
		}
	}

	history, err := ParseWorkHistory(raw.WorkHistory)
	if err != nil {
		return ValidatedInput{}, err
	}

	return ValidatedInput{
		FullName:            strings.TrimSpace(raw.FullName),
		CurrentPosition:     strings.TrimSpace(raw.CurrentPosition),
		CurrentLength:       strings.TrimSpace(raw.CurrentLength),
		CurrentTechnologies: strings.TrimSpace(raw.CurrentTechnologies),
		WorkHistory:         history,
	}, nil
}

// ParseWorkHistory decodes the workHistory JSON string, preserving order and each submitted object.
func ParseWorkHistory(src string) ([]WorkHistoryEntry, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: workHistory is empty", ErrMalformedWorkHistory)
	}

	result, err := compiledWorkHistorySchema.Validate(gojsonschema.NewStringLoader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkHistory, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformedWorkHistory, strings.Join(msgs, "; "))
	}

	var items []json.RawMessage
	if err := json.Unmarshal([]byte(src), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedWorkHistory, err)
	}

	entries := make([]WorkHistoryEntry, 0, len(items))
	for i, item := range items {
		var fields struct {
			Name        string `json:"name"`
			CompanyName string `json:"companyName"`
			Company     string `json:"company"`
			Position    string `json:"position"`
		}
		if err := json.Unmarshal(item, &fields); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformedWorkHistory, i, err)
		}
		entries = append(entries, WorkHistoryEntry{
			CompanyName: firstNonBlank(fields.Name, fields.CompanyName, fields.Company),
			Position:    strings.TrimSpace(fields.Position),
			raw:         append(json.RawMessage(nil), item...),
		})
	}
	return entries, nil
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
