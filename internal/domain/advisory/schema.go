package advisory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// maxHarvestDays caps timeToHarvest so rounding it to an int cannot overflow.
const maxHarvestDays = 3650

// replySchema is the shape the model must return.
var replySchema = map[string]any{
	"type":     "object",
	"required": []string{"recommendedCrops", "fertilizerPlan", "pestSchedule", "cropCalendar"},
	"properties": map[string]any{
		"recommendedCrops": map[string]any{
			"type":     "array",
			"minItems": 1,
			"items": map[string]any{
				"type":     "object",
				"required": []string{"name", "suitabilityScore"},
				"properties": map[string]any{
					"name":             map[string]any{"type": "string", "minLength": 1},
					"suitabilityScore": map[string]any{"type": "number", "minimum": 0, "maximum": 1},
					"expectedYield":    map[string]any{"type": "number", "minimum": 0},
					"inputCost":        map[string]any{"type": "number", "minimum": 0},
					"timeToHarvest":    map[string]any{"type": "number", "minimum": 0, "maximum": maxHarvestDays},
					"prosCons":         map[string]any{"type": "string"},
				},
			},
		},
		"fertilizerPlan": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"stage", "inputs"},
				"properties": map[string]any{
					"stage":     map[string]any{"type": "string"},
					"inputs":    map[string]any{"type": "string"},
					"frequency": map[string]any{"type": "string"},
					"quantity":  map[string]any{"type": "number"},
				},
			},
		},
		"pestSchedule": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"crop"},
				"properties": map[string]any{
					"crop":              map[string]any{"type": "string"},
					"riskLevel":         map[string]any{"type": "string"},
					"symptoms":          map[string]any{"type": "string"},
					"recommendedAction": map[string]any{"type": "string"},
				},
			},
		},
		"cropCalendar": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []string{"period", "operation"},
				"properties": map[string]any{
					"period":    map[string]any{"type": "string"},
					"operation": map[string]any{"type": "string"},
					"details":   map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func loadReplySchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		b, err := json.Marshal(replySchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("reply.json", bytes.NewReader(b)); err != nil {
			compileErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile("reply.json")
	})
	return compiledSchema, compileErr
}

// ValidateReply checks an extracted model reply against the advisory reply schema.
func ValidateReply(data []byte) error {
	schema, err := loadReplySchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal reply: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("reply does not match schema: %w", err)
	}
	return nil
}
