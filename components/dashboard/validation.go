package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ConfigValidator checks raw widget configuration blobs before they are
// persisted. Validation is advisory, for builders and tooling: the renderer
// path relies on NormalizeWidgetConfig alone, which is total and substitutes
// defaults instead of rejecting.
type ConfigValidator interface {
	Validate(widgetType WidgetType, config map[string]any) error
}

// JSONSchemaValidator validates configuration maps against per-widget-type
// schemas, compiling and caching each schema on first use.
type JSONSchemaValidator struct {
	mu       sync.RWMutex
	compiled map[WidgetType]*jsonschema.Schema
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{
		compiled: make(map[WidgetType]*jsonschema.Schema),
	}
}

// Validate ensures the provided configuration satisfies the widget type's
// schema. Unknown widget types fail validation outright.
func (v *JSONSchemaValidator) Validate(widgetType WidgetType, config map[string]any) error {
	schema, err := v.schemaFor(widgetType)
	if err != nil {
		return err
	}
	payload := map[string]any{}
	if config != nil {
		data, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("dashboard: marshal config for %s: %w", widgetType, err)
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return fmt.Errorf("dashboard: normalize config for %s: %w", widgetType, err)
		}
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: configuration for %s failed validation: %w", widgetType, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schemaFor(widgetType WidgetType) (*jsonschema.Schema, error) {
	v.mu.RLock()
	schema, ok := v.compiled[widgetType]
	v.mu.RUnlock()
	if ok {
		return schema, nil
	}
	raw := widgetConfigSchema(widgetType)
	if raw == nil {
		return nil, fmt.Errorf("dashboard: no schema for widget type %q", widgetType)
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("dashboard: marshal schema %s: %w", widgetType, err)
	}
	compiler := jsonschema.NewCompiler()
	name := string(widgetType) + ".json"
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("dashboard: load schema %s: %w", widgetType, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("dashboard: compile schema %s: %w", widgetType, err)
	}
	v.mu.Lock()
	v.compiled[widgetType] = compiled
	v.mu.Unlock()
	return compiled, nil
}

type noopConfigValidator struct{}

func (noopConfigValidator) Validate(WidgetType, map[string]any) error { return nil }
