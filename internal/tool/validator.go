package tool

import (
	"encoding/json"
	"fmt"
)

// ValidateInput checks the JSON input against the subset of JSON Schema used
// by tool definitions: required keys and the primitive types of known
// properties. Unknown keys pass through.
func ValidateInput(schema map[string]interface{}, input json.RawMessage) error {
	var args map[string]interface{}
	if err := json.Unmarshal(input, &args); err != nil {
		return fmt.Errorf("arguments must be a JSON object: %w", err)
	}
	if args == nil {
		return fmt.Errorf("arguments must be a JSON object, got null")
	}
	return checkObject("", schema, args)
}

func checkObject(path string, schema map[string]interface{}, obj map[string]interface{}) error {
	for _, key := range requiredKeys(schema["required"]) {
		if _, ok := obj[key]; !ok {
			return fmt.Errorf("missing required field: %s", join(path, key))
		}
	}

	props, _ := schema["properties"].(map[string]interface{})
	for key, value := range obj {
		prop, ok := props[key].(map[string]interface{})
		if !ok {
			continue
		}
		if err := checkValue(join(path, key), prop, value); err != nil {
			return err
		}
	}
	return nil
}

func checkValue(path string, schema map[string]interface{}, value interface{}) error {
	want, _ := schema["type"].(string)

	var ok bool
	switch want {
	case "":
		return nil
	case "string":
		_, ok = value.(string)
	case "number", "integer":
		_, ok = value.(float64)
	case "boolean":
		_, ok = value.(bool)
	case "array":
		var items []interface{}
		if items, ok = value.([]interface{}); ok {
			itemSchema, _ := schema["items"].(map[string]interface{})
			for i, item := range items {
				if itemSchema == nil {
					break
				}
				if err := checkValue(fmt.Sprintf("%s[%d]", path, i), itemSchema, item); err != nil {
					return err
				}
			}
		}
	case "object":
		var obj map[string]interface{}
		if obj, ok = value.(map[string]interface{}); ok {
			return checkObject(path, schema, obj)
		}
	default:
		return nil
	}

	if !ok {
		return fmt.Errorf("field '%s' expected %s, got %T", path, want, value)
	}
	return nil
}

func requiredKeys(v interface{}) []string {
	switch keys := v.(type) {
	case []string:
		return keys
	case []interface{}:
		out := make([]string, 0, len(keys))
		for _, k := range keys {
			if s, ok := k.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
