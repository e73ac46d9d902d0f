package formatter

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harunnryd/pace/internal/apispec"
)

type JSONFormatter struct{}

func (JSONFormatter) FormatSpecs(specs []apispec.ToolSpec) (string, error) {
	if specs == nil {
		specs = []apispec.ToolSpec{}
	}
	data, err := json.MarshalIndent(specs, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (JSONFormatter) FormatSpec(spec *apispec.ToolSpec) (string, error) {
	if spec == nil {
		return "null", nil
	}
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// YAMLFormatter emits the same layout the spec file loader accepts.
type YAMLFormatter struct{}

func (YAMLFormatter) FormatSpecs(specs []apispec.ToolSpec) (string, error) {
	data, err := yaml.Marshal(map[string][]apispec.ToolSpec{"tools": specs})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (YAMLFormatter) FormatSpec(spec *apispec.ToolSpec) (string, error) {
	if spec == nil {
		return "null", nil
	}
	data, err := yaml.Marshal(spec)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}
