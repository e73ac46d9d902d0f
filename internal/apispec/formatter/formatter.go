// Package formatter renders tool specs for the command line.
package formatter

import (
	"fmt"
	"strings"

	"github.com/harunnryd/pace/internal/apispec"
)

type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

type SpecFormatter interface {
	FormatSpecs([]apispec.ToolSpec) (string, error)
	FormatSpec(*apispec.ToolSpec) (string, error)
}

func New(format OutputFormat) (SpecFormatter, error) {
	switch format {
	case OutputFormatTable:
		return NewTableFormatter(), nil
	case OutputFormatJSON:
		return JSONFormatter{}, nil
	case OutputFormatYAML:
		return YAMLFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func ParseOutputFormat(s string) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("invalid output format: %s (supported: table, json, yaml)", s)
	}
}
