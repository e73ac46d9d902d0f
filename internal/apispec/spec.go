// Package apispec declares the HTTP tools exposed to the model as plain data.
package apispec

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	paceErrors "github.com/harunnryd/pace/internal/errors"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Parameter is one string argument of a tool.
type Parameter struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
}

// ToolSpec describes a remotely backed capability. The endpoint receives a
// POST whose JSON body is the object of argument values.
type ToolSpec struct {
	// Name is the function name the model sees.
	Name string `yaml:"name" json:"name"`
	// Description is the natural-language contract the model reads to decide
	// when and how to call the tool.
	Description string      `yaml:"description" json:"description"`
	Endpoint    string      `yaml:"endpoint" json:"endpoint"`
	Parameters  []Parameter `yaml:"parameters" json:"parameters"`
	// Direct routes the raw tool result to the user instead of back to the model.
	Direct bool `yaml:"direct" json:"direct"`
}

// Validate checks the identifier rules and the endpoint URL.
func (s ToolSpec) Validate() error {
	if !identifierPattern.MatchString(s.Name) {
		return paceErrors.InvalidInput(fmt.Sprintf("tool name %q is not a valid identifier", s.Name))
	}
	if strings.TrimSpace(s.Description) == "" {
		return paceErrors.InvalidInput(fmt.Sprintf("tool %s: description is required", s.Name))
	}

	u, err := url.Parse(strings.TrimSpace(s.Endpoint))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return paceErrors.InvalidInput(fmt.Sprintf("tool %s: endpoint %q must be an absolute http(s) URL", s.Name, s.Endpoint))
	}

	seen := make(map[string]struct{}, len(s.Parameters))
	for _, p := range s.Parameters {
		if !identifierPattern.MatchString(p.Name) {
			return paceErrors.InvalidInput(fmt.Sprintf("tool %s: parameter name %q is not a valid identifier", s.Name, p.Name))
		}
		if _, dup := seen[p.Name]; dup {
			return paceErrors.InvalidInput(fmt.Sprintf("tool %s: duplicate parameter %q", s.Name, p.Name))
		}
		seen[p.Name] = struct{}{}
	}

	return nil
}

// ParameterNames returns the declared parameter names in declaration order.
func (s ToolSpec) ParameterNames() []string {
	names := make([]string, 0, len(s.Parameters))
	for _, p := range s.Parameters {
		names = append(names, p.Name)
	}
	return names
}
