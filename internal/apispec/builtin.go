package apispec

import (
	"strings"

	"github.com/harunnryd/pace/internal/config"
)

// Builtins returns the tools compiled into the binary.
// TODO: load the API specs from a database.
func Builtins(gpsEndpoint string) []ToolSpec {
	if strings.TrimSpace(gpsEndpoint) == "" {
		gpsEndpoint = config.DefaultToolsGPSEndpoint
	}

	return []ToolSpec{
		{
			Name: "get_gps_position",
			Description: `Get the GPS position of a given country, in JSON format.

Args:
    country: The country code in question. It can be either ISO 3166-1 alpha-2 or alpha-3 code.`,
			Endpoint: gpsEndpoint,
			Parameters: []Parameter{
				{Name: "country", Description: "The country code in question. It can be either ISO 3166-1 alpha-2 or alpha-3 code."},
			},
		},
	}
}

// Load builds the registry from the built-in list followed by the optional spec file.
func Load(cfg config.ToolsConfig) (*Registry, error) {
	r := NewRegistry()
	for _, spec := range Builtins(cfg.GPSEndpoint) {
		if err := r.Add(spec); err != nil {
			return nil, err
		}
	}

	if cfg.SpecFile != "" {
		if err := r.LoadFile(cfg.SpecFile); err != nil {
			return nil, err
		}
	}

	return r, nil
}
