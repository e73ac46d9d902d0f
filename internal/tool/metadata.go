package tool

import (
	"strings"

	"github.com/harunnryd/pace/internal/model/contract"
)

type ToolMetadata struct {
	Source   string
	Endpoint string
	Direct   bool
}

type MetadataProvider interface {
	ToolMetadata() ToolMetadata
}

type ToolDescriptor struct {
	Definition contract.ToolDef
	Metadata   ToolMetadata
}

func normalizeToolMetadata(meta ToolMetadata) ToolMetadata {
	source := strings.TrimSpace(strings.ToLower(meta.Source))
	if source == "" {
		source = "runtime"
	}

	return ToolMetadata{
		Source:   source,
		Endpoint: strings.TrimSpace(meta.Endpoint),
		Direct:   meta.Direct,
	}
}
