package conversation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	"github.com/harunnryd/pace/internal/pathutil"
)

// WriteTranscript stores the report as indented JSON, replacing path atomically.
func WriteTranscript(path string, report *Report) error {
	resolved, err := pathutil.Expand(path)
	if err != nil {
		return fmt.Errorf("resolve transcript path: %w", err)
	}
	if resolved == "" {
		return fmt.Errorf("transcript path is empty")
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	if dir := filepath.Dir(resolved); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create transcript dir: %w", err)
		}
	}
	return atomic.WriteFile(resolved, bytes.NewReader(data))
}
