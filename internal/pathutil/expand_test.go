package pathutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PACE_PATH_TEST", "/tmp/pace-path")

	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: ""},
		{in: "   ", want: ""},
		{in: "~", want: home},
		{in: "~/.pace/tools.yaml", want: filepath.Join(home, ".pace", "tools.yaml")},
		{in: "$PACE_PATH_TEST/transcripts/../run.json", want: "/tmp/pace-path/run.json"},
		{in: "~other/tools.yaml", want: "~other/tools.yaml"},
		{in: "relative/./tools.yaml", want: "relative/tools.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_HomeEnvTilde(t *testing.T) {
	t.Setenv("HOME", "~")

	got, err := Expand("~/.pace/tools.yaml")
	if err != nil {
		t.Skipf("no account home directory available: %v", err)
	}
	require.NotEmpty(t, got)
	assert.NotEqual(t, byte('~'), got[0])
}
