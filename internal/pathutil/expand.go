// Package pathutil resolves user-supplied file paths such as tools.spec_file
// and --transcript.
package pathutil

import (
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// Expand substitutes environment variables and a leading "~" then cleans the
// result. An empty path stays empty.
func Expand(path string) (string, error) {
	p := os.ExpandEnv(strings.TrimSpace(path))
	if p == "" {
		return "", nil
	}

	rest, hasTilde := strings.CutPrefix(p, "~")
	if hasTilde && (rest == "" || rest[0] == '/' || rest[0] == filepath.Separator) {
		home, err := homeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		p = home + rest
	}

	return filepath.Clean(p), nil
}

// homeDir tries $HOME first and falls back to the account database when
// $HOME is unset or itself unexpanded.
func homeDir() (string, error) {
	candidates := []func() string{
		func() string { d, _ := os.UserHomeDir(); return d },
		func() string {
			if u, err := user.Current(); err == nil {
				return u.HomeDir
			}
			return ""
		},
	}
	for _, candidate := range candidates {
		if d := strings.TrimSpace(candidate()); usable(d) {
			return d, nil
		}
	}
	return "", fmt.Errorf("no usable home directory (HOME=%q)", os.Getenv("HOME"))
}

func usable(dir string) bool {
	return dir != "" && !strings.HasPrefix(dir, "~")
}
