package config

import "path/filepath"

// ResolveOutputPath places relative names under dir and leaves absolute paths untouched.
func ResolveOutputPath(dir, name string) string {
	if filepath.IsAbs(name) || dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}
