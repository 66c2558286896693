// Package pathutils resolves operator-supplied file paths such as the roster location.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	tildeSymbolConstant             = "~"
	tildeForwardSlashPrefixConstant = "~/"
)

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander converts user home shortcuts to absolute paths. The home directory is looked up
// on every call so changes to HOME are honored.
type HomeExpander struct {
	homeDirectoryProvider HomeDirectoryProvider
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{homeDirectoryProvider: provider}
}

// Expand resolves "~", "~/" and the platform separator variant to the user's home directory.
// Other paths, including "~user/...", are returned unchanged.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeSymbolConstant) {
		return candidatePath
	}

	relativePath, isHomeRelative := trimHomePrefix(candidatePath)
	if !isHomeRelative {
		return candidatePath
	}

	homeDirectory, homeDirectoryError := expander.homeDirectoryProvider()
	if homeDirectoryError != nil || len(homeDirectory) == 0 {
		return candidatePath
	}
	if len(relativePath) == 0 {
		return homeDirectory
	}
	return filepath.Join(homeDirectory, relativePath)
}

func trimHomePrefix(candidatePath string) (string, bool) {
	if candidatePath == tildeSymbolConstant {
		return "", true
	}
	for _, prefix := range []string{tildeForwardSlashPrefixConstant, tildeSymbolConstant + string(os.PathSeparator)} {
		if strings.HasPrefix(candidatePath, prefix) {
			return strings.TrimPrefix(candidatePath, prefix), true
		}
	}
	return "", false
}
