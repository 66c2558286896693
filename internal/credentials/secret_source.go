package credentials

import (
	"errors"
	"fmt"
	"os"
	"strings"

	pathutils "github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/path"
)

var secretFileHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	secretSourceSeparatorConstant              = ":"
	environmentSecretSourcePrefixConstant      = "env"
	fileSecretSourcePrefixConstant             = "file"
	environmentNameMissingErrorMessageConstant = "environment variable name must be provided"
	filePathMissingErrorMessageConstant        = "secret file path must be provided"
	environmentSecretMissingTemplateConstant   = "environment variable %s is not set"
	fileReadErrorTemplateConstant              = "unable to read secret file %s: %w"
	fileSecretEmptyErrorTemplateConstant       = "secret file %s is empty"
)

// SecretSourceType enumerates where a configured credential value comes from.
type SecretSourceType string

// Secret source type enumerations.
const (
	SecretSourceTypeLiteral     SecretSourceType = SecretSourceType("literal")
	SecretSourceTypeEnvironment SecretSourceType = SecretSourceType(environmentSecretSourcePrefixConstant)
	SecretSourceTypeFile        SecretSourceType = SecretSourceType(fileSecretSourcePrefixConstant)
)

// SecretSource describes a parsed credential reference.
type SecretSource struct {
	Type      SecretSourceType
	Reference string
}

// ParseSecretSource interprets "env:NAME" and "file:PATH" references. Any other value,
// including tokens that happen to contain a colon, is taken literally.
func ParseSecretSource(value string) (SecretSource, error) {
	trimmedValue := strings.TrimSpace(value)
	components := strings.SplitN(trimmedValue, secretSourceSeparatorConstant, 2)
	if len(components) != 2 {
		return SecretSource{Type: SecretSourceTypeLiteral, Reference: trimmedValue}, nil
	}

	reference := strings.TrimSpace(components[1])
	switch strings.ToLower(strings.TrimSpace(components[0])) {
	case environmentSecretSourcePrefixConstant:
		if len(reference) == 0 {
			return SecretSource{}, errors.New(environmentNameMissingErrorMessageConstant)
		}
		return SecretSource{Type: SecretSourceTypeEnvironment, Reference: reference}, nil
	case fileSecretSourcePrefixConstant:
		if len(reference) == 0 {
			return SecretSource{}, errors.New(filePathMissingErrorMessageConstant)
		}
		return SecretSource{Type: SecretSourceTypeFile, Reference: reference}, nil
	default:
		return SecretSource{Type: SecretSourceTypeLiteral, Reference: trimmedValue}, nil
	}
}

// EnvironmentLookup obtains an environment variable value.
type EnvironmentLookup func(key string) (string, bool)

// FileReader reads the contents of a file path.
type FileReader func(path string) ([]byte, error)

// Resolver turns configured credential values into secrets.
type Resolver struct {
	environmentLookup EnvironmentLookup
	fileReader        FileReader
}

// NewResolver creates a resolver with optional dependency overrides.
func NewResolver(environmentLookup EnvironmentLookup, fileReader FileReader) *Resolver {
	if environmentLookup == nil {
		environmentLookup = os.LookupEnv
	}
	if fileReader == nil {
		fileReader = os.ReadFile
	}
	return &Resolver{environmentLookup: environmentLookup, fileReader: fileReader}
}

// Resolve returns the secret a configured value points at. Blank values resolve to blank
// so that missing-parameter checks downstream still report the configuration key.
func (resolver *Resolver) Resolve(value string) (string, error) {
	if len(strings.TrimSpace(value)) == 0 {
		return "", nil
	}

	source, parseError := ParseSecretSource(value)
	if parseError != nil {
		return "", parseError
	}

	switch source.Type {
	case SecretSourceTypeEnvironment:
		environmentValue, found := resolver.environmentLookup(source.Reference)
		trimmedValue := strings.TrimSpace(environmentValue)
		if !found || len(trimmedValue) == 0 {
			return "", fmt.Errorf(environmentSecretMissingTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	case SecretSourceTypeFile:
		contents, readError := resolver.fileReader(secretFileHomeDirectoryExpander.Expand(source.Reference))
		if readError != nil {
			return "", fmt.Errorf(fileReadErrorTemplateConstant, source.Reference, readError)
		}
		trimmedValue := strings.TrimSpace(string(contents))
		if len(trimmedValue) == 0 {
			return "", fmt.Errorf(fileSecretEmptyErrorTemplateConstant, source.Reference)
		}
		return trimmedValue, nil
	default:
		return source.Reference, nil
	}
}
