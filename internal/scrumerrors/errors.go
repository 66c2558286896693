package scrumerrors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	missingConfigurationTemplateConstant    = "missing config parameter %s"
	remediationSuffixTemplateConstant       = "! Please run '%s' first!"
	missingParameterQuoteTemplateConstant   = "'%s.%s'"
	missingParameterJoinSeparatorConstant   = " and/or "
	transportErrorTemplateConstant          = "%s failed"
	transportErrorWithCauseTemplateConstant = "%s failed: %s"
	organizationNotFoundMessageConstant     = "organization not found"
	missingCardNameMessageConstant          = "missing card name, please set a '--card-name' option value"
)

var (
	// ErrOrganizationNotFound indicates the configured organization does not exist on the remote platform.
	ErrOrganizationNotFound = errors.New(organizationNotFoundMessageConstant)
	// ErrMissingCardName indicates create-card was invoked without a card name.
	ErrMissingCardName = ConfigurationError{Message: missingCardNameMessageConstant}
)

// ConfigurationError reports missing or invalid configuration that the operator must fix.
type ConfigurationError struct {
	Section     string
	Keys        []string
	Remediation string
	Message     string
}

// Error describes the configuration problem and the remediation command.
func (configurationError ConfigurationError) Error() string {
	var builder strings.Builder
	if len(configurationError.Keys) > 0 {
		quotedKeys := make([]string, 0, len(configurationError.Keys))
		for _, key := range configurationError.Keys {
			quotedKeys = append(quotedKeys, fmt.Sprintf(missingParameterQuoteTemplateConstant, configurationError.Section, key))
		}
		builder.WriteString(fmt.Sprintf(missingConfigurationTemplateConstant, strings.Join(quotedKeys, missingParameterJoinSeparatorConstant)))
	} else {
		builder.WriteString(configurationError.Message)
	}
	if len(configurationError.Remediation) > 0 {
		builder.WriteString(fmt.Sprintf(remediationSuffixTemplateConstant, configurationError.Remediation))
	}
	return builder.String()
}

// Is matches configuration errors that render the same message, so sentinels such as
// ErrMissingCardName work with errors.Is.
func (configurationError ConfigurationError) Is(target error) bool {
	targetConfigurationError, isConfigurationError := target.(ConfigurationError)
	return isConfigurationError && targetConfigurationError.Error() == configurationError.Error()
}

// RequireValues returns a ConfigurationError naming every key whose value is blank.
func RequireValues(section string, remediation string, values map[string]string) error {
	missingKeys := make([]string, 0, len(values))
	for key, value := range values {
		if len(strings.TrimSpace(value)) == 0 {
			missingKeys = append(missingKeys, key)
		}
	}
	if len(missingKeys) == 0 {
		return nil
	}
	sort.Strings(missingKeys)
	return ConfigurationError{Section: section, Keys: missingKeys, Remediation: remediation}
}

// TransportError wraps unexpected failures talking to a remote platform.
type TransportError struct {
	Operation string
	Cause     error
}

// Error describes the failed remote operation.
func (transportError TransportError) Error() string {
	if transportError.Cause == nil {
		return fmt.Sprintf(transportErrorTemplateConstant, transportError.Operation)
	}
	return fmt.Sprintf(transportErrorWithCauseTemplateConstant, transportError.Operation, transportError.Cause)
}

// Unwrap exposes the underlying cause.
func (transportError TransportError) Unwrap() error {
	return transportError.Cause
}
