package flags

import (
	"fmt"
	"strings"
)

const (
	choicePlaceholderPrefixConstant   = "<"
	choicePlaceholderSuffixConstant   = ">"
	choiceSeparatorConstant           = "|"
	choiceListSeparatorConstant       = ", "
	choiceUsageEmptyTemplateConstant  = "`%s`"
	choiceUsageFullTemplateConstant   = "`%s` %s"
	unsupportedChoiceTemplateConstant = "unsupported %s %q (expected one of %s)"
)

// FormatChoiceUsage builds a usage string where the default option is capitalized inside a placeholder.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	placeholder := choicePlaceholderPrefixConstant + strings.Join(highlightDefaultChoice(defaultChoice, choices), choiceSeparatorConstant) + choicePlaceholderSuffixConstant
	if len(strings.TrimSpace(description)) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplateConstant, placeholder, description)
}

// NormalizeChoice returns the matching choice for value, ignoring case and surrounding whitespace.
func NormalizeChoice(subject string, value string, choices []string) (string, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(value))
	for _, choice := range choices {
		if strings.ToLower(strings.TrimSpace(choice)) == normalizedValue {
			return choice, nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceTemplateConstant, subject, value, strings.Join(choices, choiceListSeparatorConstant))
}

func highlightDefaultChoice(defaultChoice string, choices []string) []string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	highlighted := make([]string, 0, len(choices))
	seen := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		normalizedChoice := strings.ToLower(trimmedChoice)
		if len(trimmedChoice) == 0 {
			continue
		}
		if _, exists := seen[normalizedChoice]; exists {
			continue
		}
		seen[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		highlighted = append(highlighted, trimmedChoice)
	}
	return highlighted
}
