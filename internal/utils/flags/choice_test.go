package flags

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default first choice",
			defaultChoice:  "csv",
			choices:        []string{"csv", "yaml"},
			description:    "Output format.",
			expectedOutput: "`<CSV|yaml>` Output format.",
		},
		{
			name:           "default second choice",
			defaultChoice:  "yaml",
			choices:        []string{"csv", "yaml"},
			description:    "Output format.",
			expectedOutput: "`<csv|YAML>` Output format.",
		},
		{
			name:           "empty description",
			defaultChoice:  "csv",
			choices:        []string{"csv", "yaml"},
			expectedOutput: "`<CSV|yaml>`",
		},
		{
			name:           "duplicates and whitespace",
			defaultChoice:  "yaml",
			choices:        []string{" yaml ", "yaml", "csv", ""},
			description:    "Pick one.",
			expectedOutput: "`<YAML|csv>` Pick one.",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(toggleSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, FormatChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestNormalizeChoice(testInstance *testing.T) {
	choice, choiceError := NormalizeChoice("format", " YAML ", []string{"csv", "yaml"})
	require.NoError(testInstance, choiceError)
	require.Equal(testInstance, "yaml", choice)

	_, unsupportedError := NormalizeChoice("format", "xml", []string{"csv", "yaml"})
	require.EqualError(testInstance, unsupportedError, "unsupported format \"xml\" (expected one of csv, yaml)")
}
