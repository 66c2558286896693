package naming_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/naming"
)

func TestPatternRender(testInstance *testing.T) {
	testCases := []struct {
		name          string
		pattern       naming.Pattern
		group         string
		expectedName  string
		expectedError bool
	}{
		{name: "zero padded", pattern: "example.g%02d", group: "1", expectedName: "example.g01"},
		{name: "wide group", pattern: "example.g%02d", group: "123", expectedName: "example.g123"},
		{name: "plain verb", pattern: "team-%d", group: " 7 ", expectedName: "team-7"},
		{name: "non integer group", pattern: "example.g%02d", group: "lab", expectedError: true},
		{name: "pattern without verb", pattern: "example", group: "1", expectedError: true},
		{name: "pattern with string verb", pattern: "example.g%s", group: "1", expectedError: true},
		{name: "pattern with two verbs", pattern: "%d-%d", group: "1", expectedError: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf("%d_%s", testCaseIndex, testCase.name), func(testInstance *testing.T) {
			renderedName, renderError := testCase.pattern.Render(testCase.group)
			if testCase.expectedError {
				var patternError naming.PatternError
				require.ErrorAs(testInstance, renderError, &patternError)
				return
			}
			require.NoError(testInstance, renderError)
			require.Equal(testInstance, testCase.expectedName, renderedName)
		})
	}
}

func TestPatternRenderAll(testInstance *testing.T) {
	names, renderError := naming.Pattern("scrum.g%02d").RenderAll([]string{"1", "2", "10"})
	require.NoError(testInstance, renderError)
	require.Equal(testInstance, []string{"scrum.g01", "scrum.g02", "scrum.g10"}, names)

	_, failingError := naming.Pattern("scrum.g%02d").RenderAll([]string{"1", "x"})
	require.ErrorContains(testInstance, failingError, "group is not an integer")
}
