package ui_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
)

func TestStatusReporterFormatsOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name           string
		outcome        reconcile.Outcome
		expectedOutput string
	}{
		{
			name:           "succeeded",
			outcome:        reconcile.Succeeded(),
			expectedOutput: "Creating team 'g01'... OK\n",
		},
		{
			name:           "already in desired state",
			outcome:        reconcile.AlreadyInDesiredState("already exists"),
			expectedOutput: "Creating team 'g01'... OK (already exists)\n",
		},
		{
			name:           "failed",
			outcome:        reconcile.Failed(errors.New("GitHub CreateTeam failed: 500")),
			expectedOutput: "Creating team 'g01'... Not OK (GitHub CreateTeam failed: 500)\n",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			var buffer bytes.Buffer
			reporter := ui.NewStatusReporter(&buffer)

			reporter.Action("Creating team '%s'...", "g01")
			reporter.Outcome(testCase.outcome)
			require.Equal(testInstance, testCase.expectedOutput, buffer.String())
		})
	}
}

func TestStatusReporterLines(testInstance *testing.T) {
	var buffer bytes.Buffer
	reporter := ui.NewStatusReporter(&buffer)

	reporter.Notice("Skipping team '%s' (already exists).", "g01")
	reporter.Info("Updating team members for team '%s'.", "g01")
	reporter.Warning("Aborting delete command.")

	require.Equal(testInstance, "Skipping team 'g01' (already exists).\nUpdating team members for team 'g01'.\nAborting delete command.\n", buffer.String())
}
