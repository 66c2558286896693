package prompt_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/prompt"
)

const promptSubtestNameTemplateConstant = "%d_%s"

func TestIOConfirmationPrompterConfirm(testInstance *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "yes", input: "yes\n", expected: true},
		{name: "short yes", input: "y\n", expected: true},
		{name: "uppercase yes", input: " YES \n", expected: true},
		{name: "no", input: "no\n", expected: false},
		{name: "empty", input: "\n", expected: false},
		{name: "closed input", input: "", expected: false},
		{name: "yes without newline", input: "yes", expected: true},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(promptSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			var output bytes.Buffer
			prompter := prompt.NewIOConfirmationPrompter(strings.NewReader(testCase.input), &output)

			confirmed, confirmError := prompter.Confirm("This cannot be undone! Proceed? (yes/no): ")
			require.NoError(testInstance, confirmError)
			require.Equal(testInstance, testCase.expected, confirmed)
			require.Equal(testInstance, "This cannot be undone! Proceed? (yes/no): ", output.String())
		})
	}
}

func TestCredentialsPrompterUsername(testInstance *testing.T) {
	var output bytes.Buffer
	prompter := prompt.NewCredentialsPrompter("GitHub", strings.NewReader("\n"), &output)

	username, usernameError := prompter.Username("operator")
	require.NoError(testInstance, usernameError)
	require.Equal(testInstance, "operator", username)
	require.Equal(testInstance, "GitHub username [operator]: ", output.String())

	explicitPrompter := prompt.NewCredentialsPrompter("GitHub", strings.NewReader("octocat\n"), &bytes.Buffer{})
	explicitUsername, explicitError := explicitPrompter.Username("operator")
	require.NoError(testInstance, explicitError)
	require.Equal(testInstance, "octocat", explicitUsername)
}

func TestCredentialsPrompterPasswordRepeatsUntilMatch(testInstance *testing.T) {
	var output bytes.Buffer
	prompter := prompt.NewCredentialsPrompter("GitHub", strings.NewReader("first\nsecond\nsecret\nsecret\n"), &output)

	password, passwordError := prompter.Password()
	require.NoError(testInstance, passwordError)
	require.Equal(testInstance, "secret", password)
	require.Equal(testInstance, 1, strings.Count(output.String(), "Passwords do not match. Try again"))
	require.Equal(testInstance, 2, strings.Count(output.String(), "GitHub password (again): "))
}

func TestCredentialsPrompterPasswordClosedInput(testInstance *testing.T) {
	prompter := prompt.NewCredentialsPrompter("GitHub", strings.NewReader(""), &bytes.Buffer{})
	_, passwordError := prompter.Password()
	require.ErrorIs(testInstance, passwordError, prompt.ErrInputClosed)
}

func TestCredentialsPrompterTwoFactorCode(testInstance *testing.T) {
	var output bytes.Buffer
	prompter := prompt.NewCredentialsPrompter("GitHub", strings.NewReader("\n\n123456\n"), &output)

	code, codeError := prompter.TwoFactorCode()
	require.NoError(testInstance, codeError)
	require.Equal(testInstance, "123456", code)
	require.Equal(testInstance, 3, strings.Count(output.String(), "Enter 2FA code: "))

	closedPrompter := prompt.NewCredentialsPrompter("GitHub", strings.NewReader("\n"), &bytes.Buffer{})
	_, closedError := closedPrompter.TwoFactorCode()
	require.ErrorIs(testInstance, closedError, prompt.ErrInputClosed)
}
