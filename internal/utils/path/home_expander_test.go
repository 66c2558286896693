package pathutils_test

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/path"
)

const (
	homeExpanderSubtestNameTemplateConstant = "%d_%s"
	testHomeDirectoryConstant               = "/home/scrum"
)

func TestHomeExpanderExpand(testInstance *testing.T) {
	testCases := []struct {
		name         string
		provider     pathutils.HomeDirectoryProvider
		candidate    string
		expectedPath string
	}{
		{
			name:         "bare tilde",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			candidate:    "~",
			expectedPath: testHomeDirectoryConstant,
		},
		{
			name:         "tilde prefix",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			candidate:    "~/course/users.csv",
			expectedPath: filepath.Join(testHomeDirectoryConstant, "course", "users.csv"),
		},
		{
			name:         "other user untouched",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			candidate:    "~alice/users.csv",
			expectedPath: "~alice/users.csv",
		},
		{
			name:         "absolute path untouched",
			provider:     func() (string, error) { return testHomeDirectoryConstant, nil },
			candidate:    "/srv/users.csv",
			expectedPath: "/srv/users.csv",
		},
		{
			name:         "provider failure keeps path",
			provider:     func() (string, error) { return "", errors.New("no home") },
			candidate:    "~/users.csv",
			expectedPath: "~/users.csv",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(homeExpanderSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			expander := pathutils.NewHomeExpanderWithProvider(testCase.provider)
			require.Equal(testInstance, testCase.expectedPath, expander.Expand(testCase.candidate))
		})
	}
}
