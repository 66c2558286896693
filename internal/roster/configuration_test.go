package roster_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
)

func TestConfigurationBuildsLoader(testInstance *testing.T) {
	configuration := roster.DefaultConfiguration()
	configuration.QuoteCharacter = "\""
	configuration.SkipFirstRow = true

	loader, loaderError := configuration.NewLoader()
	require.NoError(testInstance, loaderError)
	require.Equal(testInstance, ';', loader.Format().Delimiter)
	require.Equal(testInstance, '"', loader.Format().QuoteCharacter)
	require.True(testInstance, loader.Format().SkipFirstRow)
	require.Equal(testInstance, []string{"ID", "Group", "Github", "Trello"}, loader.Schema().Columns())

	loadedRoster, loadError := loader.Read("inline", strings.NewReader("ID;Group;Github;Trello\nU1;1;\"a;b\";c\n"))
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "a;b", loadedRoster.Users()[0].HostAccount())
}

func TestConfigurationRejectsInvalidValues(testInstance *testing.T) {
	multiCharacterDelimiter := roster.DefaultConfiguration()
	multiCharacterDelimiter.Delimiter = ";;"
	_, delimiterError := multiCharacterDelimiter.NewLoader()
	require.ErrorContains(testInstance, delimiterError, "users_file_delimiter")

	unknownKey := roster.DefaultConfiguration()
	unknownKey.KeyTrello = "Board"
	_, keyError := unknownKey.NewLoader()
	require.ErrorContains(testInstance, keyError, "invalid core.users_schema")
}

func TestConfigurationSanitizeExpandsHome(testInstance *testing.T) {
	homeDirectory := testInstance.TempDir()
	testInstance.Setenv("HOME", homeDirectory)

	configuration := roster.DefaultConfiguration()
	configuration.UsersFile = "  ~/users.csv "
	sanitized := configuration.Sanitize()
	require.Equal(testInstance, filepath.Join(homeDirectory, "users.csv"), sanitized.UsersFile)
}

func TestDefaultConfigurationValuesArePrefixed(testInstance *testing.T) {
	values := roster.DefaultConfigurationValues("core")
	require.Equal(testInstance, ";", values["core.users_file_delimiter"])
	require.Equal(testInstance, "ID;Group;Github;Trello", values["core.users_schema"])
	require.Equal(testInstance, "utf-8", values["core.users_file_encoding"])
}

func TestConfigurationLoadRosterPrefersOverride(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configuredPath := filepath.Join(temporaryDirectory, "configured.csv")
	overridePath := filepath.Join(temporaryDirectory, "override.csv")
	require.NoError(testInstance, os.WriteFile(configuredPath, []byte("U1;1;alice;alice_t\n"), 0o600))
	require.NoError(testInstance, os.WriteFile(overridePath, []byte("U1;1;alice;alice_t\nU2;2;bob;bob_t\n"), 0o600))

	configuration := roster.DefaultConfiguration()
	configuration.UsersFile = configuredPath

	configuredRoster, configuredError := configuration.LoadRoster("")
	require.NoError(testInstance, configuredError)
	require.Equal(testInstance, 1, configuredRoster.Len())

	overriddenRoster, overrideError := configuration.LoadRoster(overridePath)
	require.NoError(testInstance, overrideError)
	require.Equal(testInstance, []string{"1", "2"}, overriddenRoster.Groups())

	_, missingError := roster.DefaultConfiguration().LoadRoster(" ")
	require.ErrorAs(testInstance, missingError, new(scrumerrors.ConfigurationError))
	require.ErrorContains(testInstance, missingError, "'core.users_file'")
}
