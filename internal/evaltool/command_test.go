package evaltool_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/evaltool"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
)

func executeEvaltool(testInstance *testing.T, rosterConfiguration roster.Configuration, arguments ...string) (string, error) {
	testInstance.Helper()
	builder := evaltool.CommandBuilder{
		ConfigurationProvider:       func() evaltool.Configuration { return evaltool.Configuration{CourseID: 3, GroupPattern: "lab.g%02d"} },
		RosterConfigurationProvider: func() roster.Configuration { return rosterConfiguration },
	}
	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	var output bytes.Buffer
	command.SetOut(&output)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	executionError := command.Execute()
	return output.String(), executionError
}

func TestCommandDumpUsersReadsUsersFileFlag(testInstance *testing.T) {
	rosterPath := filepath.Join(testInstance.TempDir(), "users.csv")
	require.NoError(testInstance, os.WriteFile(rosterPath, []byte("U1;1;alice;alice_t\n"), 0o600))

	output, executionError := executeEvaltool(testInstance, roster.DefaultConfiguration(), "dump-sql-users", "--users-file", rosterPath)
	require.NoError(testInstance, executionError)
	require.Equal(testInstance, "-- Users\nINSERT INTO USERS(username, password, enabled) VALUES ('alice', md5('U1{alice}'), true);\n", output)
}

func TestCommandDumpGroupsUsesConfiguredRoster(testInstance *testing.T) {
	rosterPath := filepath.Join(testInstance.TempDir(), "users.csv")
	require.NoError(testInstance, os.WriteFile(rosterPath, []byte("ID;Group;Github;Trello\nU1;4;alice;alice_t\n"), 0o600))

	rosterConfiguration := roster.DefaultConfiguration()
	rosterConfiguration.UsersFile = rosterPath
	rosterConfiguration.SkipFirstRow = true

	output, executionError := executeEvaltool(testInstance, rosterConfiguration, "dump-sql-groups")
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "INSERT INTO GROUPS(id, group_name, course_id) VALUES (3004, 'lab.g04', 3);\n")
	require.Contains(testInstance, output, "-- Group 04\nINSERT INTO GROUP_MEMBERS(group_id, username) values (3004, 'alice');\n")
}

func TestCommandDumpRequiresUsersFile(testInstance *testing.T) {
	_, executionError := executeEvaltool(testInstance, roster.DefaultConfiguration(), "dump-sql-groups")
	require.ErrorAs(testInstance, executionError, new(scrumerrors.ConfigurationError))
	require.ErrorContains(testInstance, executionError, "'core.users_file'")
}

func TestCommandNamespacePrintsUsage(testInstance *testing.T) {
	output, executionError := executeEvaltool(testInstance, roster.DefaultConfiguration())
	require.NoError(testInstance, executionError)
	require.Contains(testInstance, output, "dump-sql-groups")
	require.Contains(testInstance, output, "dump-sql-users")
}
