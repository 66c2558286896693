package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestBindRosterFlagsParsesPersistentValues(testInstance *testing.T) {
	namespaceCommand := &cobra.Command{Use: "github"}
	values := BindRosterFlags(namespaceCommand, RosterFlagDefinitions{
		UsersFile:    RosterFlagDefinition{Enabled: true},
		Organization: RosterFlagDefinition{Enabled: true, Usage: "the organization managing the GitHub repositories"},
	})
	require.NotNil(testInstance, values)
	require.Empty(testInstance, values.UsersFile)

	subcommand := &cobra.Command{Use: "create-repos", RunE: func(*cobra.Command, []string) error { return nil }}
	namespaceCommand.AddCommand(subcommand)
	namespaceCommand.SetArgs([]string{"create-repos", "-U", "users.csv", "--organization", "acme"})
	require.NoError(testInstance, namespaceCommand.Execute())

	require.Equal(testInstance, "users.csv", values.UsersFile)
	require.Equal(testInstance, "acme", values.Organization)
}

func TestBindRosterFlagsSkipsDisabledDefinitions(testInstance *testing.T) {
	command := &cobra.Command{}
	BindRosterFlags(command, RosterFlagDefinitions{UsersFile: RosterFlagDefinition{Enabled: true}})

	require.NotNil(testInstance, command.PersistentFlags().Lookup(UsersFileFlagName))
	require.Nil(testInstance, command.PersistentFlags().Lookup(OrganizationFlagName))
}

func TestBindAssumeYesFlag(testInstance *testing.T) {
	command := &cobra.Command{}
	assumeYes := BindAssumeYesFlag(command)
	require.False(testInstance, *assumeYes)

	require.NoError(testInstance, command.ParseFlags(NormalizeToggleArguments([]string{"-y"})))
	require.True(testInstance, *assumeYes)
}
