package flags

import "github.com/spf13/cobra"

const (
	// UsersFileFlagName exposes the shared roster path flag name.
	UsersFileFlagName = "users-file"
	// UsersFileFlagShorthand provides the shorthand for the roster path flag.
	UsersFileFlagShorthand = "U"
	// UsersFileFlagUsage describes the shared roster path flag purpose.
	UsersFileFlagUsage = "a CSV file listing all users (\"-\" reads standard input)"
	// OrganizationFlagName exposes the shared organization flag name.
	OrganizationFlagName = "organization"
	// OrganizationFlagShorthand provides the shorthand for the organization flag.
	OrganizationFlagShorthand = "O"
	// AssumeYesFlagName exposes the shared assume-yes flag name.
	AssumeYesFlagName = "yes"
	// AssumeYesFlagShorthand provides the shorthand for the assume-yes flag.
	AssumeYesFlagShorthand = "y"
	// AssumeYesFlagUsage describes the shared assume-yes flag purpose.
	AssumeYesFlagUsage = "Skip the interactive confirmation"
)

// RosterFlagDefinition captures configuration for a single roster context flag.
type RosterFlagDefinition struct {
	Usage   string
	Enabled bool
}

// RosterFlagDefinitions groups the roster context flags a namespace exposes.
type RosterFlagDefinitions struct {
	UsersFile    RosterFlagDefinition
	Organization RosterFlagDefinition
}

// RosterFlagValues stores roster context flag values. Empty values defer to configuration.
type RosterFlagValues struct {
	UsersFile    string
	Organization string
}

// BindRosterFlags attaches -U/--users-file and -O/--organization as persistent flags so every
// subcommand of a namespace accepts them.
func BindRosterFlags(command *cobra.Command, definitions RosterFlagDefinitions) *RosterFlagValues {
	values := &RosterFlagValues{}
	if command == nil {
		return values
	}

	persistentFlagSet := command.PersistentFlags()
	if definitions.UsersFile.Enabled && persistentFlagSet.Lookup(UsersFileFlagName) == nil {
		usage := definitions.UsersFile.Usage
		if len(usage) == 0 {
			usage = UsersFileFlagUsage
		}
		persistentFlagSet.StringVarP(&values.UsersFile, UsersFileFlagName, UsersFileFlagShorthand, "", usage)
	}
	if definitions.Organization.Enabled && persistentFlagSet.Lookup(OrganizationFlagName) == nil {
		persistentFlagSet.StringVarP(&values.Organization, OrganizationFlagName, OrganizationFlagShorthand, "", definitions.Organization.Usage)
	}
	return values
}

// BindAssumeYesFlag attaches the -y/--yes toggle that skips confirmation on destructive commands.
func BindAssumeYesFlag(command *cobra.Command) *bool {
	assumeYes := false
	if command == nil {
		return &assumeYes
	}
	AddToggleFlag(command.Flags(), &assumeYes, AssumeYesFlagName, AssumeYesFlagShorthand, false, AssumeYesFlagUsage)
	return &assumeYes
}
