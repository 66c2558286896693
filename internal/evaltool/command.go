package evaltool

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/flags"
)

const (
	evaltoolCommandUseConstant              = "evaltool"
	evaltoolCommandShortDescriptionConstant = "A set of batch management tools for the evaluation tool"
	evaltoolCommandLongDescriptionConstant  = "evaltool prints SQL that seeds the evaluation tool database with the roster's groups and users."
	dumpGroupsCommandUseConstant            = "dump-sql-groups"
	dumpGroupsShortDescriptionConstant      = "Dump SQL code for groups"
	dumpUsersCommandUseConstant             = "dump-sql-users"
	dumpUsersShortDescriptionConstant       = "Dump SQL code for users"
	unexpectedArgumentsTemplateConstant     = "evaltool %s does not accept positional arguments"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current evaltool configuration.
type ConfigurationProvider func() Configuration

// RosterConfigurationProvider returns the core roster configuration.
type RosterConfigurationProvider func() roster.Configuration

// CommandBuilder assembles the evaltool command hierarchy.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       ConfigurationProvider
	RosterConfigurationProvider RosterConfigurationProvider
}

// Build constructs the evaltool namespace. The namespace itself prints usage.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	evaltoolCommand := &cobra.Command{
		Use:   evaltoolCommandUseConstant,
		Short: evaltoolCommandShortDescriptionConstant,
		Long:  evaltoolCommandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	rosterFlagValues := flags.BindRosterFlags(evaltoolCommand, flags.RosterFlagDefinitions{
		UsersFile: flags.RosterFlagDefinition{Enabled: true},
	})

	evaltoolCommand.AddCommand(
		builder.dumpCommand(dumpGroupsCommandUseConstant, dumpGroupsShortDescriptionConstant, rosterFlagValues, (*SQLDumper).DumpGroups),
		builder.dumpCommand(dumpUsersCommandUseConstant, dumpUsersShortDescriptionConstant, rosterFlagValues, (*SQLDumper).DumpUsers),
	)
	return evaltoolCommand, nil
}

func (builder *CommandBuilder) dumpCommand(use string, shortDescription string, rosterFlagValues *flags.RosterFlagValues, dump func(*SQLDumper, roster.Roster) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: shortDescription,
		Args: func(command *cobra.Command, arguments []string) error {
			if len(arguments) > 0 {
				return fmt.Errorf(unexpectedArgumentsTemplateConstant, use)
			}
			return nil
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			userRoster, rosterError := builder.resolveRosterConfiguration().LoadRoster(rosterFlagValues.UsersFile)
			if rosterError != nil {
				return rosterError
			}
			dumper := NewSQLDumper(builder.resolveConfiguration(), ui.NewStatusReporter(command.OutOrStdout()), builder.resolveLogger())
			return dump(dumper, userRoster)
		},
	}
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func (builder *CommandBuilder) resolveConfiguration() Configuration {
	if builder.ConfigurationProvider == nil {
		return DefaultConfiguration()
	}
	return builder.ConfigurationProvider()
}

func (builder *CommandBuilder) resolveRosterConfiguration() roster.Configuration {
	if builder.RosterConfigurationProvider == nil {
		return roster.DefaultConfiguration()
	}
	return builder.RosterConfigurationProvider()
}
