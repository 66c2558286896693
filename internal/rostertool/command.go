package rostertool

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/flags"
)

const (
	rosterCommandUseConstant              = "roster"
	rosterCommandShortDescriptionConstant = "Inspect and normalize the roster file"
	rosterCommandLongDescriptionConstant  = "roster reads the configured roster file and prints its groups or a normalized copy."
	groupsCommandUseConstant              = "groups"
	groupsShortDescriptionConstant        = "Print the groups derived from the roster"
	exportCommandUseConstant              = "export"
	exportShortDescriptionConstant        = "Write the roster as CSV or YAML"
	formatFlagNameConstant                = "format"
	formatFlagDescriptionConstant         = "output format"
	formatFlagSubjectConstant             = "export format"
	outputFlagNameConstant                = "output"
	outputFlagShorthandConstant           = "o"
	outputFlagUsageConstant               = "write to FILE instead of standard output"
	outputFilePermissionsConstant         = 0o644
	outputCreateErrorTemplateConstant     = "unable to create %s: %w"
	outputCloseErrorTemplateConstant      = "unable to close %s: %w"
	groupLineTemplateConstant             = "%s\n"
	unexpectedArgumentsTemplateConstant   = "roster %s does not accept positional arguments"
	exportLogMessageConstant              = "exporting roster"
	logFieldFormatConstant                = "format"
	logFieldOutputConstant                = "output"
	logFieldUsersConstant                 = "users"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// RosterConfigurationProvider returns the core roster configuration.
type RosterConfigurationProvider func() roster.Configuration

// CommandBuilder assembles the roster command hierarchy.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	RosterConfigurationProvider RosterConfigurationProvider
}

// Build constructs the roster namespace. The namespace itself prints usage.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	rosterCommand := &cobra.Command{
		Use:   rosterCommandUseConstant,
		Short: rosterCommandShortDescriptionConstant,
		Long:  rosterCommandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	rosterFlagValues := flags.BindRosterFlags(rosterCommand, flags.RosterFlagDefinitions{
		UsersFile: flags.RosterFlagDefinition{Enabled: true},
	})

	groupsCommand := &cobra.Command{
		Use:   groupsCommandUseConstant,
		Short: groupsShortDescriptionConstant,
		Args:  noPositionalArguments(groupsCommandUseConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			userRoster, rosterError := builder.resolveRosterConfiguration().LoadRoster(rosterFlagValues.UsersFile)
			if rosterError != nil {
				return rosterError
			}
			for _, group := range userRoster.Groups() {
				fmt.Fprintf(command.OutOrStdout(), groupLineTemplateConstant, group)
			}
			return nil
		},
	}

	var exportFormat string
	var outputPath string
	exportCommand := &cobra.Command{
		Use:   exportCommandUseConstant,
		Short: exportShortDescriptionConstant,
		Args:  noPositionalArguments(exportCommandUseConstant),
		RunE: func(command *cobra.Command, arguments []string) error {
			return builder.runExport(command, rosterFlagValues, exportFormat, outputPath)
		},
	}
	exportCommand.Flags().StringVar(&exportFormat, formatFlagNameConstant, ExportFormatCSV, flags.FormatChoiceUsage(ExportFormatCSV, ExportFormats, formatFlagDescriptionConstant))
	exportCommand.Flags().StringVarP(&outputPath, outputFlagNameConstant, outputFlagShorthandConstant, "", outputFlagUsageConstant)

	rosterCommand.AddCommand(groupsCommand, exportCommand)
	return rosterCommand, nil
}

func (builder *CommandBuilder) runExport(command *cobra.Command, rosterFlagValues *flags.RosterFlagValues, exportFormat string, outputPath string) error {
	normalizedFormat, formatError := flags.NormalizeChoice(formatFlagSubjectConstant, exportFormat, ExportFormats)
	if formatError != nil {
		return formatError
	}

	configuration := builder.resolveRosterConfiguration().Sanitize()
	schema, schemaError := configuration.BuildSchema()
	if schemaError != nil {
		return schemaError
	}
	format, buildFormatError := configuration.BuildFormat()
	if buildFormatError != nil {
		return buildFormatError
	}
	userRoster, rosterError := configuration.LoadRoster(rosterFlagValues.UsersFile)
	if rosterError != nil {
		return rosterError
	}

	trimmedOutputPath := strings.TrimSpace(outputPath)
	builder.resolveLogger().Debug(exportLogMessageConstant,
		zap.String(logFieldFormatConstant, normalizedFormat),
		zap.String(logFieldOutputConstant, trimmedOutputPath),
		zap.Int(logFieldUsersConstant, userRoster.Len()),
	)

	exporter := NewExporter(schema, format)
	if len(trimmedOutputPath) == 0 {
		return exporter.Export(command.OutOrStdout(), userRoster, normalizedFormat)
	}
	return writeFile(trimmedOutputPath, func(destination io.Writer) error {
		return exporter.Export(destination, userRoster, normalizedFormat)
	})
}

func writeFile(path string, write func(io.Writer) error) error {
	file, createError := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermissionsConstant)
	if createError != nil {
		return fmt.Errorf(outputCreateErrorTemplateConstant, path, createError)
	}
	if writeError := write(file); writeError != nil {
		file.Close()
		return writeError
	}
	if closeError := file.Close(); closeError != nil {
		return fmt.Errorf(outputCloseErrorTemplateConstant, path, closeError)
	}
	return nil
}

func noPositionalArguments(use string) cobra.PositionalArgs {
	return func(command *cobra.Command, arguments []string) error {
		if len(arguments) > 0 {
			return fmt.Errorf(unexpectedArgumentsTemplateConstant, use)
		}
		return nil
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

func (builder *CommandBuilder) resolveRosterConfiguration() roster.Configuration {
	if builder.RosterConfigurationProvider == nil {
		return roster.DefaultConfiguration()
	}
	return builder.RosterConfigurationProvider()
}
