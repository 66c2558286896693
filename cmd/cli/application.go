package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/evaltool"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/githubsync"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/rostertool"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/trellosync"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/flags"
)

const (
	applicationNameConstant                 = "scrum-tools"
	applicationShortDescriptionConstant     = "Batch administration of GitHub and Trello for scrum courses"
	applicationLongDescriptionConstant      = "scrum-tools reconciles GitHub teams and repositories and Trello boards with a CSV roster of course participants."
	configFileFlagNameConstant              = "config"
	configFileFlagUsageConstant             = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                = "log-level"
	logLevelFlagUsageConstant               = "Override the configured log level."
	logFormatFlagNameConstant               = "log-format"
	logFormatFlagUsageConstant              = "Override the configured log format (structured or console)."
	commonConfigurationKeyConstant          = "common"
	commonLogLevelConfigKeyConstant         = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant        = commonConfigurationKeyConstant + ".log_format"
	coreConfigurationKeyConstant            = "core"
	githubConfigurationKeyConstant          = "github"
	trelloConfigurationKeyConstant          = "trello"
	evaltoolConfigurationKeyConstant        = "evaltool"
	environmentPrefixConstant               = "SCRUMTOOLS"
	configurationNameConstant               = "config"
	configurationTypeConstant               = "yaml"
	dotEnvFileNameConstant                  = ".env"
	userConfigurationDirectoryNameConstant  = "scrum-tools"
	defaultConfigurationSearchPathConstant  = "."
	configurationInitializedMessageConstant = "configuration initialized"
	configurationLogLevelFieldConstant      = "log_level"
	configurationLogFormatFieldConstant     = "log_format"
	configurationFileFieldConstant          = "config_file"
	dotEnvFilesFieldConstant                = "dotenv_files"
	configurationLoadErrorTemplateConstant  = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant     = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant         = "unable to flush logger: %w"
	commandBuildErrorTemplateConstant       = "unable to build %s command: %w"
	rootCommandInfoMessageConstant          = "scrum-tools CLI executed"
	rootCommandDebugMessageConstant         = "scrum-tools CLI diagnostics"
	logFieldCommandNameConstant             = "command_name"
	logFieldArgumentCountConstant           = "argument_count"
	logFieldArgumentsConstant               = "arguments"
	loggerNotInitializedMessageConstant     = "logger not initialized"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common   ApplicationCommonConfiguration `mapstructure:"common"`
	Core     roster.Configuration           `mapstructure:"core"`
	GitHub   githubsync.Configuration       `mapstructure:"github"`
	Trello   trellosync.Configuration       `mapstructure:"trello"`
	EvalTool evaltool.Configuration         `mapstructure:"evaltool"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// Application wires the Cobra root command, configuration loader, and structured logger.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	runIdentifier          string
	commandContextAccessor utils.CommandContextAccessor
	buildError             error
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		configurationSearchPaths(),
	)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())
	configurationLoader.SetDotEnvFiles(dotEnvFileNameConstant)

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		runIdentifier:          uuid.NewString(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatFlagUsageConstant)

	loggerProvider := func() *zap.Logger {
		return application.logger
	}
	rosterConfigurationProvider := func() roster.Configuration {
		return application.configuration.Core
	}

	githubBuilder := githubsync.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() githubsync.Configuration {
			return application.configuration.GitHub
		},
		RosterConfigurationProvider: rosterConfigurationProvider,
	}
	application.registerCommand(cobraCommand, githubConfigurationKeyConstant, githubBuilder.Build)

	trelloBuilder := trellosync.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() trellosync.Configuration {
			return application.configuration.Trello
		},
		RosterConfigurationProvider: rosterConfigurationProvider,
	}
	application.registerCommand(cobraCommand, trelloConfigurationKeyConstant, trelloBuilder.Build)

	evaltoolBuilder := evaltool.CommandBuilder{
		LoggerProvider: loggerProvider,
		ConfigurationProvider: func() evaltool.Configuration {
			return application.configuration.EvalTool
		},
		RosterConfigurationProvider: rosterConfigurationProvider,
	}
	application.registerCommand(cobraCommand, evaltoolConfigurationKeyConstant, evaltoolBuilder.Build)

	rosterBuilder := rostertool.CommandBuilder{
		LoggerProvider:              loggerProvider,
		RosterConfigurationProvider: rosterConfigurationProvider,
	}
	application.registerCommand(cobraCommand, coreConfigurationKeyConstant, rosterBuilder.Build)

	application.rootCommand = cobraCommand

	return application
}

// RootCommand exposes the assembled Cobra hierarchy.
func (application *Application) RootCommand() *cobra.Command {
	return application.rootCommand
}

// Configuration returns the configuration resolved by the last executed command.
func (application *Application) Configuration() ApplicationConfiguration {
	return application.configuration
}

// Execute runs the configured Cobra command hierarchy with the process arguments and ensures logger flushing.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// ExecuteWithArguments runs the command hierarchy with explicit arguments. Toggle flags written
// as "--flag value" are normalized before Cobra parses them.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	if application.buildError != nil {
		return application.buildError
	}

	normalizedArguments := flags.NormalizeToggleArguments(arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) registerCommand(rootCommand *cobra.Command, name string, build func() (*cobra.Command, error)) {
	namespaceCommand, buildError := build()
	if buildError != nil {
		application.buildError = errors.Join(application.buildError, fmt.Errorf(commandBuildErrorTemplateConstant, name, buildError))
		return
	}
	rootCommand.AddCommand(namespaceCommand)
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:  string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant: string(utils.LogFormatStructured),
	}
	sectionDefaults := []map[string]any{
		roster.DefaultConfigurationValues(coreConfigurationKeyConstant),
		githubsync.DefaultConfigurationValues(githubConfigurationKeyConstant),
		trellosync.DefaultConfigurationValues(trelloConfigurationKeyConstant),
		evaltool.DefaultConfigurationValues(evaltoolConfigurationKeyConstant),
	}
	for _, sectionValues := range sectionDefaults {
		for configurationKey, configurationValue := range sectionValues {
			defaultValues[configurationKey] = configurationValue
		}
	}

	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	logger, loggerCreationError := application.loggerFactory.CreateLogger(utils.LoggerConfiguration{
		Level:         utils.LogLevel(application.configuration.Common.LogLevel),
		Format:        utils.LogFormat(application.configuration.Common.LogFormat),
		RunIdentifier: application.runIdentifier,
	})
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = logger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(dotEnvFilesFieldConstant, application.configurationMetadata.DotEnvFilesLoaded),
	)

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationFilePath(
			command.Context(),
			application.configurationMetadata.ConfigFileUsed,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	return command.Help()
}

func (application *Application) flushLogger() error {
	return application.syncLoggerInstance(application.logger)
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func configurationSearchPaths() []string {
	searchPaths := []string{defaultConfigurationSearchPathConstant}
	userConfigurationDirectory, userConfigurationError := os.UserConfigDir()
	if userConfigurationError == nil && len(strings.TrimSpace(userConfigurationDirectory)) > 0 {
		searchPaths = append(searchPaths, filepath.Join(userConfigurationDirectory, userConfigurationDirectoryNameConstant))
	}
	return searchPaths
}
