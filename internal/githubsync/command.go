package githubsync

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/credentials"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/githubapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/prompt"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/flags"
)

const (
	githubCommandUseConstant                  = "github"
	githubCommandShortDescriptionConstant     = "A set of batch management tools for GitHub"
	githubCommandLongDescriptionConstant      = "github reconciles the repositories, teams and team members of a GitHub organization with the roster."
	authorizeCommandUseConstant               = "authorize"
	authorizeCommandAliasConstant             = "authenticate"
	authorizeCommandShortDescriptionConstant  = "Authorizes scrum-tools with a GitHub account"
	validateUsersCommandUseConstant           = "validate-users"
	validateUsersShortDescriptionConstant     = "Validate the provided GitHub account names"
	createReposCommandUseConstant             = "create-repos"
	createReposShortDescriptionConstant       = "Creates GitHub repositories"
	deleteReposCommandUseConstant             = "delete-repos"
	deleteReposShortDescriptionConstant       = "Deletes GitHub repositories"
	createTeamsCommandUseConstant             = "create-teams"
	createTeamsShortDescriptionConstant       = "Creates GitHub teams and reconciles their members"
	deleteTeamsCommandUseConstant             = "delete-teams"
	deleteTeamsShortDescriptionConstant       = "Deletes GitHub teams"
	organizationFlagUsageConstant             = "the organization managing the GitHub repositories"
	platformNameConstant                      = "GitHub"
	configurationSectionConstant              = "github"
	authorizeRemediationConstant              = "scrum-tools github authorize"
	destructiveConfirmationQuestionConstant   = "This cannot be undone! Proceed? (yes/no): "
	abortDeleteMessageConstant                = "Aborting delete command."
	confirmationErrorTemplateConstant         = "unable to read confirmation: %w"
	credentialResolutionErrorTemplateConstant = "unable to resolve github.auth_token: %w"
	driverCreationErrorTemplateConstant       = "unable to open GitHub session: %w"
	hostnameErrorTemplateConstant             = "unable to determine hostname: %w"
	unexpectedArgumentsTemplateConstant       = "github %s does not accept positional arguments"
)

type serviceOperation func(service *Service, executionContext context.Context, userRoster roster.Roster) error

// CommandBuilder assembles the github command hierarchy.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       ConfigurationProvider
	RosterConfigurationProvider RosterConfigurationProvider
	DriverFactory               DriverFactory
	Authorizer                  Authorizer
	CredentialsPrompter         CredentialsPrompter
	ConfirmationPrompter        ConfirmationPrompter
	SecretResolver              SecretResolver
	HostnameProvider            func() (string, error)
	UsernameProvider            func() string
}

// Build constructs the github namespace with its subcommands. The namespace itself prints usage.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	githubCommand := &cobra.Command{
		Use:   githubCommandUseConstant,
		Short: githubCommandShortDescriptionConstant,
		Long:  githubCommandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	rosterFlagValues := flags.BindRosterFlags(githubCommand, flags.RosterFlagDefinitions{
		UsersFile:    flags.RosterFlagDefinition{Enabled: true},
		Organization: flags.RosterFlagDefinition{Enabled: true, Usage: organizationFlagUsageConstant},
	})

	authorizeCommand := &cobra.Command{
		Use:     authorizeCommandUseConstant,
		Aliases: []string{authorizeCommandAliasConstant},
		Short:   authorizeCommandShortDescriptionConstant,
		Args:    builder.noPositionalArguments(authorizeCommandUseConstant),
		RunE:    builder.runAuthorize,
	}

	githubCommand.AddCommand(
		authorizeCommand,
		builder.reconciliationCommand(validateUsersCommandUseConstant, validateUsersShortDescriptionConstant, rosterFlagValues, false, (*Service).ValidateUsers),
		builder.reconciliationCommand(createReposCommandUseConstant, createReposShortDescriptionConstant, rosterFlagValues, false, (*Service).CreateRepositories),
		builder.reconciliationCommand(deleteReposCommandUseConstant, deleteReposShortDescriptionConstant, rosterFlagValues, true, (*Service).DeleteRepositories),
		builder.reconciliationCommand(createTeamsCommandUseConstant, createTeamsShortDescriptionConstant, rosterFlagValues, false, (*Service).CreateTeams),
		builder.reconciliationCommand(deleteTeamsCommandUseConstant, deleteTeamsShortDescriptionConstant, rosterFlagValues, true, (*Service).DeleteTeams),
	)

	return githubCommand, nil
}

func (builder *CommandBuilder) reconciliationCommand(use string, shortDescription string, rosterFlagValues *flags.RosterFlagValues, destructive bool, operation serviceOperation) *cobra.Command {
	reconciliationCommand := &cobra.Command{
		Use:   use,
		Short: shortDescription,
		Args:  builder.noPositionalArguments(use),
	}

	assumeYes := new(bool)
	if destructive {
		assumeYes = flags.BindAssumeYesFlag(reconciliationCommand)
	}

	reconciliationCommand.RunE = func(command *cobra.Command, arguments []string) error {
		reporter := ui.NewStatusReporter(command.OutOrStdout())
		if destructive && !*assumeYes {
			confirmed, confirmationError := builder.resolveConfirmationPrompter(command).Confirm(destructiveConfirmationQuestionConstant)
			if confirmationError != nil {
				return fmt.Errorf(confirmationErrorTemplateConstant, confirmationError)
			}
			if !confirmed {
				reporter.Notice(abortDeleteMessageConstant)
				return nil
			}
		}

		service, serviceError := builder.prepareService(reporter, rosterFlagValues)
		if serviceError != nil {
			return serviceError
		}
		userRoster, rosterError := builder.resolveRosterConfiguration().LoadRoster(rosterFlagValues.UsersFile)
		if rosterError != nil {
			return rosterError
		}
		return operation(service, command.Context(), userRoster)
	}
	return reconciliationCommand
}

// prepareService validates credentials before any roster or network access.
func (builder *CommandBuilder) prepareService(reporter *ui.StatusReporter, rosterFlagValues *flags.RosterFlagValues) (*Service, error) {
	configuration := builder.resolveConfiguration(rosterFlagValues)

	token, resolveError := builder.resolveSecretResolver().Resolve(configuration.AuthToken)
	if resolveError != nil {
		return nil, fmt.Errorf(credentialResolutionErrorTemplateConstant, resolveError)
	}
	requirementError := scrumerrors.RequireValues(configurationSectionConstant, authorizeRemediationConstant, map[string]string{
		authIDKeyConstant:    configuration.AuthID,
		authTokenKeyConstant: token,
	})
	if requirementError != nil {
		return nil, requirementError
	}

	driver, driverError := builder.resolveDriverFactory()(token, configuration.BaseURL)
	if driverError != nil {
		return nil, fmt.Errorf(driverCreationErrorTemplateConstant, driverError)
	}
	return NewService(driver, configuration, reporter, builder.resolveLogger()), nil
}

func (builder *CommandBuilder) runAuthorize(command *cobra.Command, arguments []string) error {
	hostname, hostnameError := builder.resolveHostnameProvider()()
	if hostnameError != nil {
		return fmt.Errorf(hostnameErrorTemplateConstant, hostnameError)
	}

	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	flow := AuthorizationFlow{
		Authorizer:            builder.resolveAuthorizer(),
		Prompter:              builder.resolveCredentialsPrompter(command),
		Reporter:              ui.NewStatusReporter(command.OutOrStdout()),
		Logger:                builder.resolveLogger(),
		Hostname:              hostname,
		DefaultUsername:       builder.resolveUsernameProvider()(),
		ConfigurationFilePath: configurationFilePath,
	}
	return flow.Run(command.Context())
}

func (builder *CommandBuilder) noPositionalArguments(use string) cobra.PositionalArgs {
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

func (builder *CommandBuilder) resolveConfiguration(rosterFlagValues *flags.RosterFlagValues) Configuration {
	configuration := DefaultConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	configuration = configuration.Sanitize()
	if rosterFlagValues != nil {
		configuration.Organization = selectStringValue(rosterFlagValues.Organization, configuration.Organization)
	}
	return configuration
}

func (builder *CommandBuilder) resolveRosterConfiguration() roster.Configuration {
	if builder.RosterConfigurationProvider == nil {
		return roster.DefaultConfiguration()
	}
	return builder.RosterConfigurationProvider()
}

func (builder *CommandBuilder) resolveDriverFactory() DriverFactory {
	if builder.DriverFactory != nil {
		return builder.DriverFactory
	}
	return NewAPIDriver
}

func (builder *CommandBuilder) resolveAuthorizer() Authorizer {
	if builder.Authorizer != nil {
		return builder.Authorizer
	}
	return githubapi.NewAuthorizer(builder.resolveConfiguration(nil).BaseURL)
}

func (builder *CommandBuilder) resolveCredentialsPrompter(command *cobra.Command) CredentialsPrompter {
	if builder.CredentialsPrompter != nil {
		return builder.CredentialsPrompter
	}
	return prompt.NewCredentialsPrompter(platformNameConstant, command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) resolveConfirmationPrompter(command *cobra.Command) ConfirmationPrompter {
	if builder.ConfirmationPrompter != nil {
		return builder.ConfirmationPrompter
	}
	return prompt.NewIOConfirmationPrompter(command.InOrStdin(), command.OutOrStdout())
}

func (builder *CommandBuilder) resolveSecretResolver() SecretResolver {
	if builder.SecretResolver != nil {
		return builder.SecretResolver
	}
	return credentials.NewResolver(nil, nil)
}

func (builder *CommandBuilder) resolveHostnameProvider() func() (string, error) {
	if builder.HostnameProvider != nil {
		return builder.HostnameProvider
	}
	return os.Hostname
}

func (builder *CommandBuilder) resolveUsernameProvider() func() string {
	if builder.UsernameProvider != nil {
		return builder.UsernameProvider
	}
	return currentUsername
}

func currentUsername() string {
	currentUser, lookupError := user.Current()
	if lookupError != nil || currentUser == nil {
		return ""
	}
	return currentUser.Username
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
