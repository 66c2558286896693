package trellosync

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/credentials"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/flags"
)

const (
	trelloCommandUseConstant              = "trello"
	trelloCommandShortDescriptionConstant = "A set of batch management tools for Trello"
	trelloCommandLongDescriptionConstant  = "trello reconciles the boards, lists and board members of a Trello workspace with the roster."
	authorizeCommandUseConstant           = "authorize"
	authorizeCommandAliasConstant         = "authenticate"
	authorizeShortDescriptionConstant     = "Authorizes scrum-tools with a Trello account"
	validateUsersCommandUseConstant       = "validate-users"
	validateUsersShortDescriptionConstant = "Validate the provided Trello account names"
	createBoardsCommandUseConstant        = "create-boards"
	createBoardsShortDescriptionConstant  = "Creates Trello boards and reconciles their lists and members"
	createCardCommandUseConstant          = "create-card"
	createCardShortDescriptionConstant    = "Adds a card to a list of every group board"
	organizationFlagUsageConstant         = "the organization managing the Trello boards"
	pruneMembersFlagNameConstant          = "prune-members"
	pruneMembersFlagUsageConstant         = "remove board members that are neither admins nor in the board's group"
	cardNameFlagNameConstant              = "card-name"
	cardNameFlagShorthandConstant         = "C"
	cardNameFlagUsageConstant             = "name of the card to add"
	cardDescriptionFlagNameConstant       = "card-description"
	cardDescriptionFlagShorthandConstant  = "D"
	cardDescriptionFlagUsageConstant      = "description of the card to add"
	cardListFlagNameConstant              = "card-list"
	cardListFlagShorthandConstant         = "L"
	cardListFlagUsageConstant             = "name of the list (in all boards) to add the card to"
	defaultCardListConstant               = "Product Backlog"
	configurationSectionConstant          = "trello"
	authorizeRemediationConstant          = "scrum-tools trello authorize"
	keyResolutionErrorTemplateConstant    = "unable to resolve trello.auth_key: %w"
	tokenResolutionErrorTemplateConstant  = "unable to resolve trello.auth_token: %w"
	driverCreationErrorTemplateConstant   = "unable to open Trello session: %w"
	unexpectedArgumentsTemplateConstant   = "trello %s does not accept positional arguments"
	authorizeLogMessageConstant           = "authorizing a Trello user"
)

type serviceOperation func(service *Service, command *cobra.Command, userRoster roster.Roster) error

// CommandBuilder assembles the trello command hierarchy.
type CommandBuilder struct {
	LoggerProvider              LoggerProvider
	ConfigurationProvider       ConfigurationProvider
	RosterConfigurationProvider RosterConfigurationProvider
	DriverFactory               DriverFactory
	SecretResolver              SecretResolver
}

// Build constructs the trello namespace with its subcommands. The namespace itself prints usage.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	trelloCommand := &cobra.Command{
		Use:   trelloCommandUseConstant,
		Short: trelloCommandShortDescriptionConstant,
		Long:  trelloCommandLongDescriptionConstant,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
	}

	rosterFlagValues := flags.BindRosterFlags(trelloCommand, flags.RosterFlagDefinitions{
		UsersFile:    flags.RosterFlagDefinition{Enabled: true},
		Organization: flags.RosterFlagDefinition{Enabled: true, Usage: organizationFlagUsageConstant},
	})

	authorizeCommand := &cobra.Command{
		Use:     authorizeCommandUseConstant,
		Aliases: []string{authorizeCommandAliasConstant},
		Short:   authorizeShortDescriptionConstant,
		Args:    noPositionalArguments(authorizeCommandUseConstant),
		RunE:    builder.runAuthorize,
	}

	validateUsersCommand := builder.reconciliationCommand(validateUsersCommandUseConstant, validateUsersShortDescriptionConstant, rosterFlagValues,
		func(service *Service, command *cobra.Command, userRoster roster.Roster) error {
			return service.ValidateUsers(command.Context(), userRoster)
		})

	var pruneMembers bool
	createBoardsCommand := builder.reconciliationCommand(createBoardsCommandUseConstant, createBoardsShortDescriptionConstant, rosterFlagValues,
		func(service *Service, command *cobra.Command, userRoster roster.Roster) error {
			if command.Flags().Changed(pruneMembersFlagNameConstant) {
				service.configuration.PruneMembers = pruneMembers
			}
			return service.CreateBoards(command.Context(), userRoster)
		})
	flags.AddToggleFlag(createBoardsCommand.Flags(), &pruneMembers, pruneMembersFlagNameConstant, "", false, pruneMembersFlagUsageConstant)

	cardRequest := CardRequest{}
	createCardCommand := builder.reconciliationCommand(createCardCommandUseConstant, createCardShortDescriptionConstant, rosterFlagValues,
		func(service *Service, command *cobra.Command, userRoster roster.Roster) error {
			return service.CreateCard(command.Context(), userRoster, CardRequest{
				Name:        strings.TrimSpace(cardRequest.Name),
				Description: cardRequest.Description,
				ListName:    strings.TrimSpace(cardRequest.ListName),
			})
		})
	createCardCommand.Flags().StringVarP(&cardRequest.Name, cardNameFlagNameConstant, cardNameFlagShorthandConstant, "", cardNameFlagUsageConstant)
	createCardCommand.Flags().StringVarP(&cardRequest.Description, cardDescriptionFlagNameConstant, cardDescriptionFlagShorthandConstant, "", cardDescriptionFlagUsageConstant)
	createCardCommand.Flags().StringVarP(&cardRequest.ListName, cardListFlagNameConstant, cardListFlagShorthandConstant, defaultCardListConstant, cardListFlagUsageConstant)
	createCardCommand.PreRunE = func(command *cobra.Command, arguments []string) error {
		if _, credentialsError := builder.resolveCredentials(builder.resolveConfiguration(rosterFlagValues)); credentialsError != nil {
			return credentialsError
		}
		if len(strings.TrimSpace(cardRequest.Name)) == 0 {
			return scrumerrors.ErrMissingCardName
		}
		return nil
	}

	trelloCommand.AddCommand(authorizeCommand, validateUsersCommand, createBoardsCommand, createCardCommand)
	return trelloCommand, nil
}

func (builder *CommandBuilder) reconciliationCommand(use string, shortDescription string, rosterFlagValues *flags.RosterFlagValues, operation serviceOperation) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: shortDescription,
		Args:  noPositionalArguments(use),
		RunE: func(command *cobra.Command, arguments []string) error {
			configuration := builder.resolveConfiguration(rosterFlagValues)
			resolvedCredentials, credentialsError := builder.resolveCredentials(configuration)
			if credentialsError != nil {
				return credentialsError
			}

			driver, driverError := builder.resolveDriverFactory()(resolvedCredentials.key, resolvedCredentials.token, configuration.BaseURL)
			if driverError != nil {
				return fmt.Errorf(driverCreationErrorTemplateConstant, driverError)
			}
			service := NewService(driver, configuration, ui.NewStatusReporter(command.OutOrStdout()), builder.resolveLogger())

			userRoster, rosterError := builder.resolveRosterConfiguration().LoadRoster(rosterFlagValues.UsersFile)
			if rosterError != nil {
				return rosterError
			}
			return operation(service, command, userRoster)
		},
	}
}

func (builder *CommandBuilder) runAuthorize(command *cobra.Command, arguments []string) error {
	configuration := builder.resolveConfiguration(nil)
	resolvedKey, resolveError := builder.resolveSecretResolver().Resolve(configuration.AuthKey)
	if resolveError != nil {
		return fmt.Errorf(keyResolutionErrorTemplateConstant, resolveError)
	}
	if requirementError := scrumerrors.RequireValues(configurationSectionConstant, "", map[string]string{authKeyKeyConstant: resolvedKey}); requirementError != nil {
		return requirementError
	}

	builder.resolveLogger().Debug(authorizeLogMessageConstant)
	configurationFilePath, _ := utils.NewCommandContextAccessor().ConfigurationFilePath(command.Context())
	AuthorizationInstructions(ui.NewStatusReporter(command.OutOrStdout()), configuration, configurationFilePath, configuration.AuthKey, resolvedKey)
	return nil
}

type resolvedCredentials struct {
	key   string
	token string
}

func (builder *CommandBuilder) resolveCredentials(configuration Configuration) (resolvedCredentials, error) {
	secretResolver := builder.resolveSecretResolver()
	key, keyError := secretResolver.Resolve(configuration.AuthKey)
	if keyError != nil {
		return resolvedCredentials{}, fmt.Errorf(keyResolutionErrorTemplateConstant, keyError)
	}
	token, tokenError := secretResolver.Resolve(configuration.AuthToken)
	if tokenError != nil {
		return resolvedCredentials{}, fmt.Errorf(tokenResolutionErrorTemplateConstant, tokenError)
	}
	requirementError := scrumerrors.RequireValues(configurationSectionConstant, authorizeRemediationConstant, map[string]string{
		authKeyKeyConstant:   key,
		authTokenKeyConstant: token,
	})
	if requirementError != nil {
		return resolvedCredentials{}, requirementError
	}
	return resolvedCredentials{key: key, token: token}, nil
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

func (builder *CommandBuilder) resolveSecretResolver() SecretResolver {
	if builder.SecretResolver != nil {
		return builder.SecretResolver
	}
	return credentials.NewResolver(nil, nil)
}

func selectStringValue(flagValue string, configurationValue string) string {
	trimmedFlagValue := strings.TrimSpace(flagValue)
	if len(trimmedFlagValue) > 0 {
		return trimmedFlagValue
	}
	return strings.TrimSpace(configurationValue)
}
