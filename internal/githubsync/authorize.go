package githubsync

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
)

const (
	authorizationNoteTemplateConstant       = "Scrum-tools on %s"
	authorizationHeaderConstant             = "Please copy these lines into the github section of your scrum-tools config:"
	authorizationFileHeaderTemplateConstant = "Please copy these lines into the github section of %s:"
	authorizationIDLineTemplateConstant     = "  auth_id: %d"
	authorizationTokenLineTemplateConstant  = "  auth_token: %s"
	authorizationFailedTemplateConstant     = "GitHub authorization failed: %w"
	usernamePromptErrorTemplateConstant     = "unable to read GitHub username: %w"
	passwordPromptErrorTemplateConstant     = "unable to read GitHub password: %w"
	authorizeLogMessageConstant             = "authorizing a GitHub user"
	authorizedLogMessageConstant            = "GitHub authorization created"
	logFieldUsernameConstant                = "username"
	logFieldAuthorizationIDConstant         = "authorization_id"
)

// AuthorizationScopes lists the token scopes the github commands need.
var AuthorizationScopes = []string{"repo", "delete_repo", "admin:org"}

// AuthorizationFlow exchanges interactively entered credentials for a token and prints the
// configuration lines the operator copies into the config file.
type AuthorizationFlow struct {
	Authorizer      Authorizer
	Prompter        CredentialsPrompter
	Reporter        *ui.StatusReporter
	Logger          *zap.Logger
	Hostname        string
	DefaultUsername string
	// ConfigurationFilePath names the loaded config file in the header. Empty when none was found.
	ConfigurationFilePath string
}

// Run performs the authorization.
func (flow AuthorizationFlow) Run(executionContext context.Context) error {
	logger := flow.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(authorizeLogMessageConstant)

	username, usernameError := flow.Prompter.Username(flow.DefaultUsername)
	if usernameError != nil {
		return fmt.Errorf(usernamePromptErrorTemplateConstant, usernameError)
	}
	password, passwordError := flow.Prompter.Password()
	if passwordError != nil {
		return fmt.Errorf(passwordPromptErrorTemplateConstant, passwordError)
	}

	note := fmt.Sprintf(authorizationNoteTemplateConstant, flow.Hostname)
	authorization, authorizeError := flow.Authorizer.Authorize(executionContext, username, password, flow.Prompter.TwoFactorCode, note, AuthorizationScopes)
	if authorizeError != nil {
		return fmt.Errorf(authorizationFailedTemplateConstant, authorizeError)
	}
	logger.Info(authorizedLogMessageConstant, zap.String(logFieldUsernameConstant, username), zap.Int64(logFieldAuthorizationIDConstant, authorization.ID))

	if len(flow.ConfigurationFilePath) > 0 {
		flow.Reporter.Info(authorizationFileHeaderTemplateConstant, flow.ConfigurationFilePath)
	} else {
		flow.Reporter.Info(authorizationHeaderConstant)
	}
	flow.Reporter.Info(authorizationIDLineTemplateConstant, authorization.ID)
	flow.Reporter.Info(authorizationTokenLineTemplateConstant, authorization.Token)
	return nil
}
