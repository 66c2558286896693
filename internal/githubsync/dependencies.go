package githubsync

import (
	"context"

	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/githubapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current github configuration.
type ConfigurationProvider func() Configuration

// RosterConfigurationProvider returns the core roster configuration.
type RosterConfigurationProvider func() roster.Configuration

// Driver is the subset of the GitHub API the github commands reconcile against.
type Driver interface {
	ResolveOrganization(executionContext context.Context, name string) (remote.Organization, error)
	ListTeams(executionContext context.Context, organization string) ([]remote.Team, error)
	ListRepositories(executionContext context.Context, organization string) ([]remote.Repository, error)
	CreateRepository(executionContext context.Context, organization string, name string) (remote.Repository, reconcile.Outcome)
	DeleteRepository(executionContext context.Context, organization string, name string) reconcile.Outcome
	CreateTeam(executionContext context.Context, organization string, name string, repositoryNames []string, permission githubapi.Permission) (remote.Team, reconcile.Outcome)
	DeleteTeam(executionContext context.Context, organization string, slug string) reconcile.Outcome
	GrantTeamRepository(executionContext context.Context, organization string, slug string, repository string, permission githubapi.Permission) reconcile.Outcome
	ListTeamMembers(executionContext context.Context, organization string, slug string) ([]remote.Member, error)
	AddTeamMember(executionContext context.Context, organization string, slug string, login string) reconcile.Outcome
	RemoveTeamMember(executionContext context.Context, organization string, slug string, login string) reconcile.Outcome
	UserExists(executionContext context.Context, login string) (bool, error)
}

// DriverFactory opens a Driver for a token and optional API base URL.
type DriverFactory func(token string, baseURL string) (Driver, error)

// Authorizer exchanges account credentials for a personal access token.
type Authorizer interface {
	Authorize(executionContext context.Context, username string, password string, oneTimePasswordProvider githubapi.OneTimePasswordProvider, note string, scopes []string) (githubapi.Authorization, error)
}

// CredentialsPrompter asks the operator for login details.
type CredentialsPrompter interface {
	Username(defaultName string) (string, error)
	Password() (string, error)
	TwoFactorCode() (string, error)
}

// ConfirmationPrompter asks the operator to approve a destructive command.
type ConfirmationPrompter interface {
	Confirm(question string) (bool, error)
}

// SecretResolver turns a configured credential reference into the secret itself.
type SecretResolver interface {
	Resolve(value string) (string, error)
}

// NewAPIDriver opens the go-github backed driver.
func NewAPIDriver(token string, baseURL string) (Driver, error) {
	return githubapi.NewClient(token, baseURL)
}
