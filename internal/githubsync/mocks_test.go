package githubsync_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/githubapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
)

type mockDriver struct {
	mock.Mock
}

func (driver *mockDriver) ResolveOrganization(executionContext context.Context, name string) (remote.Organization, error) {
	arguments := driver.Called(executionContext, name)
	return arguments.Get(0).(remote.Organization), arguments.Error(1)
}

func (driver *mockDriver) ListTeams(executionContext context.Context, organization string) ([]remote.Team, error) {
	arguments := driver.Called(executionContext, organization)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]remote.Team), arguments.Error(1)
}

func (driver *mockDriver) ListRepositories(executionContext context.Context, organization string) ([]remote.Repository, error) {
	arguments := driver.Called(executionContext, organization)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]remote.Repository), arguments.Error(1)
}

func (driver *mockDriver) CreateRepository(executionContext context.Context, organization string, name string) (remote.Repository, reconcile.Outcome) {
	arguments := driver.Called(executionContext, organization, name)
	return arguments.Get(0).(remote.Repository), arguments.Get(1).(reconcile.Outcome)
}

func (driver *mockDriver) DeleteRepository(executionContext context.Context, organization string, name string) reconcile.Outcome {
	arguments := driver.Called(executionContext, organization, name)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) CreateTeam(executionContext context.Context, organization string, name string, repositoryNames []string, permission githubapi.Permission) (remote.Team, reconcile.Outcome) {
	arguments := driver.Called(executionContext, organization, name, repositoryNames, permission)
	return arguments.Get(0).(remote.Team), arguments.Get(1).(reconcile.Outcome)
}

func (driver *mockDriver) DeleteTeam(executionContext context.Context, organization string, slug string) reconcile.Outcome {
	arguments := driver.Called(executionContext, organization, slug)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) GrantTeamRepository(executionContext context.Context, organization string, slug string, repository string, permission githubapi.Permission) reconcile.Outcome {
	arguments := driver.Called(executionContext, organization, slug, repository, permission)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) ListTeamMembers(executionContext context.Context, organization string, slug string) ([]remote.Member, error) {
	arguments := driver.Called(executionContext, organization, slug)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]remote.Member), arguments.Error(1)
}

func (driver *mockDriver) AddTeamMember(executionContext context.Context, organization string, slug string, login string) reconcile.Outcome {
	arguments := driver.Called(executionContext, organization, slug, login)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) RemoveTeamMember(executionContext context.Context, organization string, slug string, login string) reconcile.Outcome {
	arguments := driver.Called(executionContext, organization, slug, login)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) UserExists(executionContext context.Context, login string) (bool, error) {
	arguments := driver.Called(executionContext, login)
	return arguments.Bool(0), arguments.Error(1)
}

type mockAuthorizer struct {
	mock.Mock
}

func (authorizer *mockAuthorizer) Authorize(executionContext context.Context, username string, password string, oneTimePasswordProvider githubapi.OneTimePasswordProvider, note string, scopes []string) (githubapi.Authorization, error) {
	arguments := authorizer.Called(executionContext, username, password, mock.Anything, note, scopes)
	if oneTimePasswordProvider != nil {
		if _, providerError := oneTimePasswordProvider(); providerError != nil {
			return githubapi.Authorization{}, providerError
		}
	}
	return arguments.Get(0).(githubapi.Authorization), arguments.Error(1)
}

type stubCredentialsPrompter struct {
	username      string
	password      string
	twoFactorCode string
	defaultSeen   string
}

func (prompter *stubCredentialsPrompter) Username(defaultName string) (string, error) {
	prompter.defaultSeen = defaultName
	return prompter.username, nil
}

func (prompter *stubCredentialsPrompter) Password() (string, error) {
	return prompter.password, nil
}

func (prompter *stubCredentialsPrompter) TwoFactorCode() (string, error) {
	return prompter.twoFactorCode, nil
}

type stubConfirmationPrompter struct {
	answer    bool
	questions []string
}

func (prompter *stubConfirmationPrompter) Confirm(question string) (bool, error) {
	prompter.questions = append(prompter.questions, question)
	return prompter.answer, nil
}
