package githubsync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/githubapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/naming"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
)

const (
	qualifiedRepositoryTemplateConstant     = "%s/%s"
	skipEmptyAccountTemplateConstant        = "Skipping empty GitHub account for user '%s'."
	validateAccountTemplateConstant         = "Validating GitHub account '%s' for user '%s'..."
	createRepositoryTemplateConstant        = "Creating repository '%s'..."
	skipExistingRepositoryTemplateConstant  = "Skipping repository '%s' (already exists)."
	deleteRepositoryTemplateConstant        = "Deleting repository '%s'..."
	skipMissingRepositoryTemplateConstant   = "Skipping repository '%s' (does not exist)."
	grantRepositoryTemplateConstant         = "Adding repository '%s/%s' to team '%s'..."
	createTeamTemplateConstant              = "Creating team '%s'..."
	skipExistingTeamTemplateConstant        = "Skipping team '%s' (already exists)."
	deleteTeamTemplateConstant              = "Deleting team '%s'..."
	skipMissingTeamTemplateConstant         = "Skipping team '%s' (does not exist)."
	skipTeamMembersTemplateConstant         = "Skipping members of team '%s' (team does not exist)."
	updateTeamMembersTemplateConstant       = "Updating team members for team '%s'."
	listTeamMembersFailedTemplateConstant   = "Unable to list members of team '%s': %v"
	addTeamMemberTemplateConstant           = "Adding '%s' to team '%s'..."
	removeTeamMemberTemplateConstant        = "Removing '%s' from team '%s'..."
	organizationLookupErrorTemplateConstant = "unable to resolve organization %q: %w"
	snapshotErrorTemplateConstant           = "unable to list %s of %q: %w"
	teamsSnapshotSubjectConstant            = "teams"
	repositoriesSnapshotSubjectConstant     = "repositories"
	accountNotFoundMessageConstant          = "account not found"
	logFieldOrganizationConstant            = "organization"
	logFieldGroupsConstant                  = "groups"
	logFieldUsersConstant                   = "users"
	logFieldOperationConstant               = "operation"
	logFieldSubjectConstant                 = "subject"
	logFieldReasonConstant                  = "reason"
	validateUsersLogMessageConstant         = "validating GitHub account names"
	createRepositoriesLogMessageConstant    = "creating GitHub repositories"
	deleteRepositoriesLogMessageConstant    = "deleting GitHub repositories"
	createTeamsLogMessageConstant           = "creating GitHub teams"
	deleteTeamsLogMessageConstant           = "deleting GitHub teams"
	operationFailedLogMessageConstant       = "GitHub operation failed"
)

var errAccountNotFound = errors.New(accountNotFoundMessageConstant)

// Service reconciles a GitHub organization with the roster. Snapshots of teams and
// repositories are taken once per command and updated as operations succeed.
type Service struct {
	driver        Driver
	configuration Configuration
	reporter      *ui.StatusReporter
	logger        *zap.Logger
}

// NewService constructs a Service.
func NewService(driver Driver, configuration Configuration, reporter *ui.StatusReporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = ui.NewStatusReporter(nil)
	}
	return &Service{driver: driver, configuration: configuration.Sanitize(), reporter: reporter, logger: logger}
}

// ValidateUsers checks that every non-empty GitHub account of the roster exists.
func (service *Service) ValidateUsers(executionContext context.Context, userRoster roster.Roster) error {
	service.logger.Debug(validateUsersLogMessageConstant, zap.Int(logFieldUsersConstant, userRoster.Len()))

	for _, user := range userRoster.Users() {
		account := user.HostAccount()
		if len(account) == 0 {
			service.reporter.Notice(skipEmptyAccountTemplateConstant, user.ID())
			continue
		}

		service.reporter.Action(validateAccountTemplateConstant, account, user.ID())
		exists, lookupError := service.driver.UserExists(executionContext, account)
		switch {
		case lookupError != nil:
			service.report(reconcile.Failed(lookupError), "UserExists", account)
		case !exists:
			service.report(reconcile.Failed(errAccountNotFound), "UserExists", account)
		default:
			service.report(reconcile.Succeeded(), "UserExists", account)
		}
	}
	return nil
}

// CreateRepositories creates the group, admins and users repositories that are missing and
// grants them to their teams.
func (service *Service) CreateRepositories(executionContext context.Context, userRoster roster.Roster) error {
	organization, resolveError := service.resolveOrganization(executionContext)
	if resolveError != nil {
		return resolveError
	}
	service.logger.Debug(createRepositoriesLogMessageConstant, zap.String(logFieldOrganizationConstant, organization.Name), zap.Strings(logFieldGroupsConstant, userRoster.Groups()))

	teamIndex, teamsError := service.teamSnapshot(executionContext, organization)
	if teamsError != nil {
		return teamsError
	}
	repositoryIndex, repositoriesError := service.repositorySnapshot(executionContext, organization)
	if repositoriesError != nil {
		return repositoriesError
	}

	for _, group := range userRoster.Groups() {
		repositoryName, teamName, renderError := service.groupNames(group)
		if renderError != nil {
			return renderError
		}
		service.createRepository(executionContext, organization, repositoryName, []string{teamName, service.configuration.TeamAdmins}, teamIndex, repositoryIndex)
	}

	service.createRepository(executionContext, organization, service.configuration.RepoAdmins, []string{service.configuration.TeamAdmins}, teamIndex, repositoryIndex)
	service.createRepository(executionContext, organization, service.configuration.RepoUsers, []string{service.configuration.TeamAdmins, service.configuration.TeamUsers}, teamIndex, repositoryIndex)
	return nil
}

// DeleteRepositories deletes the group, admins and users repositories that exist.
func (service *Service) DeleteRepositories(executionContext context.Context, userRoster roster.Roster) error {
	organization, resolveError := service.resolveOrganization(executionContext)
	if resolveError != nil {
		return resolveError
	}
	service.logger.Debug(deleteRepositoriesLogMessageConstant, zap.String(logFieldOrganizationConstant, organization.Name), zap.Strings(logFieldGroupsConstant, userRoster.Groups()))

	repositoryIndex, repositoriesError := service.repositorySnapshot(executionContext, organization)
	if repositoriesError != nil {
		return repositoriesError
	}

	groupRepositoryNames, renderError := naming.Pattern(service.configuration.RepoPattern).RenderAll(userRoster.Groups())
	if renderError != nil {
		return renderError
	}

	repositoryNames := append(groupRepositoryNames, service.configuration.RepoAdmins, service.configuration.RepoUsers)
	for _, repositoryName := range repositoryNames {
		if reconcile.PlanDelete(repositoryName, repositoryIndex.NameSet()) == reconcile.ActionSkipMissing {
			service.reporter.Notice(skipMissingRepositoryTemplateConstant, repositoryName)
			continue
		}

		service.reporter.Action(deleteRepositoryTemplateConstant, repositoryName)
		outcome := service.driver.DeleteRepository(executionContext, organization.Name, repositoryName)
		service.report(outcome, "DeleteRepository", repositoryName)
		if !outcome.IsFailure() {
			repositoryIndex.Delete(repositoryName)
		}
	}
	return nil
}

// CreateTeams creates the group, admins and users teams that are missing and reconciles
// their members with the roster.
func (service *Service) CreateTeams(executionContext context.Context, userRoster roster.Roster) error {
	organization, resolveError := service.resolveOrganization(executionContext)
	if resolveError != nil {
		return resolveError
	}
	groups := userRoster.Groups()
	service.logger.Debug(createTeamsLogMessageConstant, zap.String(logFieldOrganizationConstant, organization.Name), zap.Strings(logFieldGroupsConstant, groups))

	teamIndex, teamsError := service.teamSnapshot(executionContext, organization)
	if teamsError != nil {
		return teamsError
	}

	groupTeamNames := make([]string, 0, len(groups))
	groupRepositoryNames := make([]string, 0, len(groups))
	for _, group := range groups {
		repositoryName, teamName, renderError := service.groupNames(group)
		if renderError != nil {
			return renderError
		}
		groupTeamNames = append(groupTeamNames, teamName)
		groupRepositoryNames = append(groupRepositoryNames, repositoryName)
	}

	for groupIndex, teamName := range groupTeamNames {
		service.createTeam(executionContext, organization, teamName, []string{groupRepositoryNames[groupIndex]}, githubapi.PermissionPush, teamIndex)
	}
	for groupIndex, teamName := range groupTeamNames {
		expectedMembers := userRoster.Accounts(roster.AccountKindHost, roster.InGroup(groups[groupIndex]))
		service.updateTeamMembers(executionContext, organization, teamName, expectedMembers, teamIndex)
	}

	adminRepositoryNames := append([]string{service.configuration.RepoAdmins, service.configuration.RepoUsers}, groupRepositoryNames...)
	service.createTeam(executionContext, organization, service.configuration.TeamAdmins, adminRepositoryNames, githubapi.PermissionAdmin, teamIndex)
	adminMembers := userRoster.Accounts(roster.AccountKindHost, roster.InGroup(service.configuration.TeamAdminsGroup))
	service.updateTeamMembers(executionContext, organization, service.configuration.TeamAdmins, adminMembers, teamIndex)

	service.createTeam(executionContext, organization, service.configuration.TeamUsers, []string{service.configuration.RepoUsers}, githubapi.PermissionPull, teamIndex)
	service.updateTeamMembers(executionContext, organization, service.configuration.TeamUsers, userRoster.Accounts(roster.AccountKindHost), teamIndex)
	return nil
}

// DeleteTeams deletes the group, admins and users teams that exist.
func (service *Service) DeleteTeams(executionContext context.Context, userRoster roster.Roster) error {
	organization, resolveError := service.resolveOrganization(executionContext)
	if resolveError != nil {
		return resolveError
	}
	service.logger.Debug(deleteTeamsLogMessageConstant, zap.String(logFieldOrganizationConstant, organization.Name), zap.Strings(logFieldGroupsConstant, userRoster.Groups()))

	teamIndex, teamsError := service.teamSnapshot(executionContext, organization)
	if teamsError != nil {
		return teamsError
	}

	groupTeamNames, renderError := naming.Pattern(service.configuration.TeamPattern).RenderAll(userRoster.Groups())
	if renderError != nil {
		return renderError
	}

	for _, teamName := range append(groupTeamNames, service.configuration.TeamAdmins, service.configuration.TeamUsers) {
		team, exists := teamIndex.Lookup(teamName)
		if !exists {
			service.reporter.Notice(skipMissingTeamTemplateConstant, teamName)
			continue
		}

		service.reporter.Action(deleteTeamTemplateConstant, teamName)
		outcome := service.driver.DeleteTeam(executionContext, organization.Name, team.Slug)
		service.report(outcome, "DeleteTeam", teamName)
		if !outcome.IsFailure() {
			teamIndex.Delete(teamName)
		}
	}
	return nil
}

func (service *Service) createRepository(executionContext context.Context, organization remote.Organization, repositoryName string, granteeTeamNames []string, teamIndex *remote.Index[remote.Team], repositoryIndex *remote.Index[remote.Repository]) {
	if reconcile.PlanCreate(repositoryName, repositoryIndex.NameSet()) == reconcile.ActionSkipExisting {
		service.reporter.Notice(skipExistingRepositoryTemplateConstant, repositoryName)
	} else {
		service.reporter.Action(createRepositoryTemplateConstant, repositoryName)
		repository, outcome := service.driver.CreateRepository(executionContext, organization.Name, repositoryName)
		service.report(outcome, "CreateRepository", repositoryName)
		if outcome.IsFailure() {
			return
		}
		if len(repository.Name) == 0 {
			repository.Name = repositoryName
		}
		repositoryIndex.Put(repository)
	}

	granted := reconcile.NewNameSet()
	for _, teamName := range granteeTeamNames {
		team, exists := teamIndex.Lookup(teamName)
		if !exists || granted.Contains(teamName) {
			continue
		}
		granted.Add(teamName)

		service.reporter.Action(grantRepositoryTemplateConstant, organization.Name, repositoryName, teamName)
		service.report(service.driver.GrantTeamRepository(executionContext, organization.Name, team.Slug, repositoryName, ""), "GrantTeamRepository", repositoryName)
	}
}

func (service *Service) createTeam(executionContext context.Context, organization remote.Organization, teamName string, repositoryNames []string, permission githubapi.Permission, teamIndex *remote.Index[remote.Team]) {
	if reconcile.PlanCreate(teamName, teamIndex.NameSet()) == reconcile.ActionSkipExisting {
		service.reporter.Notice(skipExistingTeamTemplateConstant, teamName)
		return
	}

	qualifiedRepositoryNames := make([]string, 0, len(repositoryNames))
	for _, repositoryName := range repositoryNames {
		qualifiedRepositoryNames = append(qualifiedRepositoryNames, fmt.Sprintf(qualifiedRepositoryTemplateConstant, organization.Name, repositoryName))
	}

	service.reporter.Action(createTeamTemplateConstant, teamName)
	team, outcome := service.driver.CreateTeam(executionContext, organization.Name, teamName, qualifiedRepositoryNames, permission)
	service.report(outcome, "CreateTeam", teamName)
	if len(team.Slug) == 0 {
		return
	}
	team.Name = teamName
	teamIndex.Put(team)
}

func (service *Service) updateTeamMembers(executionContext context.Context, organization remote.Organization, teamName string, expectedMembers []string, teamIndex *remote.Index[remote.Team]) {
	team, exists := teamIndex.Lookup(teamName)
	if !exists {
		service.reporter.Notice(skipTeamMembersTemplateConstant, teamName)
		return
	}

	service.reporter.Info(updateTeamMembersTemplateConstant, teamName)
	members, listError := service.driver.ListTeamMembers(executionContext, organization.Name, team.Slug)
	if listError != nil {
		service.reporter.Warning(listTeamMembersFailedTemplateConstant, teamName, listError)
		service.logFailure("ListTeamMembers", teamName, listError.Error())
		return
	}

	actualMembers := remote.NewIndex(remote.MemberLogin, members...).NameSet()
	membersToAdd, membersToRemove := reconcile.Diff(reconcile.NewNameSet(expectedMembers...), actualMembers)

	for _, login := range membersToAdd {
		service.reporter.Action(addTeamMemberTemplateConstant, login, teamName)
		service.report(service.driver.AddTeamMember(executionContext, organization.Name, team.Slug, login), "AddTeamMember", login)
	}
	for _, login := range membersToRemove {
		service.reporter.Action(removeTeamMemberTemplateConstant, login, teamName)
		service.report(service.driver.RemoveTeamMember(executionContext, organization.Name, team.Slug, login), "RemoveTeamMember", login)
	}
}

func (service *Service) resolveOrganization(executionContext context.Context) (remote.Organization, error) {
	organization, resolveError := service.driver.ResolveOrganization(executionContext, service.configuration.Organization)
	if resolveError != nil {
		return remote.Organization{}, fmt.Errorf(organizationLookupErrorTemplateConstant, service.configuration.Organization, resolveError)
	}
	if len(organization.Name) == 0 {
		organization.Name = service.configuration.Organization
	}
	return organization, nil
}

func (service *Service) teamSnapshot(executionContext context.Context, organization remote.Organization) (*remote.Index[remote.Team], error) {
	teams, listError := service.driver.ListTeams(executionContext, organization.Name)
	if listError != nil {
		return nil, fmt.Errorf(snapshotErrorTemplateConstant, teamsSnapshotSubjectConstant, organization.Name, listError)
	}
	return remote.NewIndex(remote.TeamName, teams...), nil
}

func (service *Service) repositorySnapshot(executionContext context.Context, organization remote.Organization) (*remote.Index[remote.Repository], error) {
	repositories, listError := service.driver.ListRepositories(executionContext, organization.Name)
	if listError != nil {
		return nil, fmt.Errorf(snapshotErrorTemplateConstant, repositoriesSnapshotSubjectConstant, organization.Name, listError)
	}
	return remote.NewIndex(remote.RepositoryName, repositories...), nil
}

func (service *Service) groupNames(group string) (string, string, error) {
	repositoryName, repositoryError := naming.Pattern(service.configuration.RepoPattern).Render(group)
	if repositoryError != nil {
		return "", "", repositoryError
	}
	teamName, teamError := naming.Pattern(service.configuration.TeamPattern).Render(group)
	if teamError != nil {
		return "", "", teamError
	}
	return repositoryName, teamName, nil
}

func (service *Service) report(outcome reconcile.Outcome, operation string, subject string) {
	service.reporter.Outcome(outcome)
	if outcome.IsFailure() {
		service.logFailure(operation, subject, outcome.Reason)
	}
}

func (service *Service) logFailure(operation string, subject string, reason string) {
	service.logger.Warn(operationFailedLogMessageConstant,
		zap.String(logFieldOperationConstant, operation),
		zap.String(logFieldSubjectConstant, subject),
		zap.String(logFieldReasonConstant, reason),
	)
}
