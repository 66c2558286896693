package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/go-github/v66/github"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
)

const (
	listPageSizeConstant                 = 100
	urlPathSeparatorConstant             = "/"
	memberRoleConstant                   = "member"
	invalidBaseURLTemplateConstant       = "invalid GitHub base URL %q: %w"
	organizationNotFoundTemplateConstant = "%w: %s"
	alreadyExistsNoteConstant            = "already exists"
	doesNotExistNoteConstant             = "does not exist"
	resolveOrganizationOperationConstant = "GitHub ResolveOrganization"
	listTeamsOperationConstant           = "GitHub ListTeams"
	listRepositoriesOperationConstant    = "GitHub ListRepositories"
	createRepositoryOperationConstant    = "GitHub CreateRepository"
	deleteRepositoryOperationConstant    = "GitHub DeleteRepository"
	createTeamOperationConstant          = "GitHub CreateTeam"
	editTeamOperationConstant            = "GitHub EditTeam"
	deleteTeamOperationConstant          = "GitHub DeleteTeam"
	grantTeamRepositoryOperationConstant = "GitHub GrantTeamRepository"
	listTeamMembersOperationConstant     = "GitHub ListTeamMembers"
	addTeamMemberOperationConstant       = "GitHub AddTeamMember"
	removeTeamMemberOperationConstant    = "GitHub RemoveTeamMember"
	userExistsOperationConstant          = "GitHub UserExists"
)

// Permission is the access level a team holds on its repositories.
type Permission string

// Team permissions.
const (
	PermissionPull  Permission = Permission("pull")
	PermissionPush  Permission = Permission("push")
	PermissionAdmin Permission = Permission("admin")
)

// Client is the GitHub driver. Every mutation reports a reconcile.Outcome; listings and
// lookups return a scrumerrors.TransportError on failure.
type Client struct {
	gitHubClient *github.Client
}

// NewClient builds a token-authenticated client. An empty baseURL targets api.github.com.
func NewClient(token string, baseURL string) (*Client, error) {
	gitHubClient := github.NewClient(nil).WithAuthToken(token)
	if applyError := applyBaseURL(gitHubClient, baseURL); applyError != nil {
		return nil, applyError
	}
	return &Client{gitHubClient: gitHubClient}, nil
}

func applyBaseURL(gitHubClient *github.Client, baseURL string) error {
	trimmedBaseURL := strings.TrimSpace(baseURL)
	if len(trimmedBaseURL) == 0 {
		return nil
	}
	if !strings.HasSuffix(trimmedBaseURL, urlPathSeparatorConstant) {
		trimmedBaseURL += urlPathSeparatorConstant
	}
	parsedURL, parseError := url.Parse(trimmedBaseURL)
	if parseError != nil {
		return fmt.Errorf(invalidBaseURLTemplateConstant, baseURL, parseError)
	}
	gitHubClient.BaseURL = parsedURL
	return nil
}

// ResolveOrganization looks up an organization by login.
func (client *Client) ResolveOrganization(executionContext context.Context, name string) (remote.Organization, error) {
	organization, _, getError := client.gitHubClient.Organizations.Get(executionContext, name)
	if getError != nil {
		if statusCodeOf(getError) == http.StatusNotFound {
			return remote.Organization{}, fmt.Errorf(organizationNotFoundTemplateConstant, scrumerrors.ErrOrganizationNotFound, name)
		}
		return remote.Organization{}, scrumerrors.TransportError{Operation: resolveOrganizationOperationConstant, Cause: getError}
	}
	return remote.Organization{ID: strconv.FormatInt(organization.GetID(), 10), Name: organization.GetLogin()}, nil
}

// ListTeams returns every team of the organization.
func (client *Client) ListTeams(executionContext context.Context, organization string) ([]remote.Team, error) {
	teams := make([]remote.Team, 0)
	listOptions := &github.ListOptions{PerPage: listPageSizeConstant}
	for {
		page, response, listError := client.gitHubClient.Teams.ListTeams(executionContext, organization, listOptions)
		if listError != nil {
			return nil, scrumerrors.TransportError{Operation: listTeamsOperationConstant, Cause: listError}
		}
		for _, team := range page {
			teams = append(teams, convertTeam(team))
		}
		if response == nil || response.NextPage == 0 {
			return teams, nil
		}
		listOptions.Page = response.NextPage
	}
}

// ListRepositories returns every repository of the organization.
func (client *Client) ListRepositories(executionContext context.Context, organization string) ([]remote.Repository, error) {
	repositories := make([]remote.Repository, 0)
	listOptions := &github.RepositoryListByOrgOptions{ListOptions: github.ListOptions{PerPage: listPageSizeConstant}}
	for {
		page, response, listError := client.gitHubClient.Repositories.ListByOrg(executionContext, organization, listOptions)
		if listError != nil {
			return nil, scrumerrors.TransportError{Operation: listRepositoriesOperationConstant, Cause: listError}
		}
		for _, repository := range page {
			repositories = append(repositories, convertRepository(repository))
		}
		if response == nil || response.NextPage == 0 {
			return repositories, nil
		}
		listOptions.Page = response.NextPage
	}
}

// CreateRepository creates a private repository without a wiki.
func (client *Client) CreateRepository(executionContext context.Context, organization string, name string) (remote.Repository, reconcile.Outcome) {
	repositoryRequest := &github.Repository{
		Name:    github.String(name),
		Private: github.Bool(true),
		HasWiki: github.Bool(false),
	}
	repository, _, createError := client.gitHubClient.Repositories.Create(executionContext, organization, repositoryRequest)
	if createError != nil {
		return remote.Repository{}, mutationOutcome(createRepositoryOperationConstant, createError, http.StatusUnprocessableEntity, alreadyExistsNoteConstant)
	}
	return convertRepository(repository), reconcile.Succeeded()
}

// DeleteRepository removes organization/name.
func (client *Client) DeleteRepository(executionContext context.Context, organization string, name string) reconcile.Outcome {
	_, deleteError := client.gitHubClient.Repositories.Delete(executionContext, organization, name)
	if deleteError != nil {
		return mutationOutcome(deleteRepositoryOperationConstant, deleteError, http.StatusNotFound, doesNotExistNoteConstant)
	}
	return reconcile.Succeeded()
}

// CreateTeam creates a team granted permission on the "owner/name" repositories, then
// re-applies the permission because team creation does not always honor it.
func (client *Client) CreateTeam(executionContext context.Context, organization string, name string, repositoryNames []string, permission Permission) (remote.Team, reconcile.Outcome) {
	teamRequest := github.NewTeam{
		Name:       name,
		RepoNames:  repositoryNames,
		Permission: github.String(string(permission)),
	}
	team, _, createError := client.gitHubClient.Teams.CreateTeam(executionContext, organization, teamRequest)
	if createError != nil {
		return remote.Team{}, mutationOutcome(createTeamOperationConstant, createError, http.StatusUnprocessableEntity, alreadyExistsNoteConstant)
	}

	editRequest := github.NewTeam{Name: name, Permission: github.String(string(permission))}
	if _, _, editError := client.gitHubClient.Teams.EditTeamBySlug(executionContext, organization, team.GetSlug(), editRequest, false); editError != nil {
		return convertTeam(team), reconcile.Failed(scrumerrors.TransportError{Operation: editTeamOperationConstant, Cause: editError})
	}
	return convertTeam(team), reconcile.Succeeded()
}

// DeleteTeam removes the team identified by slug.
func (client *Client) DeleteTeam(executionContext context.Context, organization string, slug string) reconcile.Outcome {
	_, deleteError := client.gitHubClient.Teams.DeleteTeamBySlug(executionContext, organization, slug)
	if deleteError != nil {
		return mutationOutcome(deleteTeamOperationConstant, deleteError, http.StatusNotFound, doesNotExistNoteConstant)
	}
	return reconcile.Succeeded()
}

// GrantTeamRepository gives the team access to organization/repository. An empty permission keeps the team default.
func (client *Client) GrantTeamRepository(executionContext context.Context, organization string, slug string, repository string, permission Permission) reconcile.Outcome {
	grantOptions := &github.TeamAddTeamRepoOptions{Permission: string(permission)}
	_, grantError := client.gitHubClient.Teams.AddTeamRepoBySlug(executionContext, organization, slug, organization, repository, grantOptions)
	if grantError != nil {
		return reconcile.Failed(scrumerrors.TransportError{Operation: grantTeamRepositoryOperationConstant, Cause: grantError})
	}
	return reconcile.Succeeded()
}

// ListTeamMembers returns every member of the team.
func (client *Client) ListTeamMembers(executionContext context.Context, organization string, slug string) ([]remote.Member, error) {
	members := make([]remote.Member, 0)
	listOptions := &github.TeamListTeamMembersOptions{ListOptions: github.ListOptions{PerPage: listPageSizeConstant}}
	for {
		page, response, listError := client.gitHubClient.Teams.ListTeamMembersBySlug(executionContext, organization, slug, listOptions)
		if listError != nil {
			return nil, scrumerrors.TransportError{Operation: listTeamMembersOperationConstant, Cause: listError}
		}
		for _, user := range page {
			members = append(members, remote.Member{ID: strconv.FormatInt(user.GetID(), 10), Login: user.GetLogin()})
		}
		if response == nil || response.NextPage == 0 {
			return members, nil
		}
		listOptions.Page = response.NextPage
	}
}

// AddTeamMember adds login to the team as a regular member.
func (client *Client) AddTeamMember(executionContext context.Context, organization string, slug string, login string) reconcile.Outcome {
	membershipOptions := &github.TeamAddTeamMembershipOptions{Role: memberRoleConstant}
	_, _, addError := client.gitHubClient.Teams.AddTeamMembershipBySlug(executionContext, organization, slug, login, membershipOptions)
	if addError != nil {
		return reconcile.Failed(scrumerrors.TransportError{Operation: addTeamMemberOperationConstant, Cause: addError})
	}
	return reconcile.Succeeded()
}

// RemoveTeamMember removes login from the team.
func (client *Client) RemoveTeamMember(executionContext context.Context, organization string, slug string, login string) reconcile.Outcome {
	_, removeError := client.gitHubClient.Teams.RemoveTeamMembershipBySlug(executionContext, organization, slug, login)
	if removeError != nil {
		return mutationOutcome(removeTeamMemberOperationConstant, removeError, http.StatusNotFound, doesNotExistNoteConstant)
	}
	return reconcile.Succeeded()
}

// UserExists reports whether a GitHub account with login exists.
func (client *Client) UserExists(executionContext context.Context, login string) (bool, error) {
	_, _, getError := client.gitHubClient.Users.Get(executionContext, login)
	if getError == nil {
		return true, nil
	}
	if statusCodeOf(getError) == http.StatusNotFound {
		return false, nil
	}
	return false, scrumerrors.TransportError{Operation: userExistsOperationConstant, Cause: getError}
}

func mutationOutcome(operation string, cause error, idempotentStatusCode int, note string) reconcile.Outcome {
	if statusCodeOf(cause) == idempotentStatusCode {
		return reconcile.AlreadyInDesiredState(note)
	}
	return reconcile.Failed(scrumerrors.TransportError{Operation: operation, Cause: cause})
}

func statusCodeOf(candidate error) int {
	var errorResponse *github.ErrorResponse
	if errors.As(candidate, &errorResponse) && errorResponse.Response != nil {
		return errorResponse.Response.StatusCode
	}
	return 0
}

func convertTeam(team *github.Team) remote.Team {
	return remote.Team{ID: team.GetID(), Slug: team.GetSlug(), Name: team.GetName()}
}

func convertRepository(repository *github.Repository) remote.Repository {
	return remote.Repository{ID: repository.GetID(), Name: repository.GetName(), FullName: repository.GetFullName()}
}
