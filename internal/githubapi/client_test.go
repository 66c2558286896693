package githubapi_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/githubapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
)

const (
	testOrganizationConstant            = "acme"
	testTokenConstant                   = "secret-token"
	testAuthorizationHeaderConstant     = "Bearer secret-token"
	githubClientSubtestTemplateConstant = "%d_%s"
)

func newTestClient(testInstance *testing.T, handler http.Handler) *githubapi.Client {
	testInstance.Helper()
	server := httptest.NewServer(handler)
	testInstance.Cleanup(server.Close)

	client, clientError := githubapi.NewClient(testTokenConstant, server.URL)
	require.NoError(testInstance, clientError)
	return client
}

func writeJSON(testInstance *testing.T, responseWriter http.ResponseWriter, statusCode int, payload any) {
	testInstance.Helper()
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	require.NoError(testInstance, json.NewEncoder(responseWriter).Encode(payload))
}

func TestClientResolveOrganization(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/acme", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, testAuthorizationHeaderConstant, request.Header.Get("Authorization"))
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": 42, "login": testOrganizationConstant})
	})
	mux.HandleFunc("GET /orgs/missing", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	client := newTestClient(testInstance, mux)

	organization, resolveError := client.ResolveOrganization(context.Background(), testOrganizationConstant)
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "42", organization.ID)
	require.Equal(testInstance, testOrganizationConstant, organization.Name)

	_, missingError := client.ResolveOrganization(context.Background(), "missing")
	require.ErrorIs(testInstance, missingError, scrumerrors.ErrOrganizationNotFound)
}

func TestClientListTeamsFollowsPagination(testInstance *testing.T) {
	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/acme/teams", func(responseWriter http.ResponseWriter, request *http.Request) {
		if request.URL.Query().Get("page") == "2" {
			writeJSON(testInstance, responseWriter, http.StatusOK, []map[string]any{{"id": 2, "slug": "team-b", "name": "team-b"}})
			return
		}
		responseWriter.Header().Set("Link", fmt.Sprintf("<%s/orgs/acme/teams?page=2>; rel=\"next\"", serverURL))
		writeJSON(testInstance, responseWriter, http.StatusOK, []map[string]any{{"id": 1, "slug": "team-a", "name": "team-a"}})
	})
	server := httptest.NewServer(mux)
	testInstance.Cleanup(server.Close)
	serverURL = server.URL

	client, clientError := githubapi.NewClient(testTokenConstant, server.URL)
	require.NoError(testInstance, clientError)

	teams, listError := client.ListTeams(context.Background(), testOrganizationConstant)
	require.NoError(testInstance, listError)
	require.Len(testInstance, teams, 2)
	require.Equal(testInstance, "team-a", teams[0].Slug)
	require.Equal(testInstance, "team-b", teams[1].Name)
}

func TestClientListFailuresAreTransportErrors(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/acme/repos", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusInternalServerError, map[string]any{"message": "boom"})
	})
	client := newTestClient(testInstance, mux)

	_, listError := client.ListRepositories(context.Background(), testOrganizationConstant)
	require.ErrorAs(testInstance, listError, new(scrumerrors.TransportError))
}

func TestClientCreateRepositoryOutcomes(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusCode     int
		expectedStatus reconcile.Status
	}{
		{name: "created", statusCode: http.StatusCreated, expectedStatus: reconcile.StatusSucceeded},
		{name: "already exists", statusCode: http.StatusUnprocessableEntity, expectedStatus: reconcile.StatusAlreadyInDesiredState},
		{name: "server failure", statusCode: http.StatusInternalServerError, expectedStatus: reconcile.StatusFailed},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(githubClientSubtestTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /orgs/acme/repos", func(responseWriter http.ResponseWriter, request *http.Request) {
				var payload map[string]any
				require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&payload))
				require.Equal(testInstance, "example.g01", payload["name"])
				require.Equal(testInstance, true, payload["private"])
				require.Equal(testInstance, false, payload["has_wiki"])
				if testCase.statusCode != http.StatusCreated {
					writeJSON(testInstance, responseWriter, testCase.statusCode, map[string]any{"message": "nope"})
					return
				}
				writeJSON(testInstance, responseWriter, http.StatusCreated, map[string]any{"id": 5, "name": "example.g01", "full_name": "acme/example.g01"})
			})
			client := newTestClient(testInstance, mux)

			repository, outcome := client.CreateRepository(context.Background(), testOrganizationConstant, "example.g01")
			require.Equal(testInstance, testCase.expectedStatus, outcome.Status)
			if testCase.expectedStatus == reconcile.StatusSucceeded {
				require.Equal(testInstance, "acme/example.g01", repository.FullName)
			}
			if testCase.expectedStatus == reconcile.StatusFailed {
				require.Contains(testInstance, outcome.Reason, "GitHub CreateRepository failed")
			}
		})
	}
}

func TestClientDeleteMissingIsAlreadyInDesiredState(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /repos/acme/gone", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	mux.HandleFunc("DELETE /orgs/acme/teams/team-01", func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("DELETE /orgs/acme/teams/team-01/memberships/bob", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	client := newTestClient(testInstance, mux)

	require.Equal(testInstance, reconcile.StatusAlreadyInDesiredState, client.DeleteRepository(context.Background(), testOrganizationConstant, "gone").Status)
	require.Equal(testInstance, reconcile.StatusSucceeded, client.DeleteTeam(context.Background(), testOrganizationConstant, "team-01").Status)
	require.Equal(testInstance, reconcile.StatusAlreadyInDesiredState, client.RemoveTeamMember(context.Background(), testOrganizationConstant, "team-01", "bob").Status)
}

func TestClientCreateTeamReappliesPermission(testInstance *testing.T) {
	editCalls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orgs/acme/teams", func(responseWriter http.ResponseWriter, request *http.Request) {
		var payload map[string]any
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&payload))
		require.Equal(testInstance, "example.g01", payload["name"])
		require.Equal(testInstance, "push", payload["permission"])
		require.Equal(testInstance, []any{"acme/example.g01"}, payload["repo_names"])
		writeJSON(testInstance, responseWriter, http.StatusCreated, map[string]any{"id": 9, "slug": "example-g01", "name": "example.g01"})
	})
	mux.HandleFunc("PATCH /orgs/acme/teams/example-g01", func(responseWriter http.ResponseWriter, request *http.Request) {
		editCalls++
		var payload map[string]any
		require.NoError(testInstance, json.NewDecoder(request.Body).Decode(&payload))
		require.Equal(testInstance, "push", payload["permission"])
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": 9, "slug": "example-g01", "name": "example.g01"})
	})
	client := newTestClient(testInstance, mux)

	team, outcome := client.CreateTeam(context.Background(), testOrganizationConstant, "example.g01", []string{"acme/example.g01"}, githubapi.PermissionPush)
	require.Equal(testInstance, reconcile.StatusSucceeded, outcome.Status)
	require.Equal(testInstance, "example-g01", team.Slug)
	require.Equal(testInstance, 1, editCalls)
}

func TestClientCreateTeamReturnsTeamWhenPermissionEditFails(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /orgs/acme/teams", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusCreated, map[string]any{"id": 9, "slug": "example-g01", "name": "example.g01"})
	})
	mux.HandleFunc("PATCH /orgs/acme/teams/example-g01", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusInternalServerError, map[string]any{"message": "boom"})
	})
	client := newTestClient(testInstance, mux)

	team, outcome := client.CreateTeam(context.Background(), testOrganizationConstant, "example.g01", []string{"acme/example.g01"}, githubapi.PermissionPush)
	require.True(testInstance, outcome.IsFailure())
	require.Equal(testInstance, "example-g01", team.Slug)
}

func TestClientMembershipAndUsers(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /orgs/acme/teams/team-01/members", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, []map[string]any{{"id": 1, "login": "alice"}, {"id": 2, "login": "carol"}})
	})
	mux.HandleFunc("PUT /orgs/acme/teams/team-01/memberships/bob", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"state": "active", "role": "member"})
	})
	mux.HandleFunc("PUT /orgs/acme/teams/team-01/repos/acme/example.g01", func(responseWriter http.ResponseWriter, request *http.Request) {
		responseWriter.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /users/alice", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": 1, "login": "alice"})
	})
	mux.HandleFunc("GET /users/ghost", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusNotFound, map[string]any{"message": "Not Found"})
	})
	client := newTestClient(testInstance, mux)

	members, listError := client.ListTeamMembers(context.Background(), testOrganizationConstant, "team-01")
	require.NoError(testInstance, listError)
	require.Len(testInstance, members, 2)
	require.Equal(testInstance, "carol", members[1].Login)

	require.Equal(testInstance, reconcile.StatusSucceeded, client.AddTeamMember(context.Background(), testOrganizationConstant, "team-01", "bob").Status)
	require.Equal(testInstance, reconcile.StatusSucceeded, client.GrantTeamRepository(context.Background(), testOrganizationConstant, "team-01", "example.g01", "").Status)

	exists, existsError := client.UserExists(context.Background(), "alice")
	require.NoError(testInstance, existsError)
	require.True(testInstance, exists)

	ghostExists, ghostError := client.UserExists(context.Background(), "ghost")
	require.NoError(testInstance, ghostError)
	require.False(testInstance, ghostExists)
}
