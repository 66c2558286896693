package trelloapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/trelloapi"
)

const (
	testKeyConstant   = "app-key"
	testTokenConstant = "user-token"
)

func newTestClient(testInstance *testing.T, handler http.Handler) *trelloapi.Client {
	testInstance.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, testKeyConstant, request.URL.Query().Get("key"))
		require.Equal(testInstance, testTokenConstant, request.URL.Query().Get("token"))
		handler.ServeHTTP(responseWriter, request)
	}))
	testInstance.Cleanup(server.Close)
	return trelloapi.NewClient(testKeyConstant, testTokenConstant, server.URL+"/")
}

func writeJSON(testInstance *testing.T, responseWriter http.ResponseWriter, statusCode int, payload any) {
	testInstance.Helper()
	responseWriter.Header().Set("Content-Type", "application/json")
	responseWriter.WriteHeader(statusCode)
	require.NoError(testInstance, json.NewEncoder(responseWriter).Encode(payload))
}

func TestClientOrganizationAndBoards(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/acme", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": "org-1", "name": "acme"})
	})
	mux.HandleFunc("GET /organizations/missing", func(responseWriter http.ResponseWriter, request *http.Request) {
		http.Error(responseWriter, "model not found", http.StatusNotFound)
	})
	mux.HandleFunc("GET /organizations/acme/boards", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "open", request.URL.Query().Get("filter"))
		writeJSON(testInstance, responseWriter, http.StatusOK, []map[string]any{{"id": "b1", "name": "example.g01", "url": "https://trello.com/b/b1"}})
	})
	mux.HandleFunc("POST /boards", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "example.g02", request.URL.Query().Get("name"))
		require.Equal(testInstance, "org-1", request.URL.Query().Get("idOrganization"))
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": "b2", "name": "example.g02"})
	})
	client := newTestClient(testInstance, mux)

	organization, resolveError := client.ResolveOrganization(context.Background(), "acme")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, "org-1", organization.ID)

	_, missingError := client.ResolveOrganization(context.Background(), "missing")
	require.ErrorIs(testInstance, missingError, scrumerrors.ErrOrganizationNotFound)

	boards, listError := client.ListBoards(context.Background(), "acme")
	require.NoError(testInstance, listError)
	require.Len(testInstance, boards, 1)
	require.Equal(testInstance, "example.g01", boards[0].Name)
	require.Equal(testInstance, "https://trello.com/b/b1", boards[0].URL)

	board, outcome := client.CreateBoard(context.Background(), "org-1", "example.g02")
	require.Equal(testInstance, reconcile.StatusSucceeded, outcome.Status)
	require.Equal(testInstance, "b2", board.ID)
}

func TestClientListsMembersAndCards(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /boards/b1/lists", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, []map[string]any{{"id": "l1", "name": "To Do"}})
	})
	mux.HandleFunc("POST /lists", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "bottom", request.URL.Query().Get("pos"))
		require.Equal(testInstance, "b1", request.URL.Query().Get("idBoard"))
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": "l2", "name": request.URL.Query().Get("name")})
	})
	mux.HandleFunc("GET /boards/b1/members/admins", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, []map[string]any{{"id": "m1", "username": "prof"}})
	})
	mux.HandleFunc("PUT /boards/b1/members/alice_t", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "normal", request.URL.Query().Get("type"))
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": "b1"})
	})
	mux.HandleFunc("DELETE /boards/b1/members/m9", func(responseWriter http.ResponseWriter, request *http.Request) {
		http.Error(responseWriter, "member not found", http.StatusNotFound)
	})
	mux.HandleFunc("POST /cards", func(responseWriter http.ResponseWriter, request *http.Request) {
		require.Equal(testInstance, "l1", request.URL.Query().Get("idList"))
		require.Equal(testInstance, "Retro notes", request.URL.Query().Get("desc"))
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": "c1", "name": request.URL.Query().Get("name")})
	})
	client := newTestClient(testInstance, mux)

	lists, listError := client.ListLists(context.Background(), "b1")
	require.NoError(testInstance, listError)
	require.Equal(testInstance, "To Do", lists[0].Name)

	list, listOutcome := client.CreateList(context.Background(), "b1", "Done")
	require.Equal(testInstance, reconcile.StatusSucceeded, listOutcome.Status)
	require.Equal(testInstance, "Done", list.Name)

	admins, adminsError := client.ListBoardMembers(context.Background(), "b1", trelloapi.MemberFilterAdmins)
	require.NoError(testInstance, adminsError)
	require.Equal(testInstance, "prof", admins[0].Login)

	require.Equal(testInstance, reconcile.StatusSucceeded, client.AddBoardMember(context.Background(), "b1", "alice_t", trelloapi.MemberTypeNormal).Status)
	require.Equal(testInstance, reconcile.StatusAlreadyInDesiredState, client.RemoveBoardMember(context.Background(), "b1", "m9").Status)

	card, cardOutcome := client.CreateCard(context.Background(), "l1", "Sprint 1", "Retro notes")
	require.Equal(testInstance, reconcile.StatusSucceeded, cardOutcome.Status)
	require.Equal(testInstance, "Sprint 1", card.Name)
}

func TestClientMemberExists(testInstance *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /members/alice_t", func(responseWriter http.ResponseWriter, request *http.Request) {
		writeJSON(testInstance, responseWriter, http.StatusOK, map[string]any{"id": "m1", "username": "alice_t"})
	})
	mux.HandleFunc("GET /members/ghost", func(responseWriter http.ResponseWriter, request *http.Request) {
		http.Error(responseWriter, "model not found", http.StatusNotFound)
	})
	mux.HandleFunc("GET /members/broken", func(responseWriter http.ResponseWriter, request *http.Request) {
		http.Error(responseWriter, "boom", http.StatusInternalServerError)
	})
	client := newTestClient(testInstance, mux)

	exists, existsError := client.MemberExists(context.Background(), "alice_t")
	require.NoError(testInstance, existsError)
	require.True(testInstance, exists)

	ghostExists, ghostError := client.MemberExists(context.Background(), "ghost")
	require.NoError(testInstance, ghostError)
	require.False(testInstance, ghostExists)

	_, brokenError := client.MemberExists(context.Background(), "broken")
	require.ErrorAs(testInstance, brokenError, new(scrumerrors.TransportError))
}

func TestAuthorizationURL(testInstance *testing.T) {
	authorizationURL := trelloapi.AuthorizationURL(" app-key ", "scrum-tools", "30days")

	parsedURL, parseError := url.Parse(authorizationURL)
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, "trello.com", parsedURL.Host)
	require.Equal(testInstance, "/1/authorize", parsedURL.Path)
	require.Equal(testInstance, "app-key", parsedURL.Query().Get("key"))
	require.Equal(testInstance, "scrum-tools", parsedURL.Query().Get("name"))
	require.Equal(testInstance, "30days", parsedURL.Query().Get("expiration"))
	require.Equal(testInstance, "read,write", parsedURL.Query().Get("scope"))
	require.Equal(testInstance, "token", parsedURL.Query().Get("response_type"))
}
