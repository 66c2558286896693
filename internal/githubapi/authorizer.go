package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v66/github"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
)

const (
	authorizationsEndpointConstant                = "authorizations"
	authorizeOperationConstant                    = "GitHub Authorize"
	oneTimePasswordErrorTemplateConstant          = "unable to read two-factor code: %w"
	missingOneTimePasswordProviderMessageConstant = "two-factor authentication required but no code provider configured"
)

// OneTimePasswordProvider supplies a two-factor code when GitHub demands one.
type OneTimePasswordProvider func() (string, error)

// Authorization is the personal access token issued by GitHub.
type Authorization struct {
	ID    int64
	Token string
}

type authorizationRequest struct {
	Scopes []string `json:"scopes"`
	Note   string   `json:"note"`
}

// Authorizer exchanges a username and password for an access token.
type Authorizer struct {
	baseURL   string
	transport http.RoundTripper
}

// NewAuthorizer constructs an Authorizer. An empty baseURL targets api.github.com.
func NewAuthorizer(baseURL string) *Authorizer {
	return &Authorizer{baseURL: baseURL}
}

// Authorize requests a token with the given scopes. When GitHub answers with a two-factor
// challenge the provider is asked for a code and the request is retried once.
func (authorizer *Authorizer) Authorize(executionContext context.Context, username string, password string, oneTimePasswordProvider OneTimePasswordProvider, note string, scopes []string) (Authorization, error) {
	basicAuthTransport := &github.BasicAuthTransport{
		Username:  username,
		Password:  password,
		Transport: authorizer.transport,
	}
	gitHubClient := github.NewClient(basicAuthTransport.Client())
	if applyError := applyBaseURL(gitHubClient, authorizer.baseURL); applyError != nil {
		return Authorization{}, applyError
	}

	payload := authorizationRequest{Scopes: scopes, Note: note}

	authorization, requestError := requestAuthorization(executionContext, gitHubClient, payload)
	var twoFactorError *github.TwoFactorAuthError
	if errors.As(requestError, &twoFactorError) {
		if oneTimePasswordProvider == nil {
			return Authorization{}, errors.New(missingOneTimePasswordProviderMessageConstant)
		}
		oneTimePassword, providerError := oneTimePasswordProvider()
		if providerError != nil {
			return Authorization{}, fmt.Errorf(oneTimePasswordErrorTemplateConstant, providerError)
		}
		basicAuthTransport.OTP = oneTimePassword
		authorization, requestError = requestAuthorization(executionContext, gitHubClient, payload)
	}
	if requestError != nil {
		return Authorization{}, scrumerrors.TransportError{Operation: authorizeOperationConstant, Cause: requestError}
	}

	return Authorization{ID: authorization.GetID(), Token: authorization.GetToken()}, nil
}

func requestAuthorization(executionContext context.Context, gitHubClient *github.Client, payload authorizationRequest) (*github.Authorization, error) {
	request, requestError := gitHubClient.NewRequest(http.MethodPost, authorizationsEndpointConstant, payload)
	if requestError != nil {
		return nil, requestError
	}
	authorization := new(github.Authorization)
	if _, doError := gitHubClient.Do(executionContext, request, authorization); doError != nil {
		return nil, doError
	}
	return authorization, nil
}
