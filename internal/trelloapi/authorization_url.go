package trelloapi

import (
	"net/url"
	"strings"
)

const (
	authorizationEndpointConstant     = "https://trello.com/1/authorize"
	keyParameterConstant          = "key"
	nameParameterConstant         = "name"
	expirationParameterConstant   = "expiration"
	responseTypeParameterConstant = "response_type"
	scopeParameterConstant        = "scope"
	tokenResponseTypeConstant     = "token"
	readWriteScopeConstant        = "read,write"
	queryStartConstant            = "?"
)

// AuthorizationURL builds the page where the operator grants applicationName a read and
// write token valid for expiration (for example "30days" or "never").
func AuthorizationURL(key string, applicationName string, expiration string) string {
	parameters := url.Values{}
	parameters.Set(keyParameterConstant, strings.TrimSpace(key))
	parameters.Set(nameParameterConstant, applicationName)
	parameters.Set(expirationParameterConstant, expiration)
	parameters.Set(responseTypeParameterConstant, tokenResponseTypeConstant)
	parameters.Set(scopeParameterConstant, readWriteScopeConstant)
	return authorizationEndpointConstant + queryStartConstant + parameters.Encode()
}
