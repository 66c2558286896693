package trellosync

import (
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/trelloapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
)

const (
	authorizationHeaderConstant             = "Please follow the link below and update these entries in the trello section of your scrum-tools config:"
	authorizationFileHeaderTemplateConstant = "Please follow the link below and update these entries in the trello section of %s:"
	authorizationKeyLineTemplateConstant    = "  auth_key: %s"
	authorizationTokenPlaceholderConstant   = "  auth_token: <generated_token>"
	authorizationURLTemplateConstant        = "URL: %s"
)

// AuthorizationInstructions prints the config lines and the page where the operator
// generates a token. configuredKey is echoed as written in the config so references such
// as env:NAME survive the copy; resolvedKey goes into the URL. A non-empty
// configurationFilePath is named in the header.
func AuthorizationInstructions(reporter *ui.StatusReporter, configuration Configuration, configurationFilePath string, configuredKey string, resolvedKey string) {
	sanitized := configuration.Sanitize()
	if len(configurationFilePath) > 0 {
		reporter.Info(authorizationFileHeaderTemplateConstant, configurationFilePath)
	} else {
		reporter.Info(authorizationHeaderConstant)
	}
	reporter.Info(authorizationKeyLineTemplateConstant, configuredKey)
	reporter.Info(authorizationTokenPlaceholderConstant)
	reporter.Info(authorizationURLTemplateConstant, trelloapi.AuthorizationURL(resolvedKey, sanitized.ApplicationName, sanitized.TokenExpiration))
}
