package trellosync

import (
	"fmt"
	"strings"
)

const (
	authKeyKeyConstant               = "auth_key"
	authTokenKeyConstant             = "auth_token"
	organizationKeyConstant          = "organization"
	baseURLKeyConstant               = "base_url"
	boardAdminsKeyConstant           = "board_admins"
	boardPatternKeyConstant          = "board_pattern"
	boardAdminsGroupKeyConstant      = "board_admins_group"
	boardListsKeyConstant            = "board_lists"
	applicationNameKeyConstant       = "application_name"
	tokenExpirationKeyConstant       = "token_expiration"
	pruneMembersKeyConstant          = "prune_members"
	configurationKeyTemplateConstant = "%s.%s"
	defaultOrganizationConstant      = "example.org"
	defaultBoardAdminsConstant       = "example"
	defaultBoardPatternConstant      = "example.g%02d"
	defaultBoardAdminsGroupConstant  = "0"
	defaultApplicationNameConstant   = "scrum-tools"
	defaultTokenExpirationConstant   = "30days"
)

// DefaultBoardLists are the lists every board receives unless configured otherwise.
var DefaultBoardLists = []string{"Product Backlog", "To Do", "Doing", "Done"}

// Configuration mirrors the trello section.
type Configuration struct {
	AuthKey          string   `mapstructure:"auth_key"`
	AuthToken        string   `mapstructure:"auth_token"`
	Organization     string   `mapstructure:"organization"`
	BaseURL          string   `mapstructure:"base_url"`
	BoardAdmins      string   `mapstructure:"board_admins"`
	BoardPattern     string   `mapstructure:"board_pattern"`
	BoardAdminsGroup string   `mapstructure:"board_admins_group"`
	BoardLists       []string `mapstructure:"board_lists"`
	ApplicationName  string   `mapstructure:"application_name"`
	TokenExpiration  string   `mapstructure:"token_expiration"`
	PruneMembers     bool     `mapstructure:"prune_members"`
}

// DefaultConfiguration supplies the stock trello settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Organization:     defaultOrganizationConstant,
		BoardAdmins:      defaultBoardAdminsConstant,
		BoardPattern:     defaultBoardPatternConstant,
		BoardAdminsGroup: defaultBoardAdminsGroupConstant,
		BoardLists:       append([]string(nil), DefaultBoardLists...),
		ApplicationName:  defaultApplicationNameConstant,
		TokenExpiration:  defaultTokenExpirationConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	values := map[string]any{
		authKeyKeyConstant:          defaults.AuthKey,
		authTokenKeyConstant:        defaults.AuthToken,
		organizationKeyConstant:     defaults.Organization,
		baseURLKeyConstant:          defaults.BaseURL,
		boardAdminsKeyConstant:      defaults.BoardAdmins,
		boardPatternKeyConstant:     defaults.BoardPattern,
		boardAdminsGroupKeyConstant: defaults.BoardAdminsGroup,
		boardListsKeyConstant:       defaults.BoardLists,
		applicationNameKeyConstant:  defaults.ApplicationName,
		tokenExpirationKeyConstant:  defaults.TokenExpiration,
		pruneMembersKeyConstant:     defaults.PruneMembers,
	}

	prefixed := make(map[string]any, len(values))
	for key, value := range values {
		prefixed[fmt.Sprintf(configurationKeyTemplateConstant, prefix, key)] = value
	}
	return prefixed
}

// Sanitize trims values and drops blank or repeated list names while keeping their order.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := Configuration{
		AuthKey:          strings.TrimSpace(configuration.AuthKey),
		AuthToken:        strings.TrimSpace(configuration.AuthToken),
		Organization:     strings.TrimSpace(configuration.Organization),
		BaseURL:          strings.TrimSpace(configuration.BaseURL),
		BoardAdmins:      strings.TrimSpace(configuration.BoardAdmins),
		BoardPattern:     strings.TrimSpace(configuration.BoardPattern),
		BoardAdminsGroup: strings.TrimSpace(configuration.BoardAdminsGroup),
		ApplicationName:  strings.TrimSpace(configuration.ApplicationName),
		TokenExpiration:  strings.TrimSpace(configuration.TokenExpiration),
		PruneMembers:     configuration.PruneMembers,
	}

	seenLists := make(map[string]struct{}, len(configuration.BoardLists))
	sanitized.BoardLists = make([]string, 0, len(configuration.BoardLists))
	for _, listName := range configuration.BoardLists {
		trimmedListName := strings.TrimSpace(listName)
		if len(trimmedListName) == 0 {
			continue
		}
		if _, seen := seenLists[trimmedListName]; seen {
			continue
		}
		seenLists[trimmedListName] = struct{}{}
		sanitized.BoardLists = append(sanitized.BoardLists, trimmedListName)
	}

	if len(sanitized.ApplicationName) == 0 {
		sanitized.ApplicationName = defaultApplicationNameConstant
	}
	if len(sanitized.TokenExpiration) == 0 {
		sanitized.TokenExpiration = defaultTokenExpirationConstant
	}
	return sanitized
}
