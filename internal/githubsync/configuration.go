package githubsync

import (
	"fmt"
	"strings"
)

const (
	authIDKeyConstant                = "auth_id"
	authTokenKeyConstant             = "auth_token"
	organizationKeyConstant          = "organization"
	baseURLKeyConstant               = "base_url"
	teamAdminsKeyConstant            = "team_admins"
	teamAdminsGroupKeyConstant       = "team_admins_group"
	teamUsersKeyConstant             = "team_users"
	teamPatternKeyConstant           = "team_pattern"
	repoAdminsKeyConstant            = "repo_admins"
	repoUsersKeyConstant             = "repo_users"
	repoPatternKeyConstant           = "repo_pattern"
	configurationKeyTemplateConstant = "%s.%s"
	defaultOrganizationConstant      = "example.org"
	defaultTeamAdminsConstant        = "example.admins"
	defaultTeamAdminsGroupConstant   = "-1"
	defaultTeamUsersConstant         = "example.users"
	defaultGroupPatternConstant      = "example.g%02d"
	defaultRepositoryConstant        = "example"
)

// Configuration mirrors the github section.
type Configuration struct {
	AuthID          string `mapstructure:"auth_id"`
	AuthToken       string `mapstructure:"auth_token"`
	Organization    string `mapstructure:"organization"`
	BaseURL         string `mapstructure:"base_url"`
	TeamAdmins      string `mapstructure:"team_admins"`
	TeamAdminsGroup string `mapstructure:"team_admins_group"`
	TeamUsers       string `mapstructure:"team_users"`
	TeamPattern     string `mapstructure:"team_pattern"`
	RepoAdmins      string `mapstructure:"repo_admins"`
	RepoUsers       string `mapstructure:"repo_users"`
	RepoPattern     string `mapstructure:"repo_pattern"`
}

// DefaultConfiguration supplies the stock github settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Organization:    defaultOrganizationConstant,
		TeamAdmins:      defaultTeamAdminsConstant,
		TeamAdminsGroup: defaultTeamAdminsGroupConstant,
		TeamUsers:       defaultTeamUsersConstant,
		TeamPattern:     defaultGroupPatternConstant,
		RepoAdmins:      defaultRepositoryConstant,
		RepoUsers:       defaultRepositoryConstant,
		RepoPattern:     defaultGroupPatternConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	values := map[string]any{
		authIDKeyConstant:          defaults.AuthID,
		authTokenKeyConstant:       defaults.AuthToken,
		organizationKeyConstant:    defaults.Organization,
		baseURLKeyConstant:         defaults.BaseURL,
		teamAdminsKeyConstant:      defaults.TeamAdmins,
		teamAdminsGroupKeyConstant: defaults.TeamAdminsGroup,
		teamUsersKeyConstant:       defaults.TeamUsers,
		teamPatternKeyConstant:     defaults.TeamPattern,
		repoAdminsKeyConstant:      defaults.RepoAdmins,
		repoUsersKeyConstant:       defaults.RepoUsers,
		repoPatternKeyConstant:     defaults.RepoPattern,
	}

	prefixed := make(map[string]any, len(values))
	for key, value := range values {
		prefixed[fmt.Sprintf(configurationKeyTemplateConstant, prefix, key)] = value
	}
	return prefixed
}

// Sanitize trims every configured value.
func (configuration Configuration) Sanitize() Configuration {
	return Configuration{
		AuthID:          strings.TrimSpace(configuration.AuthID),
		AuthToken:       strings.TrimSpace(configuration.AuthToken),
		Organization:    strings.TrimSpace(configuration.Organization),
		BaseURL:         strings.TrimSpace(configuration.BaseURL),
		TeamAdmins:      strings.TrimSpace(configuration.TeamAdmins),
		TeamAdminsGroup: strings.TrimSpace(configuration.TeamAdminsGroup),
		TeamUsers:       strings.TrimSpace(configuration.TeamUsers),
		TeamPattern:     strings.TrimSpace(configuration.TeamPattern),
		RepoAdmins:      strings.TrimSpace(configuration.RepoAdmins),
		RepoUsers:       strings.TrimSpace(configuration.RepoUsers),
		RepoPattern:     strings.TrimSpace(configuration.RepoPattern),
	}
}
