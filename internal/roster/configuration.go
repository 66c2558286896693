package roster

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
	pathutils "github.com/TU-Berlin-DIMA/scrum-tools/internal/utils/path"
)

var rosterConfigurationHomeDirectoryExpander = pathutils.NewHomeExpander()

const (
	usersFileKeyConstant             = "users_file"
	skipFirstKeyConstant             = "users_file_skip_first"
	delimiterKeyConstant             = "users_file_delimiter"
	quoteCharacterKeyConstant        = "users_file_escape_char"
	encodingKeyConstant              = "users_file_encoding"
	schemaKeyConstant                = "users_schema"
	schemaKeyIDConstant              = "users_schema_key_id"
	schemaKeyGroupConstant           = "users_schema_key_group"
	schemaKeyGitHubConstant          = "users_schema_key_github"
	schemaKeyTrelloConstant          = "users_schema_key_trello"
	defaultSchemaConstant            = "ID;Group;Github;Trello"
	defaultDelimiterValueConstant    = ";"
	configurationKeyTemplateConstant = "%s.%s"
	singleRuneTemplateConstant       = "core.%s must be a single character, got %q"
	schemaErrorTemplateConstant      = "invalid core.users_schema: %w"
	coreSectionNameConstant          = "core"
	usersFileRemediationConstant     = "scrum-tools <command> --users-file FILE"
)

// Configuration mirrors the core section: where the roster lives and how to read it.
type Configuration struct {
	UsersFile      string `mapstructure:"users_file"`
	SkipFirstRow   bool   `mapstructure:"users_file_skip_first"`
	Delimiter      string `mapstructure:"users_file_delimiter"`
	QuoteCharacter string `mapstructure:"users_file_escape_char"`
	Encoding       string `mapstructure:"users_file_encoding"`
	Schema         string `mapstructure:"users_schema"`
	KeyID          string `mapstructure:"users_schema_key_id"`
	KeyGroup       string `mapstructure:"users_schema_key_group"`
	KeyGitHub      string `mapstructure:"users_schema_key_github"`
	KeyTrello      string `mapstructure:"users_schema_key_trello"`
}

// DefaultConfiguration returns the stock core settings.
func DefaultConfiguration() Configuration {
	return Configuration{
		Delimiter: defaultDelimiterValueConstant,
		Encoding:  defaultEncodingNameConstant,
		Schema:    defaultSchemaConstant,
		KeyID:     "ID",
		KeyGroup:  "Group",
		KeyGitHub: "Github",
		KeyTrello: "Trello",
	}
}

// DefaultConfigurationValues exposes the defaults as viper keys rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	values := map[string]any{
		usersFileKeyConstant:      defaults.UsersFile,
		skipFirstKeyConstant:      defaults.SkipFirstRow,
		delimiterKeyConstant:      defaults.Delimiter,
		quoteCharacterKeyConstant: defaults.QuoteCharacter,
		encodingKeyConstant:       defaults.Encoding,
		schemaKeyConstant:         defaults.Schema,
		schemaKeyIDConstant:       defaults.KeyID,
		schemaKeyGroupConstant:    defaults.KeyGroup,
		schemaKeyGitHubConstant:   defaults.KeyGitHub,
		schemaKeyTrelloConstant:   defaults.KeyTrello,
	}

	prefixed := make(map[string]any, len(values))
	for key, value := range values {
		prefixed[fmt.Sprintf(configurationKeyTemplateConstant, prefix, key)] = value
	}
	return prefixed
}

// Sanitize trims values and expands a leading tilde in the roster path.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.UsersFile = rosterConfigurationHomeDirectoryExpander.Expand(strings.TrimSpace(configuration.UsersFile))
	sanitized.Encoding = strings.TrimSpace(configuration.Encoding)
	sanitized.Schema = strings.TrimSpace(configuration.Schema)
	sanitized.KeyID = strings.TrimSpace(configuration.KeyID)
	sanitized.KeyGroup = strings.TrimSpace(configuration.KeyGroup)
	sanitized.KeyGitHub = strings.TrimSpace(configuration.KeyGitHub)
	sanitized.KeyTrello = strings.TrimSpace(configuration.KeyTrello)
	return sanitized
}

// NewLoader validates the configuration and builds a Loader.
func (configuration Configuration) NewLoader() (*Loader, error) {
	schema, schemaError := configuration.BuildSchema()
	if schemaError != nil {
		return nil, schemaError
	}
	format, formatError := configuration.BuildFormat()
	if formatError != nil {
		return nil, formatError
	}
	return NewLoader(schema, format), nil
}

// LoadRoster reads the roster at pathOverride, falling back to the configured users_file.
func (configuration Configuration) LoadRoster(pathOverride string) (Roster, error) {
	sanitized := configuration.Sanitize()
	usersFilePath := rosterConfigurationHomeDirectoryExpander.Expand(strings.TrimSpace(pathOverride))
	if len(usersFilePath) == 0 {
		usersFilePath = sanitized.UsersFile
	}
	if missingError := scrumerrors.RequireValues(coreSectionNameConstant, usersFileRemediationConstant, map[string]string{usersFileKeyConstant: usersFilePath}); missingError != nil {
		return Roster{}, missingError
	}

	loader, loaderError := sanitized.NewLoader()
	if loaderError != nil {
		return Roster{}, loaderError
	}
	return loader.Load(usersFilePath)
}

// BuildSchema parses the configured schema and key mapping.
func (configuration Configuration) BuildSchema() (Schema, error) {
	schema, schemaError := ParseSchema(configuration.Schema, Keys{
		ID:           configuration.KeyID,
		Group:        configuration.KeyGroup,
		HostAccount:  configuration.KeyGitHub,
		BoardAccount: configuration.KeyTrello,
	})
	if schemaError != nil {
		return Schema{}, fmt.Errorf(schemaErrorTemplateConstant, schemaError)
	}
	return schema, nil
}

// BuildFormat converts the textual delimiter and quote settings into a Format.
func (configuration Configuration) BuildFormat() (Format, error) {
	delimiter, delimiterError := parseOptionalRune(delimiterKeyConstant, configuration.Delimiter)
	if delimiterError != nil {
		return Format{}, delimiterError
	}
	quoteCharacter, quoteError := parseOptionalRune(quoteCharacterKeyConstant, configuration.QuoteCharacter)
	if quoteError != nil {
		return Format{}, quoteError
	}
	return Format{
		Delimiter:      delimiter,
		QuoteCharacter: quoteCharacter,
		SkipFirstRow:   configuration.SkipFirstRow,
		Encoding:       configuration.Encoding,
	}, nil
}

func parseOptionalRune(key string, value string) (rune, error) {
	if len(value) == 0 {
		return 0, nil
	}
	if utf8.RuneCountInString(value) != 1 {
		return 0, fmt.Errorf(singleRuneTemplateConstant, key, value)
	}
	parsedRune, _ := utf8.DecodeRuneInString(value)
	return parsedRune, nil
}
