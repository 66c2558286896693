package evaltool

import (
	"fmt"
	"strings"
)

const (
	courseIDKeyConstant              = "course_id"
	groupPatternKeyConstant          = "group_pattern"
	configurationKeyTemplateConstant = "%s.%s"
	defaultCourseIDConstant          = 1000
	defaultGroupPatternConstant      = "example.g%02d"
)

// Configuration mirrors the evaltool section.
type Configuration struct {
	CourseID     int    `mapstructure:"course_id"`
	GroupPattern string `mapstructure:"group_pattern"`
}

// DefaultConfiguration supplies the stock evaltool settings.
func DefaultConfiguration() Configuration {
	return Configuration{CourseID: defaultCourseIDConstant, GroupPattern: defaultGroupPatternConstant}
}

// DefaultConfigurationValues exposes the defaults as viper keys rooted at prefix.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		fmt.Sprintf(configurationKeyTemplateConstant, prefix, courseIDKeyConstant):     defaults.CourseID,
		fmt.Sprintf(configurationKeyTemplateConstant, prefix, groupPatternKeyConstant): defaults.GroupPattern,
	}
}

// Sanitize trims the pattern and falls back to the default when it is blank.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.GroupPattern = strings.TrimSpace(configuration.GroupPattern)
	if len(sanitized.GroupPattern) == 0 {
		sanitized.GroupPattern = defaultGroupPatternConstant
	}
	return sanitized
}
