// Package naming renders per-group resource names from printf-style patterns.
package naming

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	formattingErrorMarkerConstant  = "%!"
	nonIntegerGroupReasonConstant  = "group is not an integer"
	malformedPatternReasonConstant = "pattern must contain exactly one integer verb"
	patternErrorTemplateConstant   = "cannot render %q for group %q: %s"
)

// PatternError reports a group or pattern that cannot produce a name.
type PatternError struct {
	Pattern string
	Group   string
	Reason  string
}

// Error describes the rendering failure.
func (patternError PatternError) Error() string {
	return fmt.Sprintf(patternErrorTemplateConstant, patternError.Pattern, patternError.Group, patternError.Reason)
}

// Pattern is a printf template such as "scrum.g%02d" applied to a group's integer value.
type Pattern string

// Render produces the name for one group.
func (pattern Pattern) Render(group string) (string, error) {
	groupNumber, parseError := strconv.Atoi(strings.TrimSpace(group))
	if parseError != nil {
		return "", PatternError{Pattern: string(pattern), Group: group, Reason: nonIntegerGroupReasonConstant}
	}

	rendered := fmt.Sprintf(string(pattern), groupNumber)
	if strings.Contains(rendered, formattingErrorMarkerConstant) {
		return "", PatternError{Pattern: string(pattern), Group: group, Reason: malformedPatternReasonConstant}
	}
	return rendered, nil
}

// RenderAll renders every group in order and stops at the first failure.
func (pattern Pattern) RenderAll(groups []string) ([]string, error) {
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		name, renderError := pattern.Render(group)
		if renderError != nil {
			return nil, renderError
		}
		names = append(names, name)
	}
	return names, nil
}
