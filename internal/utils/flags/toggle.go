package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueCanonicalValueConstant  = "true"
	toggleFalseCanonicalValueConstant = "false"
	toggleTypeNameConstant            = "bool"
	toggleParseErrorTemplateConstant  = "invalid toggle value %q"
	toggleTruePlaceholderConstant     = "<YES|no>"
	toggleFalsePlaceholderConstant    = "<yes|NO>"
	toggleUsageEmptyTemplateConstant  = "`%s`"
	toggleUsageFullTemplateConstant   = "`%s` %s"
	longFlagPrefixConstant            = "--"
	shortFlagPrefixConstant           = "-"
	flagValueSeparatorConstant        = "="
	argumentTerminatorConstant        = "--"
)

var (
	toggleLiteralValues = map[string]bool{
		"true": true, "yes": true, "on": true, "1": true, "t": true, "y": true,
		"false": false, "no": false, "off": false, "0": false, "f": false, "n": false,
	}

	toggleRegistryMutex sync.RWMutex
	toggleRegistry      = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag that also accepts yes/no style values, either as
// "--flag=value" or, after NormalizeToggleArguments, as "--flag value".
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, shorthand string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	toggleValue := &toggleFlagValue{target: target}
	toggleValue.assign(defaultValue)
	flagSet.VarP(toggleValue, name, shorthand, usage)

	flag := flagSet.Lookup(name)
	if flag == nil {
		return
	}
	flag.NoOptDefVal = toggleTrueCanonicalValueConstant
	flag.Usage = formatToggleUsage(usage, defaultValue)

	toggleRegistryMutex.Lock()
	defer toggleRegistryMutex.Unlock()
	toggleRegistry[longFlagPrefixConstant+name] = struct{}{}
	if len(shorthand) > 0 {
		toggleRegistry[shortFlagPrefixConstant+shorthand] = struct{}{}
	}
}

// NormalizeToggleArguments joins a registered toggle flag with a following non-flag value
// so pflag parses "--yes no" as "--yes=no". Arguments after "--" are left untouched.
func NormalizeToggleArguments(arguments []string) []string {
	if len(arguments) == 0 {
		return nil
	}

	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == argumentTerminatorConstant {
			normalized = append(normalized, arguments[index:]...)
			break
		}

		hasFollowingValue := index+1 < len(arguments) && !strings.HasPrefix(arguments[index+1], shortFlagPrefixConstant)
		if isRegisteredToggle(current) && hasFollowingValue {
			normalized = append(normalized, current+flagValueSeparatorConstant+arguments[index+1])
			index++
			continue
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func isRegisteredToggle(argument string) bool {
	if !strings.HasPrefix(argument, shortFlagPrefixConstant) || strings.Contains(argument, flagValueSeparatorConstant) {
		return false
	}
	toggleRegistryMutex.RLock()
	defer toggleRegistryMutex.RUnlock()
	_, registered := toggleRegistry[argument]
	return registered
}

func formatToggleUsage(description string, defaultValue bool) string {
	placeholder := toggleFalsePlaceholderConstant
	if defaultValue {
		placeholder = toggleTruePlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(toggleUsageEmptyTemplateConstant, placeholder)
	}
	return fmt.Sprintf(toggleUsageFullTemplateConstant, placeholder, trimmedDescription)
}

type toggleFlagValue struct {
	currentValue bool
	target       *bool
}

func (value *toggleFlagValue) assign(parsedValue bool) {
	value.currentValue = parsedValue
	if value.target != nil {
		*value.target = parsedValue
	}
}

func (value *toggleFlagValue) Set(rawValue string) error {
	trimmedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(trimmedValue) == 0 {
		trimmedValue = toggleTrueCanonicalValueConstant
	}
	parsedValue, known := toggleLiteralValues[trimmedValue]
	if !known {
		return fmt.Errorf(toggleParseErrorTemplateConstant, rawValue)
	}
	value.assign(parsedValue)
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || !value.currentValue {
		return toggleFalseCanonicalValueConstant
	}
	return toggleTrueCanonicalValueConstant
}

func (value *toggleFlagValue) Type() string {
	return toggleTypeNameConstant
}
