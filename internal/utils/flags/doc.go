// Package flags provides helpers for binding the shared scrum-tools flags to Cobra commands.
package flags
