// Package ui formats the human-readable progress lines scrum-tools prints while it
// reconciles remote state.
//
// Operator output goes through StatusReporter, while diagnostic records continue to
// flow through the structured zap logger.
package ui
