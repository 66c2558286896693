// Package cli constructs the scrum-tools command-line interface. It loads the
// layered configuration, creates the run-scoped logger and registers the github,
// trello, evaltool and roster namespaces on a single Cobra root command.
package cli
