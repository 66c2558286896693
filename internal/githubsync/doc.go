// Package githubsync implements the github command namespace.
//
// Each command loads the roster, takes one snapshot of the organization's teams or
// repositories, and creates, grants, deletes or reconciles members by exact name so that
// the organization mirrors the roster's groups. Progress is printed one line per remote
// operation through ui.StatusReporter; failures of single items are reported and skipped.
package githubsync
