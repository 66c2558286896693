// Package scrumerrors defines the error taxonomy shared by the scrum-tools
// commands: configuration problems the operator must fix before retrying, and
// transport failures raised while talking to GitHub or Trello.
package scrumerrors
