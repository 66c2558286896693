package trellosync

import (
	"context"

	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/trelloapi"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// ConfigurationProvider returns the current trello configuration.
type ConfigurationProvider func() Configuration

// RosterConfigurationProvider returns the core roster configuration.
type RosterConfigurationProvider func() roster.Configuration

// Driver is the subset of the Trello API the trello commands reconcile against.
type Driver interface {
	ResolveOrganization(executionContext context.Context, name string) (remote.Organization, error)
	ListBoards(executionContext context.Context, organization string) ([]remote.Board, error)
	CreateBoard(executionContext context.Context, organizationID string, name string) (remote.Board, reconcile.Outcome)
	ListLists(executionContext context.Context, boardID string) ([]remote.BoardList, error)
	CreateList(executionContext context.Context, boardID string, name string) (remote.BoardList, reconcile.Outcome)
	ListBoardMembers(executionContext context.Context, boardID string, filter trelloapi.MemberFilter) ([]remote.Member, error)
	AddBoardMember(executionContext context.Context, boardID string, username string, memberType trelloapi.MemberType) reconcile.Outcome
	RemoveBoardMember(executionContext context.Context, boardID string, memberID string) reconcile.Outcome
	MemberExists(executionContext context.Context, username string) (bool, error)
	CreateCard(executionContext context.Context, listID string, name string, description string) (remote.Card, reconcile.Outcome)
}

// DriverFactory opens a Driver for an application key, a token and an optional API base URL.
type DriverFactory func(key string, token string, baseURL string) (Driver, error)

// SecretResolver turns a configured credential reference into the secret itself.
type SecretResolver interface {
	Resolve(value string) (string, error)
}

// NewAPIDriver opens the adlio/trello backed driver.
func NewAPIDriver(key string, token string, baseURL string) (Driver, error) {
	return trelloapi.NewClient(key, token, baseURL), nil
}
