package trellosync_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/trelloapi"
)

type mockDriver struct {
	mock.Mock
}

func (driver *mockDriver) ResolveOrganization(executionContext context.Context, name string) (remote.Organization, error) {
	arguments := driver.Called(executionContext, name)
	return arguments.Get(0).(remote.Organization), arguments.Error(1)
}

func (driver *mockDriver) ListBoards(executionContext context.Context, organization string) ([]remote.Board, error) {
	arguments := driver.Called(executionContext, organization)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]remote.Board), arguments.Error(1)
}

func (driver *mockDriver) CreateBoard(executionContext context.Context, organizationID string, name string) (remote.Board, reconcile.Outcome) {
	arguments := driver.Called(executionContext, organizationID, name)
	return arguments.Get(0).(remote.Board), arguments.Get(1).(reconcile.Outcome)
}

func (driver *mockDriver) ListLists(executionContext context.Context, boardID string) ([]remote.BoardList, error) {
	arguments := driver.Called(executionContext, boardID)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]remote.BoardList), arguments.Error(1)
}

func (driver *mockDriver) CreateList(executionContext context.Context, boardID string, name string) (remote.BoardList, reconcile.Outcome) {
	arguments := driver.Called(executionContext, boardID, name)
	return arguments.Get(0).(remote.BoardList), arguments.Get(1).(reconcile.Outcome)
}

func (driver *mockDriver) ListBoardMembers(executionContext context.Context, boardID string, filter trelloapi.MemberFilter) ([]remote.Member, error) {
	arguments := driver.Called(executionContext, boardID, filter)
	if arguments.Get(0) == nil {
		return nil, arguments.Error(1)
	}
	return arguments.Get(0).([]remote.Member), arguments.Error(1)
}

func (driver *mockDriver) AddBoardMember(executionContext context.Context, boardID string, username string, memberType trelloapi.MemberType) reconcile.Outcome {
	arguments := driver.Called(executionContext, boardID, username, memberType)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) RemoveBoardMember(executionContext context.Context, boardID string, memberID string) reconcile.Outcome {
	arguments := driver.Called(executionContext, boardID, memberID)
	return arguments.Get(0).(reconcile.Outcome)
}

func (driver *mockDriver) MemberExists(executionContext context.Context, username string) (bool, error) {
	arguments := driver.Called(executionContext, username)
	return arguments.Bool(0), arguments.Error(1)
}

func (driver *mockDriver) CreateCard(executionContext context.Context, listID string, name string, description string) (remote.Card, reconcile.Outcome) {
	arguments := driver.Called(executionContext, listID, name, description)
	return arguments.Get(0).(remote.Card), arguments.Get(1).(reconcile.Outcome)
}
