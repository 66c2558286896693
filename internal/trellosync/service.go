package trellosync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/naming"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/trelloapi"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
)

const (
	skipEmptyAccountTemplateConstant        = "Skipping empty Trello account for user '%s'."
	validateAccountTemplateConstant         = "Validating Trello account '%s' for user '%s'..."
	createBoardTemplateConstant             = "Creating board '%s'..."
	skipExistingBoardTemplateConstant       = "Skipping board '%s' (already exists)."
	skipMissingBoardTemplateConstant        = "Skipping board '%s' (does not exist)."
	addMissingListsTemplateConstant         = "Adding missing lists to board '%s'"
	addListTemplateConstant                 = "Adding list '%s' to board '%s'..."
	addMissingAdminsTemplateConstant        = "Adding missing admins to board '%s'"
	addMissingMembersTemplateConstant       = "Adding missing members to board '%s'"
	addBoardMemberTemplateConstant          = "Adding '%s' as %s member of '%s'..."
	pruneMembersTemplateConstant            = "Removing unexpected members from board '%s'"
	removeBoardMemberTemplateConstant       = "Removing '%s' from board '%s'..."
	skipBoardWithoutListTemplateConstant    = "Skipping board '%s' (no list found)."
	addCardTemplateConstant                 = "Adding card to list '%s' in '%s'..."
	listingFailedTemplateConstant           = "Unable to list %s of board '%s': %v"
	listsSubjectConstant                    = "lists"
	adminsSubjectConstant                   = "admins"
	membersSubjectConstant                  = "members"
	organizationLookupErrorTemplateConstant = "unable to resolve organization %q: %w"
	boardsSnapshotErrorTemplateConstant     = "unable to list boards of %q: %w"
	accountNotFoundMessageConstant          = "account not found"
	logFieldOrganizationConstant            = "organization"
	logFieldGroupsConstant                  = "groups"
	logFieldUsersConstant                   = "users"
	logFieldOperationConstant               = "operation"
	logFieldSubjectConstant                 = "subject"
	logFieldReasonConstant                  = "reason"
	logFieldCardConstant                    = "card"
	logFieldListConstant                    = "list"
	validateUsersLogMessageConstant         = "validating Trello account names"
	createBoardsLogMessageConstant          = "creating Trello boards"
	createCardLogMessageConstant            = "creating Trello cards"
	operationFailedLogMessageConstant       = "Trello operation failed"
)

var errAccountNotFound = errors.New(accountNotFoundMessageConstant)

// CardRequest describes the card create-card adds to every group board.
type CardRequest struct {
	Name        string
	Description string
	ListName    string
}

// Service reconciles a Trello workspace with the roster.
type Service struct {
	driver        Driver
	configuration Configuration
	reporter      *ui.StatusReporter
	logger        *zap.Logger
}

// NewService constructs a Service.
func NewService(driver Driver, configuration Configuration, reporter *ui.StatusReporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = ui.NewStatusReporter(nil)
	}
	return &Service{driver: driver, configuration: configuration.Sanitize(), reporter: reporter, logger: logger}
}

// ValidateUsers checks that every non-empty Trello account of the roster exists.
func (service *Service) ValidateUsers(executionContext context.Context, userRoster roster.Roster) error {
	service.logger.Debug(validateUsersLogMessageConstant, zap.Int(logFieldUsersConstant, userRoster.Len()))

	for _, user := range userRoster.Users() {
		account := user.BoardAccount()
		if len(account) == 0 {
			service.reporter.Notice(skipEmptyAccountTemplateConstant, user.ID())
			continue
		}

		service.reporter.Action(validateAccountTemplateConstant, account, user.ID())
		exists, lookupError := service.driver.MemberExists(executionContext, account)
		switch {
		case lookupError != nil:
			service.report(reconcile.Failed(lookupError), "MemberExists", account)
		case !exists:
			service.report(reconcile.Failed(errAccountNotFound), "MemberExists", account)
		default:
			service.report(reconcile.Succeeded(), "MemberExists", account)
		}
	}
	return nil
}

// CreateBoards creates the missing group boards and the admins board, adds the configured
// lists and reconciles board membership.
func (service *Service) CreateBoards(executionContext context.Context, userRoster roster.Roster) error {
	organization, resolveError := service.resolveOrganization(executionContext)
	if resolveError != nil {
		return resolveError
	}
	groups := userRoster.Groups()
	service.logger.Debug(createBoardsLogMessageConstant, zap.String(logFieldOrganizationConstant, organization.Name), zap.Strings(logFieldGroupsConstant, groups))

	boardIndex, snapshotError := service.boardSnapshot(executionContext, organization)
	if snapshotError != nil {
		return snapshotError
	}

	boardNames, renderError := naming.Pattern(service.configuration.BoardPattern).RenderAll(groups)
	if renderError != nil {
		return renderError
	}

	expectedAdmins := userRoster.Accounts(roster.AccountKindBoard, roster.InGroup(service.configuration.BoardAdminsGroup))
	for groupIndex, boardName := range boardNames {
		expectedMembers := userRoster.Accounts(roster.AccountKindBoard, roster.InGroup(groups[groupIndex]))
		service.reconcileBoard(executionContext, organization, boardName, expectedAdmins, expectedMembers, boardIndex)
	}
	service.reconcileBoard(executionContext, organization, service.configuration.BoardAdmins, expectedAdmins, nil, boardIndex)
	return nil
}

// CreateCard adds the requested card to the named list of every existing group board.
func (service *Service) CreateCard(executionContext context.Context, userRoster roster.Roster, request CardRequest) error {
	if len(request.Name) == 0 {
		return scrumerrors.ErrMissingCardName
	}

	organization, resolveError := service.resolveOrganization(executionContext)
	if resolveError != nil {
		return resolveError
	}
	service.logger.Debug(createCardLogMessageConstant,
		zap.String(logFieldOrganizationConstant, organization.Name),
		zap.String(logFieldCardConstant, request.Name),
		zap.String(logFieldListConstant, request.ListName),
	)

	boardIndex, snapshotError := service.boardSnapshot(executionContext, organization)
	if snapshotError != nil {
		return snapshotError
	}

	boardNames, renderError := naming.Pattern(service.configuration.BoardPattern).RenderAll(userRoster.Groups())
	if renderError != nil {
		return renderError
	}

	for _, boardName := range boardNames {
		board, exists := boardIndex.Lookup(boardName)
		if !exists {
			service.reporter.Notice(skipMissingBoardTemplateConstant, boardName)
			continue
		}

		lists, listError := service.driver.ListLists(executionContext, board.ID)
		if listError != nil {
			service.reportListingFailure(listsSubjectConstant, boardName, listError)
			continue
		}
		targetList, found := remote.NewIndex(remote.BoardListName, lists...).Lookup(request.ListName)
		if !found {
			service.reporter.Notice(skipBoardWithoutListTemplateConstant, boardName)
			continue
		}

		service.reporter.Action(addCardTemplateConstant, request.ListName, boardName)
		_, outcome := service.driver.CreateCard(executionContext, targetList.ID, request.Name, request.Description)
		service.report(outcome, "CreateCard", boardName)
	}
	return nil
}

func (service *Service) reconcileBoard(executionContext context.Context, organization remote.Organization, boardName string, expectedAdmins []string, expectedMembers []string, boardIndex *remote.Index[remote.Board]) {
	if reconcile.PlanCreate(boardName, boardIndex.NameSet()) == reconcile.ActionSkipExisting {
		service.reporter.Notice(skipExistingBoardTemplateConstant, boardName)
	} else {
		service.reporter.Action(createBoardTemplateConstant, boardName)
		createdBoard, outcome := service.driver.CreateBoard(executionContext, organization.ID, boardName)
		service.report(outcome, "CreateBoard", boardName)
		if !outcome.IsFailure() && len(createdBoard.ID) > 0 {
			createdBoard.Name = boardName
			boardIndex.Put(createdBoard)
		}
	}

	board, exists := boardIndex.Lookup(boardName)
	if !exists {
		service.reporter.Notice(skipMissingBoardTemplateConstant, boardName)
		return
	}

	service.addMissingLists(executionContext, board)
	service.reconcileMembers(executionContext, board, expectedAdmins, expectedMembers)
}

func (service *Service) addMissingLists(executionContext context.Context, board remote.Board) {
	lists, listError := service.driver.ListLists(executionContext, board.ID)
	if listError != nil {
		service.reportListingFailure(listsSubjectConstant, board.Name, listError)
		return
	}
	currentLists := remote.NewIndex(remote.BoardListName, lists...).NameSet()

	service.reporter.Info(addMissingListsTemplateConstant, board.Name)
	for _, listName := range service.configuration.BoardLists {
		if reconcile.PlanCreate(listName, currentLists) == reconcile.ActionSkipExisting {
			continue
		}
		service.reporter.Action(addListTemplateConstant, listName, board.Name)
		_, outcome := service.driver.CreateList(executionContext, board.ID, listName)
		service.report(outcome, "CreateList", listName)
		if !outcome.IsFailure() {
			currentLists.Add(listName)
		}
	}
}

// reconcileMembers adds missing admins, then missing members. A freshly added admin is not
// added again as a normal member. Pruning never removes a current admin, so the account
// that owns the token keeps access to the board.
func (service *Service) reconcileMembers(executionContext context.Context, board remote.Board, expectedAdmins []string, expectedMembers []string) {
	currentAdmins, adminsError := service.driver.ListBoardMembers(executionContext, board.ID, trelloapi.MemberFilterAdmins)
	if adminsError != nil {
		service.reportListingFailure(adminsSubjectConstant, board.Name, adminsError)
		return
	}
	currentMembers, membersError := service.driver.ListBoardMembers(executionContext, board.ID, trelloapi.MemberFilterAll)
	if membersError != nil {
		service.reportListingFailure(membersSubjectConstant, board.Name, membersError)
		return
	}
	currentAdminIndex := remote.NewIndex(remote.MemberLogin, currentAdmins...)
	currentMemberIndex := remote.NewIndex(remote.MemberLogin, currentMembers...)

	currentMemberNames := currentMemberIndex.NameSet()

	service.reporter.Info(addMissingAdminsTemplateConstant, board.Name)
	adminsToAdd, _ := reconcile.Diff(reconcile.NewNameSet(expectedAdmins...), currentAdminIndex.NameSet())
	for _, username := range adminsToAdd {
		if !service.addBoardMember(executionContext, board, username, trelloapi.MemberTypeAdmin).IsFailure() {
			currentMemberNames.Add(username)
		}
	}

	service.reporter.Info(addMissingMembersTemplateConstant, board.Name)
	membersToAdd, _ := reconcile.Diff(reconcile.NewNameSet(expectedMembers...), currentMemberNames)
	for _, username := range membersToAdd {
		service.addBoardMember(executionContext, board, username, trelloapi.MemberTypeNormal)
	}

	if !service.configuration.PruneMembers {
		return
	}

	retainedMembers := reconcile.NewNameSet(expectedAdmins...)
	for _, username := range expectedMembers {
		retainedMembers.Add(username)
	}
	for _, username := range currentAdminIndex.Names() {
		retainedMembers.Add(username)
	}

	service.reporter.Info(pruneMembersTemplateConstant, board.Name)
	_, membersToRemove := reconcile.Diff(retainedMembers, currentMemberIndex.NameSet())
	for _, username := range membersToRemove {
		member, _ := currentMemberIndex.Lookup(username)
		service.reporter.Action(removeBoardMemberTemplateConstant, username, board.Name)
		service.report(service.driver.RemoveBoardMember(executionContext, board.ID, member.ID), "RemoveBoardMember", username)
	}
}

func (service *Service) addBoardMember(executionContext context.Context, board remote.Board, username string, memberType trelloapi.MemberType) reconcile.Outcome {
	service.reporter.Action(addBoardMemberTemplateConstant, username, memberType, board.Name)
	outcome := service.driver.AddBoardMember(executionContext, board.ID, username, memberType)
	service.report(outcome, "AddBoardMember", username)
	return outcome
}

func (service *Service) resolveOrganization(executionContext context.Context) (remote.Organization, error) {
	organization, resolveError := service.driver.ResolveOrganization(executionContext, service.configuration.Organization)
	if resolveError != nil {
		return remote.Organization{}, fmt.Errorf(organizationLookupErrorTemplateConstant, service.configuration.Organization, resolveError)
	}
	if len(organization.Name) == 0 {
		organization.Name = service.configuration.Organization
	}
	return organization, nil
}

func (service *Service) boardSnapshot(executionContext context.Context, organization remote.Organization) (*remote.Index[remote.Board], error) {
	boards, listError := service.driver.ListBoards(executionContext, organization.Name)
	if listError != nil {
		return nil, fmt.Errorf(boardsSnapshotErrorTemplateConstant, organization.Name, listError)
	}
	return remote.NewIndex(remote.BoardName, boards...), nil
}

func (service *Service) reportListingFailure(subject string, boardName string, listError error) {
	service.reporter.Warning(listingFailedTemplateConstant, subject, boardName, listError)
	service.logFailure("List"+subject, boardName, listError.Error())
}

func (service *Service) report(outcome reconcile.Outcome, operation string, subject string) {
	service.reporter.Outcome(outcome)
	if outcome.IsFailure() {
		service.logFailure(operation, subject, outcome.Reason)
	}
}

func (service *Service) logFailure(operation string, subject string, reason string) {
	service.logger.Warn(operationFailedLogMessageConstant,
		zap.String(logFieldOperationConstant, operation),
		zap.String(logFieldSubjectConstant, subject),
		zap.String(logFieldReasonConstant, reason),
	)
}
