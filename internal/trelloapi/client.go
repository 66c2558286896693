package trelloapi

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/adlio/trello"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/reconcile"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/remote"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/scrumerrors"
)

const (
	organizationPathTemplateConstant       = "organizations/%s"
	organizationBoardsPathTemplateConstant = "organizations/%s/boards"
	boardsPathConstant                     = "boards"
	boardListsPathTemplateConstant         = "boards/%s/lists"
	listsPathConstant                      = "lists"
	boardMembersPathTemplateConstant       = "boards/%s/members/%s"
	memberPathTemplateConstant             = "members/%s"
	cardsPathConstant                      = "cards"
	nameArgumentConstant                   = "name"
	organizationArgumentConstant           = "idOrganization"
	boardArgumentConstant                  = "idBoard"
	listArgumentConstant                   = "idList"
	descriptionArgumentConstant            = "desc"
	positionArgumentConstant               = "pos"
	typeArgumentConstant                   = "type"
	fieldsArgumentConstant                 = "fields"
	filterArgumentConstant                 = "filter"
	bottomPositionConstant                 = "bottom"
	openFilterConstant                     = "open"
	memberFieldsConstant                   = "username"
	organizationNotFoundTemplateConstant   = "%w: %s"
	doesNotExistNoteConstant               = "does not exist"
	resolveOrganizationOperationConstant   = "Trello ResolveOrganization"
	listBoardsOperationConstant            = "Trello ListBoards"
	createBoardOperationConstant           = "Trello CreateBoard"
	listListsOperationConstant             = "Trello ListLists"
	createListOperationConstant            = "Trello CreateList"
	listBoardMembersOperationConstant      = "Trello ListBoardMembers"
	addBoardMemberOperationConstant        = "Trello AddBoardMember"
	removeBoardMemberOperationConstant     = "Trello RemoveBoardMember"
	memberExistsOperationConstant          = "Trello MemberExists"
	createCardOperationConstant            = "Trello CreateCard"
)

// MemberFilter selects which board members are listed.
type MemberFilter string

// Member filters.
const (
	MemberFilterAdmins MemberFilter = MemberFilter("admins")
	MemberFilterAll    MemberFilter = MemberFilter("all")
)

// MemberType is the role a member is granted on a board.
type MemberType string

// Member types.
const (
	MemberTypeAdmin  MemberType = MemberType("admin")
	MemberTypeNormal MemberType = MemberType("normal")
)

// Client is the Trello driver. Every mutation reports a reconcile.Outcome; listings and
// lookups return a scrumerrors.TransportError on failure.
type Client struct {
	trelloClient *trello.Client
}

// NewClient builds a key and token authenticated client. An empty baseURL targets api.trello.com.
func NewClient(key string, token string, baseURL string) *Client {
	trelloClient := trello.NewClient(key, token)
	trimmedBaseURL := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if len(trimmedBaseURL) > 0 {
		trelloClient.BaseURL = trimmedBaseURL
	}
	return &Client{trelloClient: trelloClient}
}

func (client *Client) withContext(executionContext context.Context) *trello.Client {
	return client.trelloClient.WithContext(executionContext)
}

// ResolveOrganization looks up a workspace by name or id.
func (client *Client) ResolveOrganization(executionContext context.Context, name string) (remote.Organization, error) {
	var organization trello.Organization
	getError := client.withContext(executionContext).Get(fmt.Sprintf(organizationPathTemplateConstant, url.PathEscape(name)), trello.Defaults(), &organization)
	if getError != nil {
		if trello.IsNotFound(getError) {
			return remote.Organization{}, fmt.Errorf(organizationNotFoundTemplateConstant, scrumerrors.ErrOrganizationNotFound, name)
		}
		return remote.Organization{}, scrumerrors.TransportError{Operation: resolveOrganizationOperationConstant, Cause: getError}
	}
	return remote.Organization{ID: organization.ID, Name: organization.Name}, nil
}

// ListBoards returns the open boards of the workspace.
func (client *Client) ListBoards(executionContext context.Context, organization string) ([]remote.Board, error) {
	var boards []trello.Board
	arguments := trello.Arguments{filterArgumentConstant: openFilterConstant}
	getError := client.withContext(executionContext).Get(fmt.Sprintf(organizationBoardsPathTemplateConstant, url.PathEscape(organization)), arguments, &boards)
	if getError != nil {
		return nil, scrumerrors.TransportError{Operation: listBoardsOperationConstant, Cause: getError}
	}
	converted := make([]remote.Board, 0, len(boards))
	for _, board := range boards {
		converted = append(converted, remote.Board{ID: board.ID, Name: board.Name, URL: board.URL})
	}
	return converted, nil
}

// CreateBoard creates a board owned by the workspace identified by organizationID.
func (client *Client) CreateBoard(executionContext context.Context, organizationID string, name string) (remote.Board, reconcile.Outcome) {
	var board trello.Board
	arguments := trello.Arguments{nameArgumentConstant: name, organizationArgumentConstant: organizationID}
	if postError := client.withContext(executionContext).Post(boardsPathConstant, arguments, &board); postError != nil {
		return remote.Board{}, reconcile.Failed(scrumerrors.TransportError{Operation: createBoardOperationConstant, Cause: postError})
	}
	return remote.Board{ID: board.ID, Name: board.Name, URL: board.URL}, reconcile.Succeeded()
}

// ListLists returns the open lists of a board.
func (client *Client) ListLists(executionContext context.Context, boardID string) ([]remote.BoardList, error) {
	var lists []trello.List
	getError := client.withContext(executionContext).Get(fmt.Sprintf(boardListsPathTemplateConstant, boardID), trello.Defaults(), &lists)
	if getError != nil {
		return nil, scrumerrors.TransportError{Operation: listListsOperationConstant, Cause: getError}
	}
	converted := make([]remote.BoardList, 0, len(lists))
	for _, list := range lists {
		converted = append(converted, remote.BoardList{ID: list.ID, Name: list.Name})
	}
	return converted, nil
}

// CreateList appends a list to the right end of the board.
func (client *Client) CreateList(executionContext context.Context, boardID string, name string) (remote.BoardList, reconcile.Outcome) {
	var list trello.List
	arguments := trello.Arguments{nameArgumentConstant: name, boardArgumentConstant: boardID, positionArgumentConstant: bottomPositionConstant}
	if postError := client.withContext(executionContext).Post(listsPathConstant, arguments, &list); postError != nil {
		return remote.BoardList{}, reconcile.Failed(scrumerrors.TransportError{Operation: createListOperationConstant, Cause: postError})
	}
	return remote.BoardList{ID: list.ID, Name: list.Name}, reconcile.Succeeded()
}

// ListBoardMembers returns the board members matching filter.
func (client *Client) ListBoardMembers(executionContext context.Context, boardID string, filter MemberFilter) ([]remote.Member, error) {
	var members []trello.Member
	arguments := trello.Arguments{fieldsArgumentConstant: memberFieldsConstant}
	getError := client.withContext(executionContext).Get(fmt.Sprintf(boardMembersPathTemplateConstant, boardID, filter), arguments, &members)
	if getError != nil {
		return nil, scrumerrors.TransportError{Operation: listBoardMembersOperationConstant, Cause: getError}
	}
	converted := make([]remote.Member, 0, len(members))
	for _, member := range members {
		converted = append(converted, remote.Member{ID: member.ID, Login: member.Username})
	}
	return converted, nil
}

// AddBoardMember invites username to the board with memberType.
func (client *Client) AddBoardMember(executionContext context.Context, boardID string, username string, memberType MemberType) reconcile.Outcome {
	var response map[string]any
	arguments := trello.Arguments{typeArgumentConstant: string(memberType)}
	putError := client.withContext(executionContext).Put(fmt.Sprintf(boardMembersPathTemplateConstant, boardID, url.PathEscape(username)), arguments, &response)
	if putError != nil {
		return reconcile.Failed(scrumerrors.TransportError{Operation: addBoardMemberOperationConstant, Cause: putError})
	}
	return reconcile.Succeeded()
}

// RemoveBoardMember removes the member with memberID from the board.
func (client *Client) RemoveBoardMember(executionContext context.Context, boardID string, memberID string) reconcile.Outcome {
	var response map[string]any
	deleteError := client.withContext(executionContext).Delete(fmt.Sprintf(boardMembersPathTemplateConstant, boardID, memberID), trello.Defaults(), &response)
	if deleteError != nil {
		if trello.IsNotFound(deleteError) {
			return reconcile.AlreadyInDesiredState(doesNotExistNoteConstant)
		}
		return reconcile.Failed(scrumerrors.TransportError{Operation: removeBoardMemberOperationConstant, Cause: deleteError})
	}
	return reconcile.Succeeded()
}

// MemberExists reports whether a Trello account named username exists.
func (client *Client) MemberExists(executionContext context.Context, username string) (bool, error) {
	var member trello.Member
	arguments := trello.Arguments{fieldsArgumentConstant: memberFieldsConstant}
	getError := client.withContext(executionContext).Get(fmt.Sprintf(memberPathTemplateConstant, url.PathEscape(username)), arguments, &member)
	if getError == nil {
		return true, nil
	}
	if trello.IsNotFound(getError) {
		return false, nil
	}
	return false, scrumerrors.TransportError{Operation: memberExistsOperationConstant, Cause: getError}
}

// CreateCard adds a card to the list identified by listID.
func (client *Client) CreateCard(executionContext context.Context, listID string, name string, description string) (remote.Card, reconcile.Outcome) {
	var card trello.Card
	arguments := trello.Arguments{nameArgumentConstant: name, listArgumentConstant: listID}
	if len(description) > 0 {
		arguments[descriptionArgumentConstant] = description
	}
	if postError := client.withContext(executionContext).Post(cardsPathConstant, arguments, &card); postError != nil {
		return remote.Card{}, reconcile.Failed(scrumerrors.TransportError{Operation: createCardOperationConstant, Cause: postError})
	}
	return remote.Card{ID: card.ID, Name: card.Name}, reconcile.Succeeded()
}
