// Package remote holds the platform-neutral records returned by the GitHub and Trello drivers.
package remote

// Organization is a GitHub organization or a Trello workspace.
type Organization struct {
	ID   string
	Name string
}

// Team is a GitHub team.
type Team struct {
	ID   int64
	Slug string
	Name string
}

// Repository is a GitHub repository.
type Repository struct {
	ID       int64
	Name     string
	FullName string
}

// Board is a Trello board.
type Board struct {
	ID   string
	Name string
	URL  string
}

// BoardList is a list on a Trello board.
type BoardList struct {
	ID   string
	Name string
}

// Member is a team or board member identified by login.
type Member struct {
	ID    string
	Login string
}

// Card is a Trello card.
type Card struct {
	ID   string
	Name string
}

// TeamName indexes teams by display name.
func TeamName(team Team) string { return team.Name }

// RepositoryName indexes repositories by short name.
func RepositoryName(repository Repository) string { return repository.Name }

// BoardName indexes boards by name.
func BoardName(board Board) string { return board.Name }

// BoardListName indexes lists by name.
func BoardListName(list BoardList) string { return list.Name }

// MemberLogin indexes members by login.
func MemberLogin(member Member) string { return member.Login }

// CardName indexes cards by name.
func CardName(card Card) string { return card.Name }
