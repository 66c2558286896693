package roster

import (
	"cmp"
	"sort"
	"strconv"
)

// UserFilter selects users from a roster.
type UserFilter func(record UserRecord) bool

// InGroup selects users assigned to the given group.
func InGroup(group string) UserFilter {
	return func(record UserRecord) bool {
		return record.Group() == group
	}
}

// Roster is the group-ordered list of users loaded for one command invocation.
type Roster struct {
	users  []UserRecord
	groups []string
}

// New orders users by group, keeping file order within a group, and derives the group set.
func New(users []UserRecord) Roster {
	orderedUsers := make([]UserRecord, len(users))
	copy(orderedUsers, users)
	sort.SliceStable(orderedUsers, func(leftIndex int, rightIndex int) bool {
		return compareGroups(orderedUsers[leftIndex].Group(), orderedUsers[rightIndex].Group()) < 0
	})

	seenGroups := make(map[string]struct{})
	groups := make([]string, 0)
	for _, user := range orderedUsers {
		group := user.Group()
		if len(group) == 0 {
			continue
		}
		if _, seen := seenGroups[group]; seen {
			continue
		}
		seenGroups[group] = struct{}{}
		groups = append(groups, group)
	}

	return Roster{users: orderedUsers, groups: groups}
}

// Users returns every user matching all filters.
func (roster Roster) Users(filters ...UserFilter) []UserRecord {
	selected := make([]UserRecord, 0, len(roster.users))
	for _, user := range roster.users {
		if matchesAll(user, filters) {
			selected = append(selected, user)
		}
	}
	return selected
}

// Groups returns the distinct, sorted, non-empty group identifiers.
func (roster Roster) Groups() []string {
	duplicatedGroups := make([]string, len(roster.groups))
	copy(duplicatedGroups, roster.groups)
	return duplicatedGroups
}

// Accounts returns the distinct non-empty accounts of the given kind among users matching filters.
func (roster Roster) Accounts(kind AccountKind, filters ...UserFilter) []string {
	seenAccounts := make(map[string]struct{})
	accounts := make([]string, 0)
	for _, user := range roster.Users(filters...) {
		account := user.Account(kind)
		if len(account) == 0 {
			continue
		}
		if _, seen := seenAccounts[account]; seen {
			continue
		}
		seenAccounts[account] = struct{}{}
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)
	return accounts
}

// Len returns the number of users.
func (roster Roster) Len() int {
	return len(roster.users)
}

func matchesAll(user UserRecord, filters []UserFilter) bool {
	for _, filter := range filters {
		if filter != nil && !filter(user) {
			return false
		}
	}
	return true
}

// compareGroups orders numeric groups by value and everything else lexically, numbers first.
func compareGroups(left string, right string) int {
	leftNumber, leftError := strconv.Atoi(left)
	rightNumber, rightError := strconv.Atoi(right)
	switch {
	case leftError == nil && rightError == nil:
		return cmp.Compare(leftNumber, rightNumber)
	case leftError == nil:
		return -1
	case rightError == nil:
		return 1
	default:
		return cmp.Compare(left, right)
	}
}
