package evaltool

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/naming"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
	"github.com/TU-Berlin-DIMA/scrum-tools/internal/ui"
)

const (
	groupsHeaderConstant                  = "-- Groups"
	groupAuthoritiesHeaderConstant        = "-- Group Authorities"
	groupMembersHeaderConstant            = "-- Group Members"
	groupMembersSubheaderTemplateConstant = "-- Group %02d"
	usersHeaderConstant                   = "-- Users"
	insertGroupTemplateConstant           = "INSERT INTO GROUPS(id, group_name, course_id) VALUES (%d, '%s', %d);"
	insertAuthorityTemplateConstant       = "INSERT INTO GROUP_AUTHORITIES(group_id, authority) values (%d, 'ROLE_USER');"
	insertMemberTemplateConstant          = "INSERT INTO GROUP_MEMBERS(group_id, username) values (%d, '%s');"
	insertUserTemplateConstant            = "INSERT INTO USERS(username, password, enabled) VALUES ('%s', md5('%s{%s}'), true);"
	skipEmptyAccountTemplateConstant      = "Skipping empty GitHub account for user '%s'."
	sqlQuoteConstant                      = "'"
	sqlEscapedQuoteConstant               = "''"
	groupIdentifierMultiplierConstant     = 1000
	dumpGroupsLogMessageConstant          = "dumping SQL code for groups"
	dumpUsersLogMessageConstant           = "dumping SQL code for users"
	logFieldCourseIDConstant              = "course_id"
	logFieldGroupsConstant                = "groups"
	logFieldUsersConstant                 = "users"
)

// SQLDumper renders roster data as SQL statements.
type SQLDumper struct {
	configuration Configuration
	reporter      *ui.StatusReporter
	logger        *zap.Logger
}

// NewSQLDumper constructs an SQLDumper.
func NewSQLDumper(configuration Configuration, reporter *ui.StatusReporter, logger *zap.Logger) *SQLDumper {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = ui.NewStatusReporter(nil)
	}
	return &SQLDumper{configuration: configuration.Sanitize(), reporter: reporter, logger: logger}
}

// DumpGroups prints the GROUPS, GROUP_AUTHORITIES and GROUP_MEMBERS inserts. Group ids are
// course_id*1000 plus the group number.
func (dumper *SQLDumper) DumpGroups(userRoster roster.Roster) error {
	groups := userRoster.Groups()
	dumper.logger.Debug(dumpGroupsLogMessageConstant, zap.Int(logFieldCourseIDConstant, dumper.configuration.CourseID), zap.Strings(logFieldGroupsConstant, groups))

	groupNumbers := make([]int, 0, len(groups))
	groupNames := make([]string, 0, len(groups))
	for _, group := range groups {
		groupName, renderError := naming.Pattern(dumper.configuration.GroupPattern).Render(group)
		if renderError != nil {
			return renderError
		}
		groupNumber, _ := strconv.Atoi(strings.TrimSpace(group))
		groupNumbers = append(groupNumbers, groupNumber)
		groupNames = append(groupNames, groupName)
	}

	dumper.reporter.Info(groupsHeaderConstant)
	for groupIndex, groupNumber := range groupNumbers {
		dumper.reporter.Info(insertGroupTemplateConstant, dumper.groupIdentifier(groupNumber), escapeLiteral(groupNames[groupIndex]), dumper.configuration.CourseID)
	}

	dumper.reporter.Info(groupAuthoritiesHeaderConstant)
	for _, groupNumber := range groupNumbers {
		dumper.reporter.Info(insertAuthorityTemplateConstant, dumper.groupIdentifier(groupNumber))
	}

	dumper.reporter.Info(groupMembersHeaderConstant)
	for groupIndex, group := range groups {
		dumper.reporter.Info(groupMembersSubheaderTemplateConstant, groupNumbers[groupIndex])
		for _, user := range userRoster.Users(roster.InGroup(group)) {
			if len(user.HostAccount()) == 0 {
				continue
			}
			dumper.reporter.Info(insertMemberTemplateConstant, dumper.groupIdentifier(groupNumbers[groupIndex]), escapeLiteral(user.HostAccount()))
		}
	}
	return nil
}

// DumpUsers prints one USERS insert per user with a GitHub account. The password is the md5
// of "<id>{<login>}", computed by the database.
func (dumper *SQLDumper) DumpUsers(userRoster roster.Roster) error {
	dumper.logger.Debug(dumpUsersLogMessageConstant, zap.Int(logFieldUsersConstant, userRoster.Len()))

	dumper.reporter.Info(usersHeaderConstant)
	for _, user := range userRoster.Users() {
		account := user.HostAccount()
		if len(account) == 0 {
			dumper.reporter.Notice(skipEmptyAccountTemplateConstant, user.ID())
			continue
		}
		escapedAccount := escapeLiteral(account)
		dumper.reporter.Info(insertUserTemplateConstant, escapedAccount, escapeLiteral(user.ID()), escapedAccount)
	}
	return nil
}

func (dumper *SQLDumper) groupIdentifier(groupNumber int) int {
	return dumper.configuration.CourseID*groupIdentifierMultiplierConstant + groupNumber
}

func escapeLiteral(value string) string {
	return strings.ReplaceAll(value, sqlQuoteConstant, sqlEscapedQuoteConstant)
}
