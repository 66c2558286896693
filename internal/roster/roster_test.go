package roster_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/TU-Berlin-DIMA/scrum-tools/internal/roster"
)

const rosterSubtestNameTemplateConstant = "%d_%s"

func TestParseSchemaValidation(testInstance *testing.T) {
	defaultKeys := roster.Keys{ID: "ID", Group: "Group", HostAccount: "Github", BoardAccount: "Trello"}

	testCases := []struct {
		name          string
		declaration   string
		keys          roster.Keys
		expectedError string
		expectedLen   int
	}{
		{
			name:        "default schema",
			declaration: "ID;Group;Github;Trello",
			keys:        defaultKeys,
			expectedLen: 4,
		},
		{
			name:        "extra columns allowed",
			declaration: "ID; Name ;Group;Github;Trello;Email",
			keys:        defaultKeys,
			expectedLen: 6,
		},
		{
			name:          "empty declaration",
			declaration:   "  ",
			keys:          defaultKeys,
			expectedError: "at least one column",
		},
		{
			name:          "duplicate column",
			declaration:   "ID;Group;Group;Github;Trello",
			keys:          defaultKeys,
			expectedError: "declared twice",
		},
		{
			name:          "blank column",
			declaration:   "ID;;Group;Github;Trello",
			keys:          defaultKeys,
			expectedError: "column 2 is blank",
		},
		{
			name:          "unknown key",
			declaration:   "ID;Group;Github;Trello",
			keys:          roster.Keys{ID: "ID", Group: "Team", HostAccount: "Github", BoardAccount: "Trello"},
			expectedError: "group=\"Team\"",
		},
	}

	for testCaseIndex, testCase := range testCases {
		testInstance.Run(fmt.Sprintf(rosterSubtestNameTemplateConstant, testCaseIndex, testCase.name), func(testInstance *testing.T) {
			schema, schemaError := roster.ParseSchema(testCase.declaration, testCase.keys)
			if len(testCase.expectedError) > 0 {
				require.ErrorContains(testInstance, schemaError, testCase.expectedError)
				return
			}
			require.NoError(testInstance, schemaError)
			require.Equal(testInstance, testCase.expectedLen, schema.Len())
		})
	}
}

func TestRosterProjections(testInstance *testing.T) {
	schema := defaultTestSchema(testInstance)
	rows := [][]string{
		{"U4", "", "dave", "dave_t"},
		{"U3", "2", "carol", "carol_t"},
		{"U1", "1", "alice", ""},
		{"U2", "1", "bob", "bob_t"},
		{"U5", "1", "alice", "alice_t"},
		{"U6", "lab", "erin", "erin_t"},
	}

	users := make([]roster.UserRecord, 0, len(rows))
	for _, row := range rows {
		user, userError := roster.NewUserRecord(schema, row)
		require.NoError(testInstance, userError)
		users = append(users, user)
	}

	loadedRoster := roster.New(users)
	require.Equal(testInstance, []string{"1", "2", "lab"}, loadedRoster.Groups())
	require.Equal(testInstance, 6, loadedRoster.Len())

	groupOneIdentifiers := make([]string, 0)
	for _, user := range loadedRoster.Users(roster.InGroup("1")) {
		groupOneIdentifiers = append(groupOneIdentifiers, user.ID())
	}
	require.Equal(testInstance, []string{"U1", "U2", "U5"}, groupOneIdentifiers)

	require.Equal(testInstance, []string{"alice", "bob"}, loadedRoster.Accounts(roster.AccountKindHost, roster.InGroup("1")))
	require.Equal(testInstance, []string{"alice_t", "bob_t"}, loadedRoster.Accounts(roster.AccountKindBoard, roster.InGroup("1")))
	require.Empty(testInstance, loadedRoster.Accounts(roster.AccountKindBoard, roster.InGroup("missing")))

	require.Equal(testInstance, "carol", loadedRoster.Users(roster.InGroup("2"))[0].Field("Github"))
	require.Equal(testInstance, map[string]string{"ID": "U3", "Group": "2", "Github": "carol", "Trello": "carol_t"}, loadedRoster.Users(roster.InGroup("2"))[0].Fields())

	_, mismatchError := roster.NewUserRecord(schema, []string{"U9"})
	require.Error(testInstance, mismatchError)
}
