// Package roster loads the participant CSV file shared by every scrum-tools command.
//
// A roster row is bound to a configurable column schema. Four well-known keys select
// the participant identifier, the group, the GitHub login and the Trello username.
package roster
