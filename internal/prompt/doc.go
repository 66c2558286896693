// Package prompt reads interactive answers from the operator: yes/no confirmations before
// destructive commands and login credentials for the authorize commands.
package prompt
