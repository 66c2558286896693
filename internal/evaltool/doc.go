// Package evaltool prints the SQL that seeds groups and users of the evaluation tool database
// from the roster. It works offline and needs no credentials.
package evaltool
