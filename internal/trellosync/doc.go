// Package trellosync implements the trello command namespace: authorization help, account
// validation, board reconciliation and bulk card creation.
package trellosync
