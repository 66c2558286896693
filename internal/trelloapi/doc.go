// Package trelloapi drives the Trello REST API through adlio/trello for the trello command namespace.
package trelloapi
