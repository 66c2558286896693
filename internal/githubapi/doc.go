// Package githubapi drives the GitHub REST API through go-github for the github command namespace.
package githubapi
