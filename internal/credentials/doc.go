// Package credentials resolves API tokens and keys that the configuration may give
// literally or as env:NAME and file:PATH references.
package credentials
