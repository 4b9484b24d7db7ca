// Package auth turns request headers pasted from a signed-in browser session
// into the credential file the catalog client authenticates with.
package auth
