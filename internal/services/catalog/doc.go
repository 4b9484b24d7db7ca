// Package catalog is the host's client for the upstream playlist catalog.
//
// Requests carry the credential headers written by the auth package. HTTP
// failures are tagged with services error markers so callers can tell
// missing credentials from upstream outages.
package catalog
