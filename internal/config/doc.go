// Package config loads, normalizes, and validates playbridge configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// PLAYBRIDGE_API_TOKEN and PLAYBRIDGE_CATALOG_URL. The Config type centralizes
// every knob the daemon and CLI need so both sides agree on the bind address,
// readiness strategy and cache policy.
package config
