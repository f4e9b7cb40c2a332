// Package identity adapts a persisted account into the read-only view the
// authentication subsystem consumes: who the user is, the stored credential
// hash to check against, and the authorities granted.
package identity
