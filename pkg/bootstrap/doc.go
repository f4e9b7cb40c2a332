// Package bootstrap wires the configured account store and ensures the first
// administrator account exists.
package bootstrap
