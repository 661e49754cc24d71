// Package service holds the people business operations.
//
// Handlers hand it already-parsed values; it talks to the repository
// through a narrow store interface, records the people metrics and wraps
// storage failures with the operation that hit them.
package service
