// Package driving provides interfaces implemented by the application core
// and consumed by user-facing adapters (primary/inbound ports).
package driving
