// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown releases the resources behind a component.
type GracefulShutdown interface {
	// Shutdown releases backing memory and detaches observers.
	// Calling it more than once returns an error.
	Shutdown() error
}
