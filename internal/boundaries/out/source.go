// Package out defines the output ports implemented by adapters.
package out

import "context"

// ConfigSource defines the contract for fetching raw Docker config JSON.
type ConfigSource interface {
	// Fetch returns the inspect JSON document for ref.
	// The document carries the Config and, for containers, HostConfig objects.
	Fetch(ctx context.Context, ref string) ([]byte, error)

	// Name identifies the source in logs.
	Name() string
}
