package out

import (
	"context"

	"github.com/bnema/virtdock/internal/domain"
)

// EnvLoader defines the contract for loading extra environment variables.
type EnvLoader interface {
	// LoadEnvFile loads the variables declared in an env file, sorted by name.
	LoadEnvFile(ctx context.Context, path string) ([]domain.EnvVar, error)
}
