// Package in defines the input ports the adapters drive.
package in

import (
	"context"

	"github.com/bnema/virtdock/internal/boundaries/out"
	"github.com/bnema/virtdock/internal/domain"
)

// Translator defines the contract for turning Docker configs into domain definitions.
type Translator interface {
	// Translate parses raw inspect JSON and builds a definition.
	// On failure the returned definition is nil and the error is a *domain.TranslationError.
	Translate(ctx context.Context, data []byte) (*domain.Definition, error)

	// TranslateString is Translate for callers holding the config as a string.
	TranslateString(ctx context.Context, config string) (*domain.Definition, error)

	// TranslateFrom fetches the config for ref from source and translates it.
	TranslateFrom(ctx context.Context, source out.ConfigSource, ref string) (*domain.Definition, error)
}
