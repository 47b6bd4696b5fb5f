package out

import (
	"io"

	"github.com/bnema/virtdock/internal/domain"
)

// DefinitionEncoder defines the contract for serializing a definition.
type DefinitionEncoder interface {
	// Encode writes def to w. Implementations must not mutate def.
	Encode(w io.Writer, def *domain.Definition) error

	// Format returns the format name, e.g. "xml".
	Format() string

	// ContentType returns the MIME type of the encoded output.
	ContentType() string
}
