package translate

import (
	"fmt"

	"github.com/bnema/virtdock/internal/domain"
)

// Overrides are operator adjustments applied on top of a translated definition.
// Zero values leave the translated field untouched.
type Overrides struct {
	Name        string
	MemoryBytes int64
	Vcpus       uint
	// Env is appended after the entries taken from Config.Env.
	Env []domain.EnvVar
}

// IsZero reports whether the overrides change nothing.
func (o Overrides) IsZero() bool {
	return o.Name == "" && o.MemoryBytes == 0 && o.Vcpus == 0 && len(o.Env) == 0
}

// Apply returns a copy of def with the overrides applied. def is left untouched.
func (o Overrides) Apply(def *domain.Definition) (*domain.Definition, error) {
	out := def.Clone()

	if o.Name != "" {
		out.Name = o.Name
	}

	if o.MemoryBytes < 0 {
		return nil, fmt.Errorf("%w: negative memory override %d", domain.ErrConstraintViolation, o.MemoryBytes)
	}
	if o.MemoryBytes > 0 {
		out.SetMemory(uint64(o.MemoryBytes) / domain.BytesPerKiB)
	}

	if o.Vcpus > 0 {
		if err := out.SetVcpusMax(o.Vcpus); err != nil {
			return nil, err
		}
		if err := out.SetVcpus(o.Vcpus); err != nil {
			return nil, err
		}
	}

	out.OS.InitEnv = append(out.OS.InitEnv, o.Env...)
	return out, nil
}
