// Package encoding implements the definition encoders: libvirt domain XML,
// YAML and JSON.
package encoding

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/bnema/virtdock/internal/boundaries/out"
	"github.com/bnema/virtdock/internal/domain"
)

// namePrefix prefixes generated domain names.
const namePrefix = "virtdock-"

var encoders = map[string]func() out.DefinitionEncoder{
	"xml":  func() out.DefinitionEncoder { return XMLEncoder{} },
	"yaml": func() out.DefinitionEncoder { return YAMLEncoder{} },
	"json": func() out.DefinitionEncoder { return JSONEncoder{} },
}

// New returns the encoder registered for format.
func New(format string) (out.DefinitionEncoder, error) {
	ctor, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q (supported: %v)", domain.ErrUnknownFormat, format, Formats())
	}
	return ctor(), nil
}

// Formats lists the supported format names, sorted.
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// withIdentity returns a copy of def carrying a UUID and a name.
// Serialized definitions need both; the translator assigns neither.
func withIdentity(def *domain.Definition) *domain.Definition {
	c := def.Clone()
	if c.UUID == "" {
		c.UUID = uuid.NewString()
	}
	if c.Name == "" {
		c.Name = namePrefix + c.UUID[:8]
	}
	return c
}
