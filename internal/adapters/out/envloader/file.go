// Package envloader implements the environment variable loader adapter.
package envloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"

	"github.com/bnema/zerowrap"
	"github.com/joho/godotenv"

	"github.com/bnema/virtdock/internal/domain"
)

// FileLoader implements the EnvLoader interface using dotenv files.
type FileLoader struct {
	log zerowrap.Logger
}

// NewFileLoader creates a new file-based environment loader.
func NewFileLoader(log zerowrap.Logger) *FileLoader {
	return &FileLoader{log: log}
}

// LoadEnvFile parses a dotenv file. godotenv does not preserve declaration
// order, so entries are returned sorted by name for stable output.
func (l *FileLoader) LoadEnvFile(ctx context.Context, path string) ([]domain.EnvVar, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "envloader",
		zerowrap.FieldAction:  "LoadEnvFile",
		zerowrap.FieldPath:    path,
	})
	log := zerowrap.FromCtx(ctx)

	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrEnvFileNotFound, path)
		}
		return nil, log.WrapErr(err, "failed to open env file")
	}
	defer file.Close()

	values, err := godotenv.Parse(file)
	if err != nil {
		return nil, log.WrapErr(err, "failed to parse env file")
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	vars := make([]domain.EnvVar, 0, len(names))
	for _, name := range names {
		if err := domain.ValidateEnvKey(name); err != nil {
			return nil, err
		}
		vars = append(vars, domain.EnvVar{Name: name, Value: values[name]})
	}

	log.Debug().Int(zerowrap.FieldCount, len(vars)).Msg("env file loaded")
	return vars, nil
}
