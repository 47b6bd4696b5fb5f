// Package filesource implements the config source adapter for local files.
package filesource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/domain"
)

// Stdin is the reference that reads the config from standard input.
const Stdin = "-"

// maxConfigSize bounds how much of a config file is read.
const maxConfigSize = 16 << 20 // 16MB

// Source implements the ConfigSource interface for files and stdin.
type Source struct {
	stdin io.Reader
}

// NewSource creates a file config source reading "-" from stdin.
func NewSource(stdin io.Reader) *Source {
	return &Source{stdin: stdin}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "file"
}

// Fetch reads the inspect JSON stored at path, or stdin for "-".
func (s *Source) Fetch(ctx context.Context, path string) ([]byte, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "adapter",
		zerowrap.FieldAdapter: "filesource",
		zerowrap.FieldAction:  "Fetch",
		zerowrap.FieldPath:    path,
	})
	log := zerowrap.FromCtx(ctx)

	if path == Stdin {
		if s.stdin == nil {
			return nil, fmt.Errorf("%w: no stdin attached", domain.ErrSourceUnavailable)
		}
		return readLimited(s.stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrContainerNotFound, path)
		}
		return nil, log.WrapErr(err, "failed to open config file")
	}
	defer f.Close()

	data, err := readLimited(f)
	if err != nil {
		return nil, log.WrapErr(err, "failed to read config file")
	}

	log.Debug().Int("bytes", len(data)).Msg("config file read")
	return data, nil
}

func readLimited(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxConfigSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxConfigSize {
		return nil, fmt.Errorf("config exceeds %d bytes", maxConfigSize)
	}
	return data, nil
}
