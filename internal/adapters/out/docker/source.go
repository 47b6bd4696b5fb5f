// Package docker implements the config source adapter using the Docker API.
package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/zerowrap"
	cerrdefs "github.com/containerd/errdefs"
	"github.com/docker/docker/client"

	"github.com/bnema/virtdock/internal/domain"
)

// Source implements the ConfigSource interface using `docker inspect`.
// Containers are looked up first; when no container matches, the ref is
// inspected as an image, whose document carries Config but no HostConfig.
type Source struct {
	client *client.Client
}

// NewSource creates a Docker config source. An empty host uses DOCKER_HOST
// or the platform default socket.
func NewSource(host string) (*Source, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Source{
		client: cli,
	}, nil
}

// NewSourceWithClient creates a Docker config source with a custom client (for testing).
func NewSourceWithClient(cli *client.Client) *Source {
	return &Source{
		client: cli,
	}
}

// Name identifies the source in logs.
func (s *Source) Name() string {
	return "docker"
}

// Fetch returns the raw inspect JSON for a container or image reference.
func (s *Source) Fetch(ctx context.Context, ref string) ([]byte, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "adapter",
		zerowrap.FieldAdapter:  "docker",
		zerowrap.FieldAction:   "Fetch",
		zerowrap.FieldEntityID: ref,
	})
	log := zerowrap.FromCtx(ctx)

	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("%w: empty reference", domain.ErrContainerNotFound)
	}

	_, raw, err := s.client.ContainerInspectWithRaw(ctx, ref, false)
	if err == nil {
		log.Debug().Int("bytes", len(raw)).Msg("container config fetched")
		return raw, nil
	}
	if !cerrdefs.IsNotFound(err) {
		return nil, log.WrapErr(err, "failed to inspect container")
	}

	log.Debug().Msg("no container matches, trying image")

	_, raw, err = s.client.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		if cerrdefs.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrContainerNotFound, ref)
		}
		return nil, log.WrapErr(err, "failed to inspect image")
	}

	log.Debug().Int("bytes", len(raw)).Msg("image config fetched")
	return raw, nil
}

// Close releases the underlying Docker client.
func (s *Source) Close() error {
	return s.client.Close()
}
