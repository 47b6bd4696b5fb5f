// Package translate implements the Docker config translation use case.
package translate

import (
	"context"
	"errors"
	"time"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/boundaries/out"
	"github.com/bnema/virtdock/internal/domain"
	"github.com/bnema/virtdock/pkg/jsondoc"
)

// Keys of the Docker inspect document read by the translator.
const (
	keyHostConfig = "HostConfig"
	keyConfig     = "Config"
	keyNanoCPUs   = "NanoCpus"
	keyMemory     = "Memory"
	keyEntrypoint = "Entrypoint"
	keyCmd        = "Cmd"
	keyEnv        = "Env"
)

// Service implements the Translator interface.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	recorder out.TranslationRecorder
}

// NewService creates a new translation service. recorder may be nil.
func NewService(recorder out.TranslationRecorder) *Service {
	return &Service{recorder: recorder}
}

// Translate parses raw inspect JSON and builds a definition.
func (s *Service) Translate(ctx context.Context, data []byte) (*domain.Definition, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:   "usecase",
		zerowrap.FieldUseCase: "Translate",
	})
	log := zerowrap.FromCtx(ctx)

	start := time.Now()
	def, err := build(ctx, data)
	s.record(ctx, time.Since(start), err)
	if err != nil {
		log.Debug().Err(err).Str("kind", domain.ErrorKind(err)).Msg("translation failed")
		return nil, err
	}

	log.Debug().
		Uint("vcpus", def.Vcpus).
		Uint64("memory_kib", def.MemoryTotalKiB).
		Str("init", def.OS.Init).
		Int("args", len(def.OS.InitArgs)).
		Int("env", len(def.OS.InitEnv)).
		Msg("config translated")

	return def, nil
}

// TranslateString is Translate for callers holding the config as a string.
func (s *Service) TranslateString(ctx context.Context, config string) (*domain.Definition, error) {
	return s.Translate(ctx, []byte(config))
}

// TranslateFrom fetches the config for ref from source and translates it.
func (s *Service) TranslateFrom(ctx context.Context, source out.ConfigSource, ref string) (*domain.Definition, error) {
	ctx = zerowrap.CtxWithFields(ctx, map[string]any{
		zerowrap.FieldLayer:    "usecase",
		zerowrap.FieldUseCase:  "TranslateFrom",
		zerowrap.FieldEntityID: ref,
		"source":               source.Name(),
	})
	log := zerowrap.FromCtx(ctx)

	data, err := source.Fetch(ctx, ref)
	if err != nil {
		return nil, log.WrapErr(err, "failed to fetch config")
	}

	return s.Translate(ctx, data)
}

func (s *Service) record(ctx context.Context, elapsed time.Duration, err error) {
	if s.recorder == nil {
		return
	}
	s.recorder.RecordTranslation(ctx, elapsed, domain.ErrorKind(err))
}

// build runs the translation pass. Steps run in a fixed order and the first
// failure aborts the pass; the partially built definition is dropped.
func build(ctx context.Context, data []byte) (*domain.Definition, error) {
	root, err := jsondoc.Parse(data)
	if err != nil {
		return nil, domain.NewTranslationError(domain.ErrInvalidJSON, "", err)
	}

	def := domain.NewDefinition()

	host, ok, err := root.Object(keyHostConfig)
	if err != nil {
		return nil, malformed(err)
	}
	if ok {
		if err := parseCPU(def, host); err != nil {
			return nil, err
		}
		if err := parseMemory(def, host); err != nil {
			return nil, err
		}
	}

	config, ok, err := root.Object(keyConfig)
	if err != nil {
		return nil, malformed(err)
	}
	if ok {
		if err := buildInitCommand(def, config); err != nil {
			return nil, err
		}
		if err := buildEnv(ctx, def, config); err != nil {
			return nil, err
		}
	}

	def.ApplyFixedPolicy()
	return def, nil
}

// malformed converts an accessor type mismatch into a MalformedField error.
func malformed(err error) error {
	var typeErr *jsondoc.TypeError
	if errors.As(err, &typeErr) {
		return domain.NewTranslationError(domain.ErrMalformedField, typeErr.Path, err)
	}
	return domain.NewTranslationError(domain.ErrMalformedField, "", err)
}

func fieldPath(obj jsondoc.Object, key string) string {
	if obj.Path() == "" {
		return key
	}
	return obj.Path() + "." + key
}
