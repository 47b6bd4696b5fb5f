package translate

import (
	"context"

	"github.com/bnema/zerowrap"

	"github.com/bnema/virtdock/internal/domain"
	"github.com/bnema/virtdock/pkg/jsondoc"
)

// buildInitCommand walks Config.Entrypoint then Config.Cmd as one sequence.
// The first element becomes the init path, the rest its arguments.
func buildInitCommand(def *domain.Definition, config jsondoc.Object) error {
	seen := 0
	appendArg := func(_ int, v jsondoc.Value) error {
		arg, err := v.String()
		if err != nil {
			return malformed(err)
		}
		if seen == 0 {
			def.OS.Init = arg
		} else {
			def.OS.InitArgs = append(def.OS.InitArgs, arg)
		}
		seen++
		return nil
	}

	for _, key := range []string{keyEntrypoint, keyCmd} {
		arr, ok, err := config.Array(key)
		if err != nil {
			return malformed(err)
		}
		if !ok {
			continue
		}
		if err := arr.Each(appendArg); err != nil {
			return err
		}
	}
	return nil
}

// buildEnv appends Config.Env entries in order, without deduplication.
// An entry with no '=' keeps the whole string as the name with an empty
// value and is reported as a warning.
func buildEnv(ctx context.Context, def *domain.Definition, config jsondoc.Object) error {
	arr, ok, err := config.Array(keyEnv)
	if err != nil {
		return malformed(err)
	}
	if !ok {
		return nil
	}

	log := zerowrap.FromCtx(ctx)
	return arr.Each(func(_ int, v jsondoc.Value) error {
		entry, err := v.String()
		if err != nil {
			return malformed(err)
		}

		env, found := domain.SplitEnvEntry(entry)
		if !found {
			log.Warn().Str(zerowrap.FieldPath, v.Path()).Str("entry", entry).Msg("env entry has no '=', using empty value")
			def.AddWarning("%s: %q has no '=', using empty value", v.Path(), entry)
		}
		def.OS.InitEnv = append(def.OS.InitEnv, env)
		return nil
	})
}
