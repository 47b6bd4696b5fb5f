package cli

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/bnema/virtdock/internal/adapters/out/filesource"
	"github.com/bnema/virtdock/internal/app"
	"github.com/bnema/virtdock/internal/boundaries/out"
	"github.com/bnema/virtdock/internal/domain"
	"github.com/bnema/virtdock/internal/usecase/translate"
	"github.com/bnema/virtdock/pkg/bytesize"
)

// conversionFlags are the flags shared by convert and inspect.
type conversionFlags struct {
	format   string
	output   string
	envFiles []string
	env      []string
	name     string
	memory   string
	cpus     uint
	jobs     int
	summary  bool
}

func (f *conversionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.format, "format", "f", "", "Output format: xml, yaml or json (default from config)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file, or directory when converting several inputs (default stdout)")
	cmd.Flags().StringArrayVar(&f.envFiles, "env-file", nil, "Append variables from a .env file (repeatable)")
	cmd.Flags().StringArrayVarP(&f.env, "env", "e", nil, "Append a KEY=VALUE variable (repeatable)")
	cmd.Flags().StringVar(&f.name, "name", "", "Domain name (single input only)")
	cmd.Flags().StringVar(&f.memory, "memory", "", "Override the memory limit, e.g. 512m or 2GiB")
	cmd.Flags().UintVar(&f.cpus, "cpus", 0, "Override the vCPU count")
	cmd.Flags().IntVarP(&f.jobs, "jobs", "j", 0, "Inputs translated in parallel (default from config)")
	cmd.Flags().BoolVar(&f.summary, "summary", false, "Print a summary table to stderr")
}

// overrides builds the operator overrides from the flags.
func (f *conversionFlags) overrides(ctx context.Context, loader out.EnvLoader) (translate.Overrides, error) {
	o := translate.Overrides{Name: f.name, Vcpus: f.cpus}

	if f.memory != "" {
		n, err := bytesize.Parse(f.memory)
		if err != nil {
			return o, fmt.Errorf("invalid --memory: %w", err)
		}
		if n < int64(domain.BytesPerKiB) {
			return o, fmt.Errorf("invalid --memory %q: must be at least 1KiB", f.memory)
		}
		o.MemoryBytes = n
	}

	for _, path := range f.envFiles {
		vars, err := loader.LoadEnvFile(ctx, path)
		if err != nil {
			return o, err
		}
		o.Env = append(o.Env, vars...)
	}

	vars, err := domain.ParseEnvAssignments(f.env)
	if err != nil {
		return o, fmt.Errorf("invalid --env: %w", err)
	}
	o.Env = append(o.Env, vars...)

	return o, nil
}

// conversion is the outcome of translating one input.
type conversion struct {
	ref string
	def *domain.Definition
}

// newConvertCmd creates the convert command.
func newConvertCmd(root *rootOptions) *cobra.Command {
	flags := &conversionFlags{}

	cmd := &cobra.Command{
		Use:   "convert [file...]",
		Short: "Convert saved 'docker inspect' output",
		Long: `Convert one or more files holding 'docker inspect' JSON for a single
container or image. With no file, or with '-', the JSON is read from stdin.`,
		Example: `  docker inspect web | jq '.[0]' | virtdock convert
  virtdock convert -f yaml --memory 512m web.json
  virtdock convert -o defs/ --summary web.json db.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = []string{filesource.Stdin}
			}

			ctx := cmd.Context()
			a, err := loadApp(ctx, cmd, root)
			if err != nil {
				return err
			}
			defer closeApp(ctx, a)

			return runConversion(a.Context(ctx), cmd, a, a.FileSource(cmd.InOrStdin()), args, flags)
		},
	}

	flags.register(cmd)
	return cmd
}

// runConversion translates every ref from source, applies the overrides
// and writes the encoded definitions. Any failure aborts the whole run.
func runConversion(ctx context.Context, cmd *cobra.Command, a *app.App, source out.ConfigSource, refs []string, flags *conversionFlags) error {
	if flags.name != "" && len(refs) > 1 {
		return fmt.Errorf("--name requires a single input, got %d", len(refs))
	}

	enc, err := a.Encoder(flags.format)
	if err != nil {
		return err
	}

	overrides, err := flags.overrides(ctx, a.EnvLoader)
	if err != nil {
		return err
	}

	jobs := flags.jobs
	if jobs <= 0 {
		jobs = a.Config.Convert.Jobs
	}

	results := make([]conversion, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, ref := range refs {
		g.Go(func() error {
			def, err := a.Translator.TranslateFrom(gctx, source, ref)
			if err != nil {
				return fmt.Errorf("%s: %w", ref, err)
			}
			if !overrides.IsZero() {
				if def, err = overrides.Apply(def); err != nil {
					return fmt.Errorf("%s: %w", ref, err)
				}
			}
			results[i] = conversion{ref: ref, def: def}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeResults(cmd.OutOrStdout(), results, enc, flags.output); err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	for _, res := range results {
		for _, warning := range res.def.Warnings {
			if err := cliWriteLine(stderr, cliRenderWarning(res.ref+": "+warning)); err != nil {
				return err
			}
		}
	}

	if flags.summary {
		return cliWriteLine(stderr, renderSummary(results))
	}
	return nil
}

// writeResults writes the encoded definitions to stdout (output empty or
// "-"), to a single file, or to one file per input inside a directory.
func writeResults(stdout io.Writer, results []conversion, enc out.DefinitionEncoder, output string) error {
	if output == "" || output == "-" {
		for i, res := range results {
			if i > 0 && enc.Format() == "yaml" {
				if _, err := io.WriteString(stdout, "---\n"); err != nil {
					return err
				}
			}
			if err := enc.Encode(stdout, res.def); err != nil {
				return err
			}
		}
		return nil
	}

	if len(results) == 1 {
		return writeFile(output, results[0].def, enc)
	}

	if err := os.MkdirAll(output, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	seen := make(map[string]string, len(results))
	for _, res := range results {
		name := outputName(res.ref, enc.Format())
		if prev, ok := seen[name]; ok {
			return fmt.Errorf("inputs %q and %q both map to %s", prev, res.ref, name)
		}
		seen[name] = res.ref
		if err := writeFile(filepath.Join(output, name), res.def, enc); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, def *domain.Definition, enc out.DefinitionEncoder) error {
	var buf bytes.Buffer
	if err := enc.Encode(&buf, def); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// outputName derives the per-input file name: the input's base name without
// extension, or the sanitized reference for Docker names and image tags.
func outputName(ref, format string) string {
	if ref == filesource.Stdin {
		return "stdin." + format
	}
	base := filepath.Base(ref)
	if ext := filepath.Ext(base); ext == ".json" {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.Trim(unsafeNameChars.ReplaceAllString(base, "_"), "_")
	if base == "" {
		base = "definition"
	}
	return base + "." + format
}

// closeApp flushes telemetry; failures are only logged.
func closeApp(ctx context.Context, a *app.App) {
	if err := a.Close(ctx); err != nil {
		a.Log.Warn().Err(err).Msg("failed to close application")
	}
}
