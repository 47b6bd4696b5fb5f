package encoding

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/bnema/virtdock/internal/domain"
)

// document is the JSON/YAML view of a definition.
type document struct {
	Name             string            `json:"name" yaml:"name"`
	UUID             string            `json:"uuid" yaml:"uuid"`
	VirtType         string            `json:"virt_type" yaml:"virt_type"`
	Vcpus            uint              `json:"vcpus" yaml:"vcpus"`
	MaxVcpus         uint              `json:"max_vcpus" yaml:"max_vcpus"`
	MemoryKiB        uint64            `json:"memory_kib" yaml:"memory_kib"`
	CurrentMemoryKiB uint64            `json:"current_memory_kib" yaml:"current_memory_kib"`
	OS               osDocument        `json:"os" yaml:"os"`
	Clock            clockDocument     `json:"clock" yaml:"clock"`
	Lifecycle        lifecycleDocument `json:"lifecycle" yaml:"lifecycle"`
	Warnings         []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

type osDocument struct {
	Type     string        `json:"type" yaml:"type"`
	Init     string        `json:"init,omitempty" yaml:"init,omitempty"`
	InitArgs []string      `json:"init_args" yaml:"init_args"`
	InitEnv  []envDocument `json:"init_env" yaml:"init_env"`
}

type envDocument struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type clockDocument struct {
	Offset string `json:"offset" yaml:"offset"`
}

type lifecycleDocument struct {
	OnPoweroff string `json:"on_poweroff" yaml:"on_poweroff"`
	OnReboot   string `json:"on_reboot" yaml:"on_reboot"`
	OnCrash    string `json:"on_crash" yaml:"on_crash"`
}

func toDocument(def *domain.Definition) document {
	def = withIdentity(def)

	env := make([]envDocument, 0, len(def.OS.InitEnv))
	for _, e := range def.OS.InitEnv {
		env = append(env, envDocument{Name: e.Name, Value: e.Value})
	}
	args := def.OS.InitArgs
	if args == nil {
		args = []string{}
	}

	return document{
		Name:             def.Name,
		UUID:             def.UUID,
		VirtType:         string(def.VirtType),
		Vcpus:            def.Vcpus,
		MaxVcpus:         def.MaxVcpus,
		MemoryKiB:        def.MemoryTotalKiB,
		CurrentMemoryKiB: def.CurrentBalloonKiB,
		OS: osDocument{
			Type:     string(def.OS.Type),
			Init:     def.OS.Init,
			InitArgs: args,
			InitEnv:  env,
		},
		Clock: clockDocument{Offset: string(def.Clock.Offset)},
		Lifecycle: lifecycleDocument{
			OnPoweroff: string(def.OnPoweroff),
			OnReboot:   string(def.OnReboot),
			OnCrash:    string(def.OnCrash),
		},
		Warnings: def.Warnings,
	}
}

// YAMLEncoder renders the definition as YAML.
type YAMLEncoder struct{}

func (YAMLEncoder) Format() string      { return "yaml" }
func (YAMLEncoder) ContentType() string { return "application/yaml" }

func (YAMLEncoder) Encode(w io.Writer, def *domain.Definition) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toDocument(def)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}

// JSONEncoder renders the definition as indented JSON.
type JSONEncoder struct{}

func (JSONEncoder) Format() string      { return "json" }
func (JSONEncoder) ContentType() string { return "application/json" }

func (JSONEncoder) Encode(w io.Writer, def *domain.Definition) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toDocument(def)); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
