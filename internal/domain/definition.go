// Package domain contains pure business types without external dependencies.
// These types are used throughout the application and have no tags or framework dependencies.
package domain

import "fmt"

const (
	// DefaultMemoryKiB is the memory ceiling applied when the source config sets none (64 MiB).
	DefaultMemoryKiB uint64 = 64 * 1024

	// MaxVcpuLimit is the highest vCPU count a definition accepts.
	MaxVcpuLimit uint = 4096

	// NanoCPUsPerCPU is the number of NanoCpus units in one whole CPU.
	NanoCPUsPerCPU int64 = 1_000_000_000

	// BytesPerKiB converts byte quantities to KiB.
	BytesPerKiB uint64 = 1024
)

// VirtType is the hypervisor driver a definition targets.
type VirtType string

const (
	VirtTypeLXC VirtType = "lxc"
)

// OSType is the guest boot model.
type OSType string

const (
	// OSTypeExe launches a single executable as the container init process.
	OSTypeExe OSType = "exe"
)

// ClockOffset is the guest clock reference.
type ClockOffset string

const (
	ClockOffsetUTC ClockOffset = "utc"
)

// LifecycleAction is what the supervisor does on a guest lifecycle event.
type LifecycleAction string

const (
	LifecycleRestart LifecycleAction = "restart"
	LifecycleDestroy LifecycleAction = "destroy"
)

// EnvVar is a single environment entry passed to the init process.
type EnvVar struct {
	Name  string
	Value string
}

// String renders the entry in NAME=VALUE form.
func (e EnvVar) String() string {
	return e.Name + "=" + e.Value
}

// OSConfig describes how the container is booted.
type OSConfig struct {
	Type     OSType
	Init     string
	InitArgs []string
	InitEnv  []EnvVar
}

// Clock holds the guest clock settings.
type Clock struct {
	Offset ClockOffset
}

// Definition describes how a container-style VM is launched.
type Definition struct {
	ID   int
	Name string
	UUID string

	VirtType VirtType

	Vcpus    uint
	MaxVcpus uint

	MemoryTotalKiB    uint64
	CurrentBalloonKiB uint64

	OS    OSConfig
	Clock Clock

	OnReboot   LifecycleAction
	OnCrash    LifecycleAction
	OnPoweroff LifecycleAction

	// Warnings lists non-fatal oddities found while building the definition.
	Warnings []string
}

// NewDefinition returns a definition with the defaults every translation starts from.
func NewDefinition() *Definition {
	return &Definition{
		ID:                -1,
		MemoryTotalKiB:    DefaultMemoryKiB,
		CurrentBalloonKiB: DefaultMemoryKiB,
		OS: OSConfig{
			InitArgs: []string{},
			InitEnv:  []EnvVar{},
		},
	}
}

// SetVcpusMax sets the maximum vCPU count. Current vCPUs above the new
// maximum are clamped down to it.
func (d *Definition) SetVcpusMax(n uint) error {
	if n > MaxVcpuLimit {
		return fmt.Errorf("%w: maximum vcpu count %d exceeds limit %d", ErrConstraintViolation, n, MaxVcpuLimit)
	}
	d.MaxVcpus = n
	if d.Vcpus > n {
		d.Vcpus = n
	}
	return nil
}

// SetVcpus sets the current vCPU count, which may not exceed the maximum.
func (d *Definition) SetVcpus(n uint) error {
	if n > d.MaxVcpus {
		return fmt.Errorf("%w: vcpu count %d exceeds maximum %d", ErrConstraintViolation, n, d.MaxVcpus)
	}
	d.Vcpus = n
	return nil
}

// SetMemory sets both the total memory and the current balloon size.
func (d *Definition) SetMemory(kib uint64) {
	d.MemoryTotalKiB = kib
	d.CurrentBalloonKiB = kib
}

// AddWarning records a non-fatal translation oddity.
func (d *Definition) AddWarning(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

// ApplyFixedPolicy sets the fields every container definition carries
// regardless of the source configuration.
func (d *Definition) ApplyFixedPolicy() {
	d.Clock.Offset = ClockOffsetUTC
	d.OnReboot = LifecycleRestart
	d.OnCrash = LifecycleDestroy
	d.OnPoweroff = LifecycleDestroy
	d.VirtType = VirtTypeLXC
	d.OS.Type = OSTypeExe
}

// Clone returns a deep copy of the definition.
func (d *Definition) Clone() *Definition {
	c := *d
	c.OS.InitArgs = append([]string{}, d.OS.InitArgs...)
	c.OS.InitEnv = append([]EnvVar{}, d.OS.InitEnv...)
	if d.Warnings != nil {
		c.Warnings = append([]string{}, d.Warnings...)
	}
	return &c
}

// Environ returns the init environment in NAME=VALUE form, in order.
func (d *Definition) Environ() []string {
	env := make([]string, 0, len(d.OS.InitEnv))
	for _, e := range d.OS.InitEnv {
		env = append(env, e.String())
	}
	return env
}
