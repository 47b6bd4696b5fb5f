package translate

import (
	"fmt"

	"github.com/bnema/virtdock/internal/domain"
	"github.com/bnema/virtdock/pkg/jsondoc"
)

// parseCPU sets the vCPU count from HostConfig.NanoCpus.
// The count is truncated toward zero with integer division, so
// 999999999 NanoCpus yield 0 vCPUs.
func parseCPU(def *domain.Definition, host jsondoc.Object) error {
	nano, ok, err := host.Int64(keyNanoCPUs)
	if err != nil {
		return malformed(err)
	}
	if !ok {
		return nil
	}

	path := fieldPath(host, keyNanoCPUs)
	count := nano / domain.NanoCPUsPerCPU
	if count < 0 {
		return domain.NewTranslationError(domain.ErrConstraintViolation, path,
			fmt.Errorf("negative vcpu count %d", count))
	}
	if count > int64(domain.MaxVcpuLimit) {
		return domain.NewTranslationError(domain.ErrConstraintViolation, path,
			fmt.Errorf("vcpu count %d exceeds limit %d", count, domain.MaxVcpuLimit))
	}

	vcpus := uint(count)
	if err := def.SetVcpusMax(vcpus); err != nil {
		return domain.NewTranslationError(domain.ErrConstraintViolation, path, err)
	}
	if err := def.SetVcpus(vcpus); err != nil {
		return domain.NewTranslationError(domain.ErrConstraintViolation, path, err)
	}
	return nil
}

// parseMemory sets total and balloon memory from HostConfig.Memory (bytes).
func parseMemory(def *domain.Definition, host jsondoc.Object) error {
	mem, ok, err := host.Uint64(keyMemory)
	if err != nil {
		return malformed(err)
	}
	if !ok {
		return nil
	}

	def.SetMemory(mem / domain.BytesPerKiB)
	return nil
}
