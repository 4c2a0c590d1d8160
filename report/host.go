package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host describes the machine a run executed on.
type Host struct {
	Hostname     string `json:"hostname,omitempty"`
	OS           string `json:"os,omitempty"`
	Platform     string `json:"platform,omitempty"`
	Kernel       string `json:"kernel,omitempty"`
	CPUModel     string `json:"cpu_model,omitempty"`
	LogicalCores int    `json:"logical_cores,omitempty"`
	MemoryBytes  uint64 `json:"memory_bytes,omitempty"`
}

// CollectHost gathers host facts. Facts that cannot be read are left
// empty; the returned error joins the individual failures.
func CollectHost(ctx context.Context) (Host, error) {
	var (
		h    Host
		errs []string
	)

	if info, err := host.InfoWithContext(ctx); err == nil {
		h.Hostname = info.Hostname
		h.OS = info.OS
		h.Platform = strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		h.Kernel = info.KernelVersion
	} else {
		errs = append(errs, "host: "+err.Error())
	}

	if infos, err := cpu.InfoWithContext(ctx); err == nil && len(infos) > 0 {
		h.CPUModel = infos[0].ModelName
	} else if err != nil {
		errs = append(errs, "cpu: "+err.Error())
	}

	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		h.LogicalCores = n
	} else {
		errs = append(errs, "cores: "+err.Error())
	}

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		h.MemoryBytes = vm.Total
	} else {
		errs = append(errs, "memory: "+err.Error())
	}

	if len(errs) > 0 {
		return h, fmt.Errorf("collect host facts: %s", strings.Join(errs, "; "))
	}

	return h, nil
}

// String renders the host on one line, omitting unknown facts.
func (h Host) String() string {
	var parts []string

	if h.CPUModel != "" {
		parts = append(parts, h.CPUModel)
	}
	if h.LogicalCores > 0 {
		parts = append(parts, fmt.Sprintf("%d cores", h.LogicalCores))
	}
	if h.MemoryBytes > 0 {
		parts = append(parts, formatBytes(h.MemoryBytes)+" RAM")
	}
	if h.Platform != "" {
		parts = append(parts, h.Platform)
	} else if h.OS != "" {
		parts = append(parts, h.OS)
	}

	return strings.Join(parts, ", ")
}

// Instance is the short machine label used as the CSV row prefix.
func (h Host) Instance() string {
	if h.Hostname != "" {
		return h.Hostname
	}

	return h.OS
}
