package observability

import (
	"fmt"
	"os"

	"github.com/shirou/gopsutil/process"
)

// ProcessUsage is the resource footprint of the relay process.
type ProcessUsage struct {
	RSSMb      uint64
	CPUPercent float64
	Threads    int32
}

// CurrentProcessUsage reads the footprint of the running process from the OS.
func CurrentProcessUsage() (ProcessUsage, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return ProcessUsage{}, fmt.Errorf("process lookup: %w", err)
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return ProcessUsage{}, fmt.Errorf("memory info: %w", err)
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return ProcessUsage{}, fmt.Errorf("cpu usage: %w", err)
	}
	threads, err := p.NumThreads()
	if err != nil {
		return ProcessUsage{}, fmt.Errorf("threads: %w", err)
	}
	return ProcessUsage{
		RSSMb:      mem.RSS / 1024 / 1024,
		CPUPercent: cpu,
		Threads:    threads,
	}, nil
}

func (u ProcessUsage) LogArgs() []any {
	return []any{"rss_mb", u.RSSMb, "cpu_percent", fmt.Sprintf("%.1f", u.CPUPercent), "threads", u.Threads}
}
