//go:build darwin

// Package systeminfo reports total physical memory, consulted by the
// scheduler's hot-swap log lines (spec.md §5 memory discipline) on the
// unified-memory hardware this gateway targets. Grounded on the teacher's
// internal/systeminfo package, one file per GOOS exactly as the teacher
// splits it.
package systeminfo

import "golang.org/x/sys/unix"

// TotalMemoryBytes reads hw.memsize via sysctl — the unified pool shared
// between CPU and the Apple Silicon accelerator.
func TotalMemoryBytes() (uint64, error) {
	return unix.SysctlUint64("hw.memsize")
}
