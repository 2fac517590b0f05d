//go:build linux

package systeminfo

import "golang.org/x/sys/unix"

// TotalMemoryBytes reads totalram from sysinfo(2), scaled by the kernel's
// reported memory unit (historically 1 byte on modern kernels, but the
// syscall doesn't guarantee it).
func TotalMemoryBytes() (uint64, error) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0, err
	}
	return info.Totalram * uint64(info.Unit), nil
}
