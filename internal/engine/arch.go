// Completion: 100% - Host detection complete
package engine

import (
	"fmt"
	"runtime"
	"strings"
)

// Arch is a CPU architecture, named the way toolchains and uname name it
type Arch string

// OS is an operating system kernel
type OS string

const (
	ArchX86_64 Arch = "x86_64"
	ArchARM64  Arch = "aarch64"

	OSLinux   OS = "linux"
	OSDarwin  OS = "darwin"
	OSFreeBSD OS = "freebsd"
	OSWindows OS = "windows"
)

var archAliases = map[string]Arch{
	"x86_64": ArchX86_64, "amd64": ArchX86_64, "x86-64": ArchX86_64, "x64": ArchX86_64,
	"aarch64": ArchARM64, "arm64": ArchARM64,
}

var osAliases = map[string]OS{
	"linux":   OSLinux,
	"darwin":  OSDarwin,
	"macos":   OSDarwin,
	"freebsd": OSFreeBSD,
	"windows": OSWindows,
	"win":     OSWindows,
}

// ParseArch accepts GOARCH values as well as the usual aliases
func ParseArch(s string) (Arch, error) {
	if a, ok := archAliases[strings.ToLower(s)]; ok {
		return a, nil
	}
	return "", fmt.Errorf("unsupported architecture: %s", s)
}

// ParseOS accepts GOOS values as well as the usual aliases
func ParseOS(s string) (OS, error) {
	if o, ok := osAliases[strings.ToLower(s)]; ok {
		return o, nil
	}
	return "", fmt.Errorf("unsupported OS: %s", s)
}

// Platform is an (architecture, OS) pair. Unrecognized parts are left empty.
type Platform struct {
	Arch Arch
	OS   OS
}

// HostPlatform describes the machine this process runs on
func HostPlatform() Platform {
	arch, _ := ParseArch(runtime.GOARCH)
	goos, _ := ParseOS(runtime.GOOS)
	return Platform{Arch: arch, OS: goos}
}

func (p Platform) String() string {
	arch, goos := string(p.Arch), string(p.OS)
	if arch == "" {
		arch = "unknown"
	}
	if goos == "" {
		goos = "unknown"
	}
	return arch + "-" + goos
}

// CanExecute reports whether code from the x64 backend runs natively on p.
// The loader needs mmap and mprotect, so Windows is excluded.
func (p Platform) CanExecute() bool {
	if p.Arch != ArchX86_64 {
		return false
	}
	return p.OS == OSLinux || p.OS == OSDarwin || p.OS == OSFreeBSD
}
