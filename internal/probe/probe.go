// Package probe reads the live state of the host that provisioning steps
// branch on: OS release, kernel, virtualization, architecture, interpreter
// and installed runtime.
//
// Probing is side-effect free and never cached. A step that depends on a fact
// calls Probe itself, so it sees changes made by earlier steps in the same run.
package probe

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/shell"
)

const (
	osReleasePath      = "/etc/os-release"
	procVersionPath    = "/proc/version"
	rebootRequiredPath = "/var/run/reboot-required"

	// DefaultSourceListPath is where the vendor package source is registered.
	DefaultSourceListPath = "/etc/apt/sources.list.d/furiosa.list"

	// RuntimePackage is the package whose installed version is reported as
	// the accelerator runtime version.
	RuntimePackage = "furiosa-pert-rngd"
)

// virtualizationMarkers are matched case-insensitively against /proc/version.
var virtualizationMarkers = []string{"microsoft", "wsl"}

// debianArch maps `uname -m` machine names to Debian architectures.
var debianArch = map[string]string{
	"x86_64":  "amd64",
	"amd64":   "amd64",
	"aarch64": "arm64",
	"arm64":   "arm64",
	"i386":    "i386",
	"i686":    "i386",
	"armv7l":  "armhf",
	"ppc64le": "ppc64el",
	"s390x":   "s390x",
}

// Host is the read-only view of a machine the probe needs.
type Host interface {
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Output(ctx context.Context, command string) (string, error)
}

// Version is an interpreter major.minor pair. The zero value means unknown.
type Version struct {
	Major int
	Minor int
}

// Known reports whether the version was read.
func (v Version) Known() bool { return v.Major > 0 }

func (v Version) String() string {
	if !v.Known() {
		return "unknown"
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// Facts is one snapshot of the host.
type Facts struct {
	// OSName is PRETTY_NAME from os-release, for display.
	OSName string

	// Codename is VERSION_CODENAME (or UBUNTU_CODENAME). Empty means unknown.
	Codename string

	// KernelRelease is the output of uname -r.
	KernelRelease string

	// KernelVersion is the raw /proc/version line.
	KernelVersion string

	// Architecture uses Debian naming (amd64, arm64, ...).
	Architecture string

	// Virtualized is true when the kernel identifies as a WSL kernel.
	Virtualized bool

	Interpreter Version

	// RuntimeVersion is the installed runtime package version, empty if absent.
	RuntimeVersion string

	// SourceRegistered reports whether the vendor package source list exists.
	SourceRegistered bool

	// RebootRequired reports whether the package manager asked for a reboot.
	RebootRequired bool

	// Problems lists facts that could not be read. Each is a
	// fault.ProbeUnavailable error; none of them stop provisioning.
	Problems []error
}

// HostProber probes a Host.
type HostProber struct {
	host           Host
	python         string
	sourceListPath string
}

// Option configures a HostProber.
type Option func(*HostProber)

// WithPython sets the interpreter used for interpreter and module probes.
func WithPython(python string) Option {
	return func(p *HostProber) { p.python = python }
}

// WithSourceListPath overrides the vendor source list location.
func WithSourceListPath(path string) Option {
	return func(p *HostProber) { p.sourceListPath = path }
}

// New creates a prober for host.
func New(host Host, opts ...Option) *HostProber {
	p := &HostProber{
		host:           host,
		python:         "python3",
		sourceListPath: DefaultSourceListPath,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe reads every fact. It never fails; unreadable facts are left at their
// zero value and recorded in Facts.Problems.
func (p *HostProber) Probe(ctx context.Context) *Facts {
	f := &Facts{}

	if data, err := p.host.ReadFile(ctx, osReleasePath); err != nil {
		f.problem("os-release", err)
	} else {
		release := parseOSRelease(data)
		f.OSName = release["PRETTY_NAME"]
		f.Codename = release["VERSION_CODENAME"]
		if f.Codename == "" {
			f.Codename = release["UBUNTU_CODENAME"]
		}
		if f.Codename == "" {
			f.problem("os-release", fmt.Errorf("%s has no VERSION_CODENAME", osReleasePath))
		}
	}

	if data, err := p.host.ReadFile(ctx, procVersionPath); err != nil {
		f.problem("kernel version", err)
	} else {
		f.KernelVersion = strings.TrimSpace(string(data))
		f.Virtualized = IsVirtualized(f.KernelVersion)
	}

	if out, err := p.host.Output(ctx, "uname -r"); err != nil {
		f.problem("kernel release", err)
	} else {
		f.KernelRelease = strings.TrimSpace(out)
	}

	if arch, err := p.architecture(ctx); err != nil {
		f.problem("architecture", err)
	} else {
		f.Architecture = arch
	}

	if v, err := p.interpreter(ctx); err != nil {
		f.problem("interpreter", err)
	} else {
		f.Interpreter = v
	}

	if out, err := p.host.Output(ctx, "dpkg-query -W -f='${Version}' "+RuntimePackage); err == nil {
		f.RuntimeVersion = strings.TrimSpace(out)
	}

	_, err := p.host.ReadFile(ctx, p.sourceListPath)
	f.SourceRegistered = err == nil

	_, err = p.host.ReadFile(ctx, rebootRequiredPath)
	f.RebootRequired = err == nil

	return f
}

// HasCommand reports whether name resolves on the host's PATH.
func (p *HostProber) HasCommand(ctx context.Context, name string) bool {
	_, err := p.host.Output(ctx, "command -v "+shell.Quote(name))
	return err == nil
}

// ModuleVersion imports a Python module with the configured interpreter and
// returns its __version__. ok is false when the import fails.
func (p *HostProber) ModuleVersion(ctx context.Context, module string) (version string, ok bool) {
	script := `import importlib, sys; m = importlib.import_module(sys.argv[1]); print(getattr(m, "__version__", ""))`
	out, err := p.host.Output(ctx, shell.Join(p.python, "-c", script, module))
	if err != nil {
		return "", false
	}
	return lastLine(out), true
}

// PathExists reports whether path exists on the host.
func (p *HostProber) PathExists(ctx context.Context, path string) bool {
	_, err := p.host.Output(ctx, "test -e "+shell.Quote(path))
	return err == nil
}

// SourceListPath returns the vendor source list location this prober checks.
func (p *HostProber) SourceListPath() string {
	return p.sourceListPath
}

// architecture asks dpkg first, then maps the kernel's machine name. Both
// run on the probed host, which may not be the machine running furiosa-env.
func (p *HostProber) architecture(ctx context.Context) (string, error) {
	if out, err := p.host.Output(ctx, "dpkg --print-architecture"); err == nil {
		if arch := strings.TrimSpace(out); arch != "" {
			return arch, nil
		}
	}
	out, err := p.host.Output(ctx, "uname -m")
	if err != nil {
		return "", err
	}
	machine := strings.TrimSpace(out)
	if arch, ok := debianArch[machine]; ok {
		return arch, nil
	}
	return "", fmt.Errorf("unknown machine type %q", machine)
}

func (p *HostProber) interpreter(ctx context.Context) (Version, error) {
	script := `import sys; print("%d.%d" % sys.version_info[:2])`
	out, err := p.host.Output(ctx, shell.Join(p.python, "-c", script))
	if err != nil {
		return Version{}, err
	}
	return ParseVersion(lastLine(out))
}

func (f *Facts) problem(what string, err error) {
	f.Problems = append(f.Problems, fault.New(fault.ProbeUnavailable, what, err))
}

// IsVirtualized reports whether a kernel version string carries a known
// virtualization marker.
func IsVirtualized(kernelVersion string) bool {
	lower := strings.ToLower(kernelVersion)
	for _, marker := range virtualizationMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// ParseVersion parses "major.minor".
func ParseVersion(s string) (Version, error) {
	major, minor, ok := strings.Cut(strings.TrimSpace(s), ".")
	if !ok {
		return Version{}, fmt.Errorf("invalid interpreter version %q", s)
	}
	ma, err := strconv.Atoi(major)
	if err != nil {
		return Version{}, fmt.Errorf("invalid interpreter version %q: %w", s, err)
	}
	mi, err := strconv.Atoi(minor)
	if err != nil {
		return Version{}, fmt.Errorf("invalid interpreter version %q: %w", s, err)
	}
	return Version{Major: ma, Minor: mi}, nil
}

// parseOSRelease parses the KEY=VALUE format of os-release(5).
func parseOSRelease(data []byte) map[string]string {
	values := make(map[string]string)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		values[key] = unquote(value)
	}
	return values
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}

// lastLine returns the last non-empty line, skipping anything a login
// shell may have printed first.
func lastLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
