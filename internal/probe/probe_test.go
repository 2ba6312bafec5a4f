package probe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/furiosa-env/internal/fault"
)

// fakeHost serves canned files and command outputs. Commands are matched by
// prefix so tests do not depend on exact quoting.
type fakeHost struct {
	files   map[string]string
	outputs map[string]string
	calls   []string
}

func (h *fakeHost) ReadFile(_ context.Context, path string) ([]byte, error) {
	data, ok := h.files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", path, os.ErrNotExist)
	}
	return []byte(data), nil
}

func (h *fakeHost) Output(_ context.Context, command string) (string, error) {
	h.calls = append(h.calls, command)
	for prefix, out := range h.outputs {
		if strings.HasPrefix(command, prefix) {
			return out, nil
		}
	}
	return "", errors.New("exit status 127")
}

const jammyOSRelease = `PRETTY_NAME="Ubuntu 22.04.4 LTS"
NAME="Ubuntu"
VERSION_ID="22.04"
VERSION_CODENAME=jammy
ID=ubuntu
UBUNTU_CODENAME=jammy
`

func newJammyHost() *fakeHost {
	return &fakeHost{
		files: map[string]string{
			osReleasePath:   jammyOSRelease,
			procVersionPath: "Linux version 6.5.0-35-generic (buildd@lcy02-amd64-079) #35~22.04.1-Ubuntu SMP",
		},
		outputs: map[string]string{
			"uname -r":                  "6.5.0-35-generic\n",
			"dpkg --print-architecture": "amd64\n",
			"python3 -c":                "3.10\n",
		},
	}
}

func TestFacts_Jammy(t *testing.T) {
	t.Parallel()
	host := newJammyHost()

	f := New(host).Probe(context.Background())

	assert.Equal(t, "jammy", f.Codename)
	assert.Equal(t, "Ubuntu 22.04.4 LTS", f.OSName)
	assert.Equal(t, "6.5.0-35-generic", f.KernelRelease)
	assert.Equal(t, "amd64", f.Architecture)
	assert.False(t, f.Virtualized)
	assert.Equal(t, Version{Major: 3, Minor: 10}, f.Interpreter)
	assert.Empty(t, f.RuntimeVersion)
	assert.False(t, f.SourceRegistered)
	assert.False(t, f.RebootRequired)
	assert.Empty(t, f.Problems)
}

func TestFacts_WSLKernelIsVirtualized(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	host.files[procVersionPath] = "Linux version 5.15.153.1-microsoft-standard-WSL2 (root@941d701f84f1)"

	f := New(host).Probe(context.Background())

	assert.True(t, f.Virtualized)
}

func TestFacts_MissingOSReleaseIsAdvisory(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	delete(host.files, osReleasePath)

	f := New(host).Probe(context.Background())

	assert.Empty(t, f.Codename)
	require.Len(t, f.Problems, 1)
	assert.True(t, errors.Is(f.Problems[0], fault.ProbeUnavailable))
	// Other facts are still read.
	assert.Equal(t, "amd64", f.Architecture)
}

func TestFacts_OSReleaseWithoutCodename(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	host.files[osReleasePath] = "NAME=\"Some Linux\"\nID=some\n"

	f := New(host).Probe(context.Background())

	assert.Empty(t, f.Codename)
	require.NotEmpty(t, f.Problems)
	assert.True(t, errors.Is(f.Problems[0], fault.ProbeUnavailable))
}

func TestFacts_UbuntuCodenameFallback(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	host.files[osReleasePath] = "ID=pop\nUBUNTU_CODENAME=jammy\n"

	f := New(host).Probe(context.Background())

	assert.Equal(t, "jammy", f.Codename)
}

func TestFacts_ArchitectureFallsBackToMachineName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		machine  string
		expected string
	}{
		{"x86_64", "amd64"},
		{"aarch64", "arm64"},
		{"i686", "i386"},
		{"armv7l", "armhf"},
		{"ppc64le", "ppc64el"},
	}

	for _, tt := range tests {
		t.Run(tt.machine, func(t *testing.T) {
			t.Parallel()
			host := newJammyHost()
			delete(host.outputs, "dpkg --print-architecture")
			host.outputs["uname -m"] = tt.machine + "\n"

			f := New(host).Probe(context.Background())

			assert.Equal(t, tt.expected, f.Architecture)
			assert.Contains(t, host.calls, "uname -m")
		})
	}
}

func TestFacts_ArchitectureUnknown(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	delete(host.outputs, "dpkg --print-architecture")
	host.outputs["uname -m"] = "riscv64\n"

	f := New(host).Probe(context.Background())

	assert.Empty(t, f.Architecture)
	require.NotEmpty(t, f.Problems)
	assert.Contains(t, fmt.Sprint(f.Problems), "riscv64")
}

func TestFacts_InstalledStateIsReadEachTime(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	p := New(host)

	before := p.Probe(context.Background())
	assert.False(t, before.SourceRegistered)

	host.files[DefaultSourceListPath] = "deb [arch=amd64] http://example jammy main\n"
	host.files[rebootRequiredPath] = "*** System restart required ***\n"
	host.outputs["dpkg-query"] = "2025.1.0-1\n"

	after := p.Probe(context.Background())
	assert.True(t, after.SourceRegistered)
	assert.True(t, after.RebootRequired)
	assert.Equal(t, "2025.1.0-1", after.RuntimeVersion)
}

func TestFacts_CustomPython(t *testing.T) {
	t.Parallel()
	host := newJammyHost()
	host.outputs = map[string]string{".venv/bin/python -c": "3.11\n"}

	f := New(host, WithPython(".venv/bin/python")).Probe(context.Background())

	assert.Equal(t, Version{Major: 3, Minor: 11}, f.Interpreter)
}

func TestHasCommand(t *testing.T) {
	t.Parallel()
	host := &fakeHost{outputs: map[string]string{"command -v lspci": "/usr/bin/lspci\n"}}
	p := New(host)

	assert.True(t, p.HasCommand(context.Background(), "lspci"))
	assert.False(t, p.HasCommand(context.Background(), "furiosa-smi"))
}

func TestPathExists(t *testing.T) {
	t.Parallel()
	host := &fakeHost{outputs: map[string]string{"test -e ./models/Llama-3.1-8B-Instruct-original": ""}}
	p := New(host)

	assert.True(t, p.PathExists(context.Background(), "./models/Llama-3.1-8B-Instruct-original"))
	assert.False(t, p.PathExists(context.Background(), "./models/missing"))
	assert.Equal(t, "test -e ./models/missing", host.calls[1])
}

func TestModuleVersion(t *testing.T) {
	t.Parallel()
	host := &fakeHost{outputs: map[string]string{"python3 -c": "2.5.1+cpu\n"}}
	p := New(host)

	v, ok := p.ModuleVersion(context.Background(), "torch")
	require.True(t, ok)
	assert.Equal(t, "2.5.1+cpu", v)
	assert.True(t, strings.HasSuffix(host.calls[0], " torch"))

	_, ok = New(&fakeHost{}).ModuleVersion(context.Background(), "furiosa_llm")
	assert.False(t, ok)
}

func TestIsVirtualized(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version  string
		expected bool
	}{
		{"Linux version 5.15.153.1-microsoft-standard-WSL2", true},
		{"Linux version 4.4.0-19041-Microsoft", true},
		{"Linux version 6.6.36.3-wsl", true},
		{"Linux version 6.5.0-35-generic", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsVirtualized(tt.version))
		})
	}
}

func TestParseVersion(t *testing.T) {
	t.Parallel()
	v, err := ParseVersion("3.12\n")
	require.NoError(t, err)
	assert.Equal(t, Version{Major: 3, Minor: 12}, v)
	assert.Equal(t, "3.12", v.String())

	_, err = ParseVersion("three")
	assert.Error(t, err)
	_, err = ParseVersion("3.x")
	assert.Error(t, err)

	assert.Equal(t, "unknown", Version{}.String())
}

func TestParseOSRelease(t *testing.T) {
	t.Parallel()
	values := parseOSRelease([]byte("# comment\nA=\"quoted value\"\nB='single'\nC=bare\nmalformed\n"))

	assert.Equal(t, "quoted value", values["A"])
	assert.Equal(t, "single", values["B"])
	assert.Equal(t, "bare", values["C"])
	assert.Len(t, values, 3)
}
