package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPanels_PlainWhenNotTerminal(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := NewPanels(&buf)

	p.Notice("Some steps need administrator privileges (sudo).")
	p.Warning("codename focal is not supported")
	p.Success("APT repository registered")
	p.Error("apt-get install failed")

	assert.Equal(t, strings.Join([]string{
		"NOTE: Some steps need administrator privileges (sudo).",
		"WARNING: codename focal is not supported",
		"OK: APT repository registered",
		"ERROR: apt-get install failed",
		"",
	}, "\n"), buf.String())
}

func TestPanels_Checklist(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := NewPlainPanels(&buf)

	p.Checklist([]Check{
		{Name: "Kernel 6.5.0-35-generic", OK: true},
		{Name: "Python 3.13", Warn: true, Detail: "3.9 to 3.12 required"},
		{Name: "lspci", Detail: "not found in PATH"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"[OK] Kernel 6.5.0-35-generic",
		"[??] Python 3.13  3.9 to 3.12 required",
		"[!!] lspci  not found in PATH",
	}, lines)
}

func TestPanels_StyledKeepsContent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := &Panels{out: &buf, styled: true}

	p.Panel(LevelSuccess, "Setup complete\nRun upgrade-firmware if needed.")

	out := buf.String()
	assert.Contains(t, out, "Setup complete")
	assert.Contains(t, out, "Run upgrade-firmware if needed.")
}

func TestPanels_SectionAndLine(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	p := NewPlainPanels(&buf)

	p.Section("Probe")
	p.Line("codename: %s", "jammy")

	assert.Equal(t, "\n== Probe ==\ncodename: jammy\n", buf.String())
}

func TestIsTerminal_NonFile(t *testing.T) {
	t.Parallel()
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestValidateNoWhitespace(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateNoWhitespace("hf_abc123"))
	assert.NoError(t, validateNoWhitespace(""))
	assert.Error(t, validateNoWhitespace("hf abc"))
}
