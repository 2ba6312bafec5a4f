package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/furiosa-env/internal/probe"
	testutil "github.com/imamik/furiosa-env/internal/testing"
	"github.com/imamik/furiosa-env/internal/ui"
	"github.com/imamik/furiosa-env/internal/util/prerequisites"
)

func checkByName(checks []ui.Check, name string) (ui.Check, bool) {
	for _, c := range checks {
		if c.Name == name {
			return c, true
		}
	}
	return ui.Check{}, false
}

func TestFactChecks_Jammy(t *testing.T) {
	t.Parallel()
	facts := testutil.JammyFacts()
	checks := FactChecks(&facts)

	for _, name := range []string{"Distribution", "Kernel 6.3+", "Python 3.9-3.12", "Environment", "Architecture"} {
		c, ok := checkByName(checks, name)
		require.True(t, ok, name)
		assert.True(t, c.OK, name)
	}
	repo, _ := checkByName(checks, "Vendor repository")
	assert.False(t, repo.OK)
	assert.True(t, repo.Warn)
}

func TestFactChecks_WSL(t *testing.T) {
	t.Parallel()
	facts := testutil.WSLFacts()
	checks := FactChecks(&facts)

	kernel, _ := checkByName(checks, "Kernel 6.3+")
	assert.False(t, kernel.OK)
	env, _ := checkByName(checks, "Environment")
	assert.Contains(t, env.Detail, "WSL2")
}

func TestFactChecks_UnknownCodename(t *testing.T) {
	t.Parallel()
	checks := FactChecks(&probe.Facts{})

	dist, _ := checkByName(checks, "Distribution")
	assert.False(t, dist.OK)
	assert.Equal(t, "unknown", dist.Detail)
}

func TestToolChecks(t *testing.T) {
	t.Parallel()
	results := &prerequisites.CheckResults{Results: []prerequisites.CheckResult{
		{Tool: prerequisites.Tool{Name: "apt-get", Required: true, Remedy: "use Ubuntu"}, Found: false},
		{Tool: prerequisites.Tool{Name: "uv", Remedy: "install uv"}, Found: false},
		{Tool: prerequisites.Tool{Name: "dpkg", Required: true}, Found: true},
	}}

	checks := ToolChecks(results)

	require.Len(t, checks, 3)
	assert.False(t, checks[0].Warn, "missing required tools fail")
	assert.True(t, checks[1].Warn, "missing optional tools warn")
	assert.Equal(t, "missing: install uv", checks[1].Detail)
	assert.True(t, checks[2].OK)
}

func TestCheckRequirements(t *testing.T) {
	t.Parallel()
	h := newJammyHarness()
	h.prober.SetCommand("uv", false)
	h.prober.Update(func(f *probe.Facts) {
		f.Problems = append(f.Problems, assert.AnError)
	})

	require.NoError(t, (&CheckRequirements{}).Provision(h.ctx))

	assert.Equal(t, []string{SystemInfoCommand}, h.runner.Commands())
	assert.Equal(t, []string{"Requirements", "Host", "Tools"}, h.reporter.Sections)
	uv, ok := checkByName(h.reporter.Checks, "uv")
	require.True(t, ok)
	assert.False(t, uv.OK)
	assert.Len(t, h.reporter.Warnings, 1)
}
