package steps

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/imamik/furiosa-env/internal/config"
	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/provisioning"
	testutil "github.com/imamik/furiosa-env/internal/testing"
)

// harness bundles a provisioning context with the fakes behind it.
type harness struct {
	ctx      *provisioning.Context
	runner   *testutil.FakeRunner
	prober   *testutil.FakeProber
	reporter *testutil.RecordingReporter
	prompter *testutil.FakePrompter
}

func newHarness(facts probe.Facts) *harness {
	h := &harness{
		runner:   testutil.NewFakeRunner(),
		prober:   testutil.NewFakeProber(facts),
		reporter: &testutil.RecordingReporter{},
		prompter: &testutil.FakePrompter{},
	}
	h.ctx = &provisioning.Context{
		Context:  context.Background(),
		Config:   config.Default(),
		Runner:   h.runner,
		Prober:   h.prober,
		Observer: provisioning.NewLogObserver(logr.Discard()),
		Reporter: h.reporter,
		Prompter: h.prompter,
		Metrics:  provisioning.NewMetrics(),
	}
	return h
}

func newJammyHarness() *harness {
	return newHarness(testutil.JammyFacts())
}
