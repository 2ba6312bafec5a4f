package testing

import (
	"context"
	"sync"

	"github.com/imamik/furiosa-env/internal/probe"
)

// FakeProber serves a copy of Facts on every Probe call.
type FakeProber struct {
	mu sync.Mutex

	Facts    probe.Facts
	Commands map[string]bool
	Modules  map[string]string
	Paths    map[string]bool

	probes int
}

// NewFakeProber creates a prober with every command present and no Python
// modules installed.
func NewFakeProber(facts probe.Facts) *FakeProber {
	return &FakeProber{
		Facts:    facts,
		Commands: map[string]bool{},
		Modules:  map[string]string{},
		Paths:    map[string]bool{},
	}
}

// Probe implements the prober contract.
func (p *FakeProber) Probe(_ context.Context) *probe.Facts {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.probes++
	f := p.Facts
	f.Problems = append([]error(nil), p.Facts.Problems...)
	return &f
}

// HasCommand reports commands as present unless listed as false.
func (p *FakeProber) HasCommand(_ context.Context, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	present, listed := p.Commands[name]
	return !listed || present
}

// ModuleVersion reports modules present in Modules.
func (p *FakeProber) ModuleVersion(_ context.Context, module string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.Modules[module]
	return v, ok
}

// PathExists reports paths marked present in Paths.
func (p *FakeProber) PathExists(_ context.Context, path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Paths[path]
}

// SetCommand marks a command present or missing.
func (p *FakeProber) SetCommand(name string, present bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Commands[name] = present
}

// SetModule marks a Python module installed with the given version.
func (p *FakeProber) SetModule(module, version string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Modules[module] = version
}

// SetPath marks a path present or missing.
func (p *FakeProber) SetPath(path string, present bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Paths[path] = present
}

// Update changes the served facts, e.g. to simulate a step's side effect.
func (p *FakeProber) Update(fn func(f *probe.Facts)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fn(&p.Facts)
}

// ProbeCount returns how many times Probe was called.
func (p *FakeProber) ProbeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.probes
}
