package provisioning

import (
	"context"
	"sync"

	"github.com/imamik/furiosa-env/internal/config"
	testutil "github.com/imamik/furiosa-env/internal/testing"
)

// MockObserver is a test implementation of Observer that records events.
type MockObserver struct {
	mu       *sync.Mutex
	events   *[]Event
	messages *[]string
	fields   map[string]string
}

func NewMockObserver() *MockObserver {
	return &MockObserver{
		mu:       &sync.Mutex{},
		events:   &[]Event{},
		messages: &[]string{},
		fields:   make(map[string]string),
	}
}

func (m *MockObserver) Printf(format string, _ ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	*m.messages = append(*m.messages, format)
}

func (m *MockObserver) Event(event Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if event.Fields == nil {
		event.Fields = map[string]string{}
	}
	for k, v := range m.fields {
		if _, ok := event.Fields[k]; !ok {
			event.Fields[k] = v
		}
	}
	*m.events = append(*m.events, event)
}

func (m *MockObserver) Progress(step string, _, _ int) {
	m.Event(Event{Type: EventProgress, Step: step})
}

// WithFields shares the event log with the parent so tests see every event.
func (m *MockObserver) WithFields(fields map[string]string) Observer {
	merged := make(map[string]string, len(m.fields)+len(fields))
	for k, v := range m.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &MockObserver{mu: m.mu, events: m.events, messages: m.messages, fields: merged}
}

func (m *MockObserver) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Event(nil), *m.events...)
}

func (m *MockObserver) EventsOfType(t EventType) []Event {
	var out []Event
	for _, e := range m.Events() {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

// newTestContext builds a context around fakes.
func newTestContext() (*Context, *testutil.FakeRunner, *MockObserver) {
	runner := testutil.NewFakeRunner()
	observer := NewMockObserver()
	ctx := &Context{
		Context:  context.Background(),
		Config:   config.Default(),
		Runner:   runner,
		Prober:   testutil.NewFakeProber(testutil.JammyFacts()),
		Observer: observer,
		Reporter: &testutil.RecordingReporter{},
		Prompter: &testutil.FakePrompter{},
		Metrics:  NewMetrics(),
	}
	return ctx, runner, observer
}

// stepFunc adapts a function to the Step interface.
type stepFunc struct {
	name string
	fn   func(*Context) error
}

func (s stepFunc) Name() string                 { return s.name }
func (s stepFunc) Provision(ctx *Context) error { return s.fn(ctx) }

func newStep(name string, fn func(*Context) error) Step {
	return stepFunc{name: name, fn: fn}
}
