package testing

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/furiosa-env/internal/shell"
)

// MockRunner is a testify mock of shell.Runner.
type MockRunner struct {
	mock.Mock
}

// Run records the call and returns the configured result.
func (m *MockRunner) Run(ctx context.Context, spec shell.CommandSpec) (shell.Result, error) {
	args := m.Called(ctx, spec)
	return args.Get(0).(shell.Result), args.Error(1)
}

// CommandIs matches a CommandSpec by its command line.
func CommandIs(command string) interface{} {
	return mock.MatchedBy(func(spec shell.CommandSpec) bool {
		return spec.Command == command
	})
}
