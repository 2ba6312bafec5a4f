package provisioning

import (
	"errors"
	"fmt"
	"time"
)

// State is the lifecycle position of a Pipeline.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrAlreadyRun is returned when Run is called on a pipeline that has left
// the idle state.
var ErrAlreadyRun = errors.New("pipeline has already run")

// Pipeline runs steps in order. A pipeline runs once.
type Pipeline struct {
	Steps []Step

	state   State
	current int
}

// NewPipeline creates an idle pipeline.
func NewPipeline(steps ...Step) *Pipeline {
	return &Pipeline{Steps: steps, current: -1}
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return p.state
}

// Current returns the index of the running or aborting step, or -1 before
// the first step starts.
func (p *Pipeline) Current() int {
	return p.current
}

// Run executes every step sequentially. The first fatal error aborts the
// remaining steps and is returned as a *StepError.
func (p *Pipeline) Run(ctx *Context) error {
	if p.state != StateIdle {
		return ErrAlreadyRun
	}
	p.state = StateRunning

	start := time.Now()
	total := len(p.Steps)
	ctx.Observer.Printf("Starting provisioning with %d steps...", total)

	for i, step := range p.Steps {
		p.current = i
		name := step.Name()

		if err := ctx.Err(); err != nil {
			return p.abort(ctx, name, i, err)
		}

		ctx.Observer.Progress(name, i+1, total)
		if err := runOne(ctx, step); err != nil {
			return p.abort(ctx, name, i, err)
		}
	}

	p.state = StateCompleted
	ctx.Observer.Printf("Provisioning completed in %v", time.Since(start).Round(time.Millisecond))
	return nil
}

func (p *Pipeline) abort(ctx *Context, name string, index int, err error) error {
	p.state = StateAborted
	ctx.Metrics.RecordAbort(name)
	return &StepError{Step: name, Index: index, Total: len(p.Steps), Err: err}
}

// runOne runs a single step with start, completion and failure events.
func runOne(ctx *Context, step Step) error {
	name := step.Name()
	scoped := ctx.forStep(name)
	stepStart := time.Now()

	LogStepStart(scoped.Observer, name)
	err := step.Provision(scoped)
	duration := time.Since(stepStart)
	ctx.Metrics.RecordStep(name, err, duration)

	if err != nil {
		LogStepFailed(scoped.Observer, name, err)
		return err
	}
	LogStepComplete(scoped.Observer, name, duration)
	return nil
}

// RunStep runs one step on its own.
func RunStep(ctx *Context, step Step) error {
	return NewPipeline(step).Run(ctx)
}
