package provisioning

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/imamik/furiosa-env/internal/shell"
)

// Logger is the minimal printf-style logging interface.
type Logger interface {
	Printf(format string, v ...interface{})
}

// Observer defines the interface for structured observability during provisioning.
type Observer interface {
	Logger

	// Event emits a structured event
	Event(event Event)

	// Progress reports progress through a step list
	Progress(step string, current, total int)

	// WithFields returns a new Observer with additional context fields
	WithFields(fields map[string]string) Observer
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType         // Type of event
	Step      string            // Step name (e.g., "repo-register")
	Message   string            // Human-readable message
	Command   string            // Command line, if the event concerns one
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
	Err       error             // Cause, for failure events
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventStepStarted indicates a step has started.
	EventStepStarted EventType = "step.started"
	// EventStepCompleted indicates a step completed successfully.
	EventStepCompleted EventType = "step.completed"
	// EventStepFailed indicates a step failed fatally.
	EventStepFailed EventType = "step.failed"
	// EventStepWarning indicates a non-fatal condition inside a step.
	EventStepWarning EventType = "step.warning"

	// EventCommandRunning indicates a command is about to run.
	EventCommandRunning EventType = "command.running"
	// EventCommandFailed indicates a tolerated command exited non-zero.
	EventCommandFailed EventType = "command.failed"

	// EventProgress indicates progress through the step list.
	EventProgress EventType = "progress"
)

// LogObserver implements Observer on top of a logr.Logger.
type LogObserver struct {
	logger        logr.Logger
	contextFields map[string]string
}

// NewLogObserver creates an observer that writes through logger.
func NewLogObserver(logger logr.Logger) *LogObserver {
	return &LogObserver{
		logger:        logger,
		contextFields: make(map[string]string),
	}
}

// NewConsoleObserver creates an observer that writes one line per event to
// w. Progress lines are only shown at verbosity 1 and above.
func NewConsoleObserver(w io.Writer, verbosity int) *LogObserver {
	logger := funcr.New(func(prefix, args string) {
		if prefix != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		_, _ = fmt.Fprintln(w, args)
	}, funcr.Options{
		LogTimestamp:    true,
		TimestampFormat: time.RFC3339,
		Verbosity:       verbosity,
	})
	return NewLogObserver(logger)
}

// Printf implements Logger.
func (o *LogObserver) Printf(format string, v ...interface{}) {
	o.logger.Info(fmt.Sprintf(format, v...), o.keysAndValues(nil)...)
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	kv := []interface{}{"event", string(event.Type)}
	if event.Step != "" {
		kv = append(kv, "step", event.Step)
	}
	if event.Command != "" {
		kv = append(kv, "command", event.Command)
	}
	kv = append(kv, o.keysAndValues(event.Fields)...)

	if event.Type == EventStepFailed {
		o.logger.Error(event.Err, event.Message, kv...)
		return
	}
	o.logger.Info(event.Message, kv...)
}

// Progress implements Observer.
func (o *LogObserver) Progress(step string, current, total int) {
	o.logger.V(1).Info("progress", "event", string(EventProgress), "step", step, "current", current, "total", total)
}

// WithFields implements Observer.
func (o *LogObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}

	return &LogObserver{
		logger:        o.logger,
		contextFields: newFields,
	}
}

// keysAndValues merges context fields under the event's own fields and
// returns them in a stable order.
func (o *LogObserver) keysAndValues(fields map[string]string) []interface{} {
	merged := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, 2*len(keys))
	for _, k := range keys {
		kv = append(kv, k, merged[k])
	}
	return kv
}

// Helper functions for common events

// LogStepStart logs a step start event.
func LogStepStart(observer Observer, step string) {
	observer.Event(Event{
		Type:    EventStepStarted,
		Step:    step,
		Message: "starting",
	})
}

// LogStepComplete logs a step completion event.
func LogStepComplete(observer Observer, step string, duration time.Duration) {
	observer.Event(Event{
		Type:    EventStepCompleted,
		Step:    step,
		Message: fmt.Sprintf("completed in %v", duration.Round(time.Millisecond)),
	})
}

// LogStepFailed logs a step failure event.
func LogStepFailed(observer Observer, step string, err error) {
	observer.Event(Event{
		Type:    EventStepFailed,
		Step:    step,
		Message: "failed",
		Err:     err,
	})
}

// LogStepWarning logs a non-fatal condition.
func LogStepWarning(observer Observer, step, message string) {
	observer.Event(Event{
		Type:    EventStepWarning,
		Step:    step,
		Message: message,
	})
}

// LogCommand logs a command before it runs. Environment values are never
// logged.
func LogCommand(observer Observer, step string, spec shell.CommandSpec) {
	observer.Event(Event{
		Type:    EventCommandRunning,
		Step:    step,
		Message: "running",
		Command: spec.String(),
	})
}

// LogCommandFailed logs a tolerated non-zero exit.
func LogCommandFailed(observer Observer, step string, spec shell.CommandSpec, res shell.Result) {
	observer.Event(Event{
		Type:    EventCommandFailed,
		Step:    step,
		Message: fmt.Sprintf("exited with code %d", res.ExitCode),
		Command: spec.String(),
	})
}
