package testing

import (
	"fmt"
	"strings"
	"sync"

	"github.com/imamik/furiosa-env/internal/ui"
)

// RecordingReporter captures operator-facing output.
type RecordingReporter struct {
	mu sync.Mutex

	Notices   []string
	Warnings  []string
	Successes []string
	Sections  []string
	Lines     []string
	Checks    []ui.Check
}

func (r *RecordingReporter) Notice(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Notices = append(r.Notices, msg)
}

func (r *RecordingReporter) Warning(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Warnings = append(r.Warnings, msg)
}

func (r *RecordingReporter) Success(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Successes = append(r.Successes, msg)
}

func (r *RecordingReporter) Section(title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Sections = append(r.Sections, title)
}

func (r *RecordingReporter) Line(format string, args ...interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Lines = append(r.Lines, fmt.Sprintf(format, args...))
}

func (r *RecordingReporter) Checklist(checks []ui.Check) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Checks = append(r.Checks, checks...)
}

// WarningContaining reports whether any warning contains substr.
func (r *RecordingReporter) WarningContaining(substr string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.Warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

// Output joins everything reported, in no particular order across kinds.
func (r *RecordingReporter) Output() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var all []string
	all = append(all, r.Notices...)
	all = append(all, r.Warnings...)
	all = append(all, r.Successes...)
	all = append(all, r.Sections...)
	all = append(all, r.Lines...)
	return strings.Join(all, "\n")
}
