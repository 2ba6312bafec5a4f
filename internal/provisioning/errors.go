package provisioning

import "fmt"

// StepError reports the step that aborted a pipeline.
type StepError struct {
	Step  string
	Index int
	Total int
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s step (%d/%d) failed: %v", e.Step, e.Index+1, e.Total, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
