// Package provisioning runs provisioning steps against a host.
//
// # Core Types
//
// Context carries the configuration, the command runner, the environment
// prober, the observer and the run options. Step defines one provisioning
// step with Name() and Provision() methods. Pipeline runs an ordered list of
// steps as a state machine: Idle, Running, then Completed or Aborted.
//
// Steps carry nothing between each other. Each step probes the facts it
// needs when it starts, so any step can also run on its own via RunStep.
// A fatal step error aborts the pipeline; there is no rollback.
package provisioning
