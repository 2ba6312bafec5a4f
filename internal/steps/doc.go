// Package steps implements the provisioning steps furiosa-env runs on an
// accelerator host.
//
// Each step is a provisioning.Step. Steps probe the host for the facts they
// branch on, plan their commands with pure functions that tests can inspect,
// and run them through the context's runner. Non-fatal problems are reported
// as warnings and the step returns nil; any returned error aborts the chain.
package steps
