// Package retry retries an operation with exponential backoff.
//
// Provisioning deliberately retries almost nothing: package installs are not
// retried, and the only installer fallback lives in the step library. The one
// transient failure worth waiting out is connecting to a remote host that is
// still booting, for example right after a firmware upgrade and reboot.
package retry
