// Package ssh runs provisioning commands on a remote host over SSH.
//
// [Runner] satisfies the same contract as the local shell runner: every
// command goes through bash -lc on the remote side, privileged commands are
// wrapped in non-interactive sudo, and a non-zero exit becomes a
// CommandFailed fault when the command demands it. One connection is dialed
// lazily and reused for the whole run; dialing retries with exponential
// backoff so a host that is still rebooting can come back.
//
// Security: host key verification is disabled unless a HostKeyCallback is
// configured. Use known_hosts verification for hosts reachable from
// untrusted networks.
package ssh
