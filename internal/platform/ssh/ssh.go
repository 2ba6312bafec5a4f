package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/imamik/furiosa-env/internal/shell"
	"github.com/imamik/furiosa-env/internal/util/retry"
)

const (
	defaultPort        = 22
	defaultDialTimeout = 10 * time.Second
	defaultMaxRetries  = 30
	defaultRetryDelay  = 2 * time.Second
	defaultMaxDelay    = 10 * time.Second
	interruptGrace     = 10 * time.Second
)

// Config holds SSH runner configuration.
type Config struct {
	Host       string
	Port       int
	User       string
	PrivateKey []byte

	// DialTimeout is the timeout for establishing the TCP connection.
	// If zero, defaultDialTimeout is used.
	DialTimeout time.Duration

	// MaxRetries is the maximum number of connection attempts.
	// If zero, defaultMaxRetries is used.
	MaxRetries int

	// RetryDelay is the initial delay between connection attempts.
	// If zero, defaultRetryDelay is used.
	RetryDelay time.Duration

	// HostKeyCallback handles host key verification.
	// If nil, ssh.InsecureIgnoreHostKey() is used.
	HostKeyCallback ssh.HostKeyCallback

	// Elevation selects how privileged commands run on the remote host.
	Elevation shell.Elevation
}

// Runner executes commands on a remote host.
type Runner struct {
	config *Config
	signer ssh.Signer
	stdout io.Writer
	stderr io.Writer

	mu     sync.Mutex
	client *ssh.Client

	// dial is replaceable for tests.
	dial func(network, addr string, cfg *ssh.ClientConfig) (*ssh.Client, error)
}

// NewRunner validates cfg and parses the private key. No connection is made
// until the first command. Nil writers default to the process's own
// stdout/stderr.
func NewRunner(cfg *Config, stdout, stderr io.Writer) (*Runner, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if cfg.Host == "" {
		return nil, fmt.Errorf("config host cannot be empty")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("config user cannot be empty")
	}
	if len(cfg.PrivateKey) == 0 {
		return nil, fmt.Errorf("config private key cannot be empty")
	}

	configCopy := *cfg
	if configCopy.Port == 0 {
		configCopy.Port = defaultPort
	}
	if configCopy.DialTimeout == 0 {
		configCopy.DialTimeout = defaultDialTimeout
	}
	if configCopy.MaxRetries == 0 {
		configCopy.MaxRetries = defaultMaxRetries
	}
	if configCopy.RetryDelay == 0 {
		configCopy.RetryDelay = defaultRetryDelay
	}
	if configCopy.HostKeyCallback == nil {
		configCopy.HostKeyCallback = ssh.InsecureIgnoreHostKey() //nolint:gosec // opt-in verification
	}
	if configCopy.Elevation == "" {
		configCopy.Elevation = shell.ElevateSudo
	}

	signer, err := ssh.ParsePrivateKey(configCopy.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}

	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}

	return &Runner{
		config: &configCopy,
		signer: signer,
		stdout: stdout,
		stderr: stderr,
		dial:   ssh.Dial,
	}, nil
}

// Addr returns the host:port the runner connects to.
func (r *Runner) Addr() string {
	return net.JoinHostPort(r.config.Host, strconv.Itoa(r.config.Port))
}

// Run executes spec on the remote host, streaming its output live.
func (r *Runner) Run(ctx context.Context, spec shell.CommandSpec) (shell.Result, error) {
	useSudo, err := shell.Elevate(r.config.Elevation, r.config.User == "root", spec)
	if err != nil {
		return shell.Result{ExitCode: -1}, err
	}

	client, err := r.connect(ctx)
	if err != nil {
		return shell.Result{ExitCode: -1}, err
	}

	session, err := client.NewSession()
	if err != nil {
		return shell.Result{ExitCode: -1}, fmt.Errorf("failed to create SSH session on %s: %w", r.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	tail := shell.NewTailBuffer(shell.StderrTailSize)
	session.Stdout = r.stdout
	session.Stderr = io.MultiWriter(r.stderr, tail)
	if spec.Interactive {
		session.Stdin = os.Stdin
	}

	command := RemoteCommand(spec, useSudo)
	if err := session.Start(command); err != nil {
		return shell.Result{ExitCode: -1}, fmt.Errorf("failed to start %q on %s: %w", spec.Command, r.config.Host, err)
	}

	waitErr := wait(ctx, session)
	if waitErr == nil {
		return shell.Result{Succeeded: true}, nil
	}
	if ctx.Err() != nil {
		return shell.Result{ExitCode: -1, StderrTail: tail.String()}, fmt.Errorf("%q interrupted: %w", spec.Command, ctx.Err())
	}

	var exitErr *ssh.ExitError
	if errors.As(waitErr, &exitErr) {
		return shell.Complete(spec, exitErr.ExitStatus(), tail.String())
	}
	return shell.Result{ExitCode: -1, StderrTail: tail.String()}, fmt.Errorf("command %q on %s: %w", spec.Command, r.config.Host, waitErr)
}

// wait blocks until the session ends. On cancellation the remote process
// gets SIGINT and a grace period before the session is torn down.
func wait(ctx context.Context, session *ssh.Session) error {
	done := make(chan error, 1)
	go func() { done <- session.Wait() }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	_ = session.Signal(ssh.SIGINT)
	select {
	case err := <-done:
		return err
	case <-time.After(interruptGrace):
		_ = session.Close()
		return <-done
	}
}

// Output runs an unprivileged command and returns its stdout.
func (r *Runner) Output(ctx context.Context, command string) (string, error) {
	client, err := r.connect(ctx)
	if err != nil {
		return "", err
	}
	session, err := client.NewSession()
	if err != nil {
		return "", fmt.Errorf("failed to create SSH session on %s: %w", r.config.Host, err)
	}
	defer func() { _ = session.Close() }()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr
	if err := session.Run(RemoteCommand(shell.Check(command), false)); err != nil {
		return stdout.String(), fmt.Errorf("%s: %w: %s", command, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return stdout.String(), nil
}

// ReadFile reads a file on the remote host. A missing file is reported as
// os.ErrNotExist.
func (r *Runner) ReadFile(ctx context.Context, path string) ([]byte, error) {
	out, err := r.Output(ctx, "cat -- "+shell.Quote(path))
	if err != nil {
		if strings.Contains(err.Error(), "No such file") {
			return nil, fmt.Errorf("open %s on %s: %w", path, r.config.Host, os.ErrNotExist)
		}
		return nil, err
	}
	return []byte(out), nil
}

// Close releases the connection, if one was opened.
func (r *Runner) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

// connect returns the shared connection, dialing it on first use.
func (r *Runner) connect(ctx context.Context) (*ssh.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client != nil {
		return r.client, nil
	}

	config := &ssh.ClientConfig{
		User:            r.config.User,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(r.signer)},
		HostKeyCallback: r.config.HostKeyCallback,
		Timeout:         r.config.DialTimeout,
	}

	addr := r.Addr()
	var client *ssh.Client
	err := retry.Do(ctx, func() error {
		var dialErr error
		client, dialErr = r.dial("tcp", addr, config)
		if dialErr != nil && isAuthFailure(dialErr) {
			return retry.Permanent(dialErr)
		}
		return dialErr
	},
		retry.Attempts(r.config.MaxRetries),
		retry.InitialDelay(r.config.RetryDelay),
		retry.MaxDelay(defaultMaxDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to establish SSH connection to %s: %w", addr, err)
	}

	r.client = client
	return client, nil
}

func isAuthFailure(err error) bool {
	return strings.Contains(err.Error(), "unable to authenticate")
}

// RemoteCommand renders spec as the single command string sent to the remote
// shell. The command line is always quoted as one argument to bash.
func RemoteCommand(spec shell.CommandSpec, useSudo bool) string {
	var parts []string
	if useSudo {
		parts = append(parts, "sudo", "-n", "--")
	}
	if pairs := spec.EnvPairs(); len(pairs) > 0 {
		parts = append(parts, "env")
		for _, p := range pairs {
			parts = append(parts, shell.Quote(p))
		}
	}
	parts = append(parts, "bash", "-lc", shell.Quote(spec.Command))
	return strings.Join(parts, " ")
}

// ParseTarget splits "user@host[:port]" into its parts. The user defaults to
// defaultUser and the port to 22.
func ParseTarget(target, defaultUser string) (user, host string, port int, err error) {
	if target == "" {
		return "", "", 0, fmt.Errorf("remote target cannot be empty")
	}
	user = defaultUser
	if at := strings.LastIndex(target, "@"); at >= 0 {
		user = target[:at]
		target = target[at+1:]
	}
	if user == "" {
		return "", "", 0, fmt.Errorf("remote target %q has no user", target)
	}

	host, port = target, defaultPort
	if h, p, splitErr := net.SplitHostPort(target); splitErr == nil {
		n, convErr := strconv.Atoi(p)
		if convErr != nil || n < 1 || n > 65535 {
			return "", "", 0, fmt.Errorf("invalid port %q in remote target", p)
		}
		host, port = h, n
	}
	if host == "" {
		return "", "", 0, fmt.Errorf("remote target has no host")
	}
	return user, host, port, nil
}
