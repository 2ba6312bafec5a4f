package steps

import (
	"strconv"

	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// ServeCommand renders the server launch command with every value quoted.
func ServeCommand(model, devices, host string, port int) string {
	return shell.Join("furiosa-llm", "serve", model,
		"--devices", devices,
		"--host", host,
		"--port", strconv.Itoa(port))
}

// Serve launches the OpenAI-compatible server in the foreground. The step
// ends when the server exits. Empty fields fall back to the configuration.
type Serve struct {
	Model   string
	Devices string
	Host    string
	Port    int
}

// Name implements the provisioning.Step interface.
func (s *Serve) Name() string {
	return NameServe
}

// Provision implements the provisioning.Step interface.
func (s *Serve) Provision(ctx *provisioning.Context) error {
	if !ctx.Prober.HasCommand(ctx, "furiosa-llm") {
		return fault.Newf(fault.PreconditionUnmet, s.Name(), "furiosa-llm is not installed").
			WithRemedy("furiosa-env install-llm")
	}

	cfg := ctx.Config.Serve
	model, devices, host, port := s.Model, s.Devices, s.Host, s.Port
	if model == "" {
		model = cfg.Model
	}
	if devices == "" {
		devices = cfg.Devices
	}
	if host == "" {
		host = cfg.Host
	}
	if port == 0 {
		port = cfg.Port
	}

	cmd := ServeCommand(model, devices, host, port)
	ctx.Reporter.Line("Launching: %s", cmd)

	spec := shell.Unprivileged(cmd)
	spec.Interactive = true
	_, err := ctx.Run(spec)
	return err
}
