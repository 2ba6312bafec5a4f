package steps

import (
	"fmt"

	"github.com/imamik/furiosa-env/internal/config"
	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/probe"
	"github.com/imamik/furiosa-env/internal/provisioning"
	"github.com/imamik/furiosa-env/internal/shell"
)

// SourceLine renders the package source entry for the vendor repository.
// An unknown arch omits the option so apt uses the host's native one.
func SourceLine(url, codename, arch, component string) string {
	if arch == "" {
		return fmt.Sprintf("deb %s %s %s", url, codename, component)
	}
	return fmt.Sprintf("deb [arch=%s] %s %s %s", arch, url, codename, component)
}

// KeyFetchCommand downloads the signing key and stores it dearmored in
// keyring. pipefail makes a failed download fail the command.
func KeyFetchCommand(keyURL, keyring string) shell.CommandSpec {
	return shell.Privileged(fmt.Sprintf("set -o pipefail; curl -fsSL %s | gpg --dearmor --yes -o %s",
		shell.Quote(keyURL), shell.Quote(keyring)))
}

// WriteSourceCommand replaces the source list at path with line.
func WriteSourceCommand(path, line string) shell.CommandSpec {
	return shell.Privileged(fmt.Sprintf("printf '%%s\\n' %s > %s", shell.Quote(line), shell.Quote(path)))
}

// ResolveCodename picks the distribution codename for the source line. A
// configured codename always wins; otherwise the probed one is used.
func ResolveCodename(repo config.RepositoryConfig, facts *probe.Facts) (string, error) {
	if repo.Codename != "" {
		return repo.Codename, nil
	}
	if facts.Codename != "" {
		return facts.Codename, nil
	}
	return "", fault.Newf(fault.PreconditionUnmet, NameRepoRegister,
		"the distribution codename could not be read from /etc/os-release").
		WithRemedy("set repository.codename in the config file or FURIOSA_ENV_CODENAME")
}

// RepoRegister registers the vendor package repository: signing key and
// source list entry.
type RepoRegister struct{}

// Name implements the provisioning.Step interface.
func (s *RepoRegister) Name() string {
	return NameRepoRegister
}

// Provision implements the provisioning.Step interface.
func (s *RepoRegister) Provision(ctx *provisioning.Context) error {
	privilegeNotice(ctx)
	repo := ctx.Config.Repository

	facts := ctx.Facts()
	logProblems(ctx, facts.Problems)

	// An unknown codename skips registration instead of writing a broken
	// source line; driver-install then stops on the missing source.
	codename, err := ResolveCodename(repo, facts)
	if err != nil {
		warn(ctx, fmt.Sprintf("Skipping repository registration: %v.\nTo fix: %s, then run furiosa-env setup-apt.",
			err, fault.Remedy(err)))
		return nil
	}
	if !probe.CodenameSupported(codename) {
		warn(ctx, fmt.Sprintf("Distribution codename is %s. Ubuntu 22.04 (jammy) or Debian bookworm is required; "+
			"you can continue, but repository or dependency errors may follow.", codename))
	}

	line := SourceLine(repo.URL, codename, facts.Architecture, repo.Component)
	ctx.Observer.Printf("[%s] Registering %s", s.Name(), line)

	if err := ctx.RunAll(
		aptUpdate(),
		aptInstall("curl", "gnupg"),
		KeyFetchCommand(repo.KeyURL, repo.Keyring),
		WriteSourceCommand(repo.ListPath, line),
	); err != nil {
		return fmt.Errorf("failed to register the package repository: %w", err)
	}

	ctx.Reporter.Success("APT repository registered: " + line)
	return nil
}
