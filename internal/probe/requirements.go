package probe

import (
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
)

// SupportedCodenames are the distributions the vendor repository publishes for.
var SupportedCodenames = []string{"jammy", "bookworm"}

const (
	// MinKernel is the oldest kernel the driver supports.
	MinKernel = "6.3"

	// interpreterRange is the interpreter range the SDK supports.
	interpreterRange = ">= 3.9, < 3.13"
)

var (
	kernelPrefix     = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?`)
	kernelConstraint = mustConstraint(">= " + MinKernel)
	pythonConstraint = mustConstraint(interpreterRange)
)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// CodenameSupported reports whether codename is an officially supported
// distribution. Unsupported codenames are a warning, not an error.
func CodenameSupported(codename string) bool {
	for _, c := range SupportedCodenames {
		if c == codename {
			return true
		}
	}
	return false
}

// PythonCompatible reports whether v is in the SDK's supported interpreter
// range. An unknown version is incompatible. It never fails.
func PythonCompatible(v Version) bool {
	if !v.Known() {
		return false
	}
	sv, err := semver.NewVersion(fmt.Sprintf("%d.%d.0", v.Major, v.Minor))
	if err != nil {
		return false
	}
	return pythonConstraint.Check(sv)
}

// KernelSupported reports whether a uname -r release is at least MinKernel.
// Distribution suffixes such as "-35-generic" are ignored.
func KernelSupported(release string) (bool, error) {
	m := kernelPrefix.FindStringSubmatch(release)
	if m == nil {
		return false, fmt.Errorf("unrecognized kernel release %q", release)
	}
	patch := m[3]
	if patch == "" {
		patch = "0"
	}
	v, err := semver.NewVersion(fmt.Sprintf("%s.%s.%s", m[1], m[2], patch))
	if err != nil {
		return false, fmt.Errorf("unrecognized kernel release %q: %w", release, err)
	}
	return kernelConstraint.Check(v), nil
}
