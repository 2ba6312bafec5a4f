package artifacts

import (
	_ "embed"
	"path"
)

// InspectorFile is the staged name of the model inspection driver. It shares
// the builder's exit codes for a missing model and a missing import.
const InspectorFile = "inspect_model.py"

// InspectorScript loads the tokenizer and model configuration offline and
// prints their shape before a compile.
//
//go:embed scripts/inspect_model.py
var InspectorScript string

// InspectorPath is where the inspection driver is staged on the compiling
// host.
func InspectorPath() string {
	return path.Join(BuildDirectory, InspectorFile)
}
