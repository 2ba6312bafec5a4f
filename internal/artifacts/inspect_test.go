package artifacts

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspectorScript(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ".furiosa-env/inspect_model.py", InspectorPath())
	assert.Contains(t, InspectorScript, `os.environ["TRANSFORMERS_OFFLINE"] = "1"`)
	assert.Contains(t, InspectorScript, fmt.Sprintf("EXIT_IMPORT_UNAVAILABLE = %d", BuilderExitImportUnavailable))
	assert.Contains(t, InspectorScript, fmt.Sprintf("EXIT_MODEL_MISSING = %d", BuilderExitModelMissing))
	assert.Contains(t, InspectorScript, "AutoConfig.from_pretrained")
}
