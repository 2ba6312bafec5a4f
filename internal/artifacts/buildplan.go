package artifacts

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"path"

	"github.com/imamik/furiosa-env/internal/config"
)

// Build files are staged here, relative to the working directory of the
// host that compiles.
const (
	BuildDirectory = ".furiosa-env"
	BuildPlanFile  = "build_plan.json"
	BuilderFile    = "build_artifact.py"
)

// Exit codes of the builder driver besides 0 and 1.
const (
	BuilderExitImportUnavailable = 3
	BuilderExitModelMissing      = 4
)

// BuilderScript drives the artifact builder from a build plan.
//
//go:embed scripts/build_artifact.py
var BuilderScript string

// BuildPlan is the full argument set for one artifact build.
type BuildPlan struct {
	ModelPath          string   `json:"model_id_or_path"`
	ArtifactName       string   `json:"artifact_name"`
	TensorParallelSize int      `json:"tensor_parallel_size"`
	PrefillBuckets     []Bucket `json:"prefill_buckets"`
	DecodeBuckets      []Bucket `json:"decode_buckets"`
	MaxSeqLenToCapture int      `json:"max_seq_len_to_capture"`
	PrefillChunkSize   int      `json:"prefill_chunk_size"`
	OutputDirectory    string   `json:"output_directory"`
	PipelineWorkers    int      `json:"num_pipeline_builder_workers"`
}

// NewBuildPlan builds the plan for compiling the model in modelPath with the
// release bucket tables.
func NewBuildPlan(cfg config.CompileConfig, modelPath string) BuildPlan {
	return BuildPlan{
		ModelPath:          modelPath,
		ArtifactName:       cfg.ArtifactName,
		TensorParallelSize: cfg.TensorParallelSize,
		PrefillBuckets:     PrefillBuckets(),
		DecodeBuckets:      DecodeBuckets(),
		MaxSeqLenToCapture: cfg.MaxSeqLenToCapture,
		PrefillChunkSize:   cfg.PrefillChunkSize,
		OutputDirectory:    cfg.OutputDirectory,
		PipelineWorkers:    cfg.PipelineWorkers,
	}
}

// Marshal renders the plan as indented JSON.
func (p BuildPlan) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal build plan: %w", err)
	}
	return data, nil
}

// BuildPlanPath is where the plan is staged on the compiling host.
func BuildPlanPath() string {
	return path.Join(BuildDirectory, BuildPlanFile)
}

// BuilderPath is where the driver is staged on the compiling host.
func BuilderPath() string {
	return path.Join(BuildDirectory, BuilderFile)
}
