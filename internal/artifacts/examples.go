package artifacts

import (
	"fmt"
	"path/filepath"
)

// Example script file names.
const (
	OfflineBatchFile   = "offline_batch.py"
	StreamingInferFile = "streaming_infer.py"
)

const offlineBatchScript = `from furiosa_llm import LLM, SamplingParams

# Load the Llama 3.1 8B Instruct model
llm = LLM.load_artifact("furiosa-ai/Llama-3.1-8B-Instruct-FP8", devices="npu:0")

sampling_params = SamplingParams(min_tokens=10, top_p=0.3, top_k=100)

message = [{"role": "user", "content": "What is the capital of France?"}]
prompt = llm.tokenizer.apply_chat_template(message, tokenize=False)

response = llm.generate([prompt], sampling_params)
print(response[0].outputs[0].text)
`

const streamingInferScript = `import asyncio
from furiosa_llm import LLM, SamplingParams

async def main():
    llm = LLM.load_artifact("furiosa-ai/Llama-3.1-8B-Instruct-FP8", devices="npu:0")
    sampling_params = SamplingParams(min_tokens=10, top_p=0.3, top_k=100)

    message = [{"role": "user", "content": "What is the capital of France?"}]
    prompt = llm.tokenizer.apply_chat_template(message, tokenize=False)

    async for output_txt in llm.stream_generate(prompt, sampling_params):
        print(output_txt, end="", flush=True)

if __name__ == "__main__":
    asyncio.run(main())
`

// File is one rendered artifact.
type File struct {
	Path    string
	Content []byte
}

// Examples returns the example scripts to be placed in dir, in write order.
func Examples(dir string) []File {
	return []File{
		{Path: filepath.Join(dir, OfflineBatchFile), Content: []byte(offlineBatchScript)},
		{Path: filepath.Join(dir, StreamingInferFile), Content: []byte(streamingInferScript)},
	}
}

// WriteExamples writes the example scripts into dir and returns their paths.
// Existing files are replaced, so repeated calls leave identical content.
func WriteExamples(dir string) ([]string, error) {
	if dir == "" {
		return nil, fmt.Errorf("examples directory: %w", ErrEmptyPath)
	}
	files := Examples(dir)
	paths := make([]string, 0, len(files))
	for _, f := range files {
		if err := WriteFile(f.Path, f.Content); err != nil {
			return paths, err
		}
		paths = append(paths, f.Path)
	}
	return paths, nil
}
