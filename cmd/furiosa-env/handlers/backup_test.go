package handlers

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/furiosa-env/internal/config"
	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/platform/s3"
)

type fakeBackupClient struct {
	ensured  string
	uploaded []string
	err      error
}

func (c *fakeBackupClient) EnsureBucket(_ context.Context, bucket string) error {
	c.ensured = bucket
	return c.err
}

func (c *fakeBackupClient) UploadDirectory(_ context.Context, bucket, prefix, dir string) (*s3.UploadResult, error) {
	c.uploaded = []string{bucket, prefix, dir}
	return &s3.UploadResult{Keys: []string{prefix + "/artifact.json"}, Bytes: 42}, nil
}

type dirInfo struct{ os.FileInfo }

func (dirInfo) IsDir() bool { return true }

func backupFixture(t *testing.T, bucket string) (*fixture, *fakeBackupClient) {
	t.Helper()
	f := installFakes(t)
	client := &fakeBackupClient{}

	loadConfig = func(string) (*config.Config, error) {
		cfg := config.Default()
		cfg.Backup.Bucket = bucket
		cfg.Backup.Prefix = "artifacts/llama"
		return cfg, nil
	}
	statPath = func(string) (os.FileInfo, error) { return dirInfo{}, nil }
	newBackupClient = func(context.Context, s3.Options) (BackupClient, error) { return client, nil }
	return f, client
}

func TestBackupArtifact(t *testing.T) {
	f, client := backupFixture(t, "npu-artifacts")

	require.NoError(t, BackupArtifact(context.Background(), Globals{}))

	assert.Equal(t, "npu-artifacts", client.ensured)
	assert.Equal(t, []string{"npu-artifacts", "artifacts/llama", "./Output-Llama-3.1-8B-Instruct"}, client.uploaded)
	require.Len(t, f.reporter.Successes, 1)
	assert.Equal(t, "Uploaded 1 files (42 bytes)", f.reporter.Successes[0])
}

func TestBackupArtifact_Preconditions(t *testing.T) {
	tests := []struct {
		name    string
		bucket  string
		globals Globals
		missing bool
		remedy  string
	}{
		{
			name:    "remote target",
			bucket:  "npu-artifacts",
			globals: Globals{Remote: "ubuntu@npu-01"},
			remedy:  "on the host that compiled the model",
		},
		{
			name:   "no bucket",
			remedy: "backup.bucket",
		},
		{
			name:    "artifact missing",
			bucket:  "npu-artifacts",
			missing: true,
			remedy:  "furiosa-env compile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, client := backupFixture(t, tt.bucket)
			if tt.missing {
				statPath = func(string) (os.FileInfo, error) { return nil, os.ErrNotExist }
			}

			err := BackupArtifact(context.Background(), tt.globals)
			require.Error(t, err)
			assert.True(t, errors.Is(err, fault.PreconditionUnmet))
			assert.Contains(t, fault.Remedy(err), tt.remedy)
			assert.Empty(t, client.ensured)
		})
	}
}

func TestBackupArtifact_BucketError(t *testing.T) {
	_, client := backupFixture(t, "npu-artifacts")
	client.err = errors.New("access denied")

	err := BackupArtifact(context.Background(), Globals{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
	assert.Nil(t, client.uploaded)
}
