package handlers

import (
	"context"
	"fmt"
	"os"

	"github.com/imamik/furiosa-env/internal/fault"
	"github.com/imamik/furiosa-env/internal/platform/s3"
)

const backupOp = "backup-artifact"

// BackupClient uploads a compiled artifact to object storage.
type BackupClient interface {
	EnsureBucket(ctx context.Context, bucketName string) error
	UploadDirectory(ctx context.Context, bucketName, prefix, dir string) (*s3.UploadResult, error)
}

var newBackupClient = func(ctx context.Context, opts s3.Options) (BackupClient, error) {
	return s3.NewClient(ctx, opts)
}

var statPath = os.Stat

// BackupArtifact uploads the compiled artifact directory to the configured
// bucket. It reads the local filesystem, so it cannot target a remote host.
func BackupArtifact(ctx context.Context, g Globals) error {
	cfg, err := loadConfig(g.ConfigPath)
	if err != nil {
		return err
	}
	if err := applyGlobals(cfg, g); err != nil {
		return err
	}
	if cfg.Remote.Target != "" {
		return fault.Newf(fault.PreconditionUnmet, backupOp, "artifact backup reads local files and cannot run against %s", cfg.Remote.Target).
			WithRemedy("run furiosa-env backup-artifact on the host that compiled the model")
	}
	if cfg.Backup.Bucket == "" {
		return fault.Newf(fault.PreconditionUnmet, backupOp, "no backup bucket configured").
			WithRemedy("set backup.bucket in the config file or FURIOSA_ENV_BACKUP_BUCKET")
	}

	dir := cfg.Compile.OutputDirectory
	if info, err := statPath(dir); err != nil || !info.IsDir() {
		return fault.Newf(fault.PreconditionUnmet, backupOp, "compiled artifact directory %s not found", dir).
			WithRemedy("furiosa-env compile")
	}

	client, err := newBackupClient(ctx, s3.Options{
		Endpoint: cfg.Backup.Endpoint,
		Region:   cfg.Backup.Region,
	})
	if err != nil {
		return err
	}
	if err := client.EnsureBucket(ctx, cfg.Backup.Bucket); err != nil {
		return fmt.Errorf("failed to prepare bucket: %w", err)
	}

	reporter := newReporter()
	reporter.Notice(fmt.Sprintf("Uploading %s to s3://%s/%s", dir, cfg.Backup.Bucket, cfg.Backup.Prefix))
	result, err := client.UploadDirectory(ctx, cfg.Backup.Bucket, cfg.Backup.Prefix, dir)
	if err != nil {
		return err
	}
	reporter.Success(fmt.Sprintf("Uploaded %d files (%d bytes)", len(result.Keys), result.Bytes))
	return nil
}
