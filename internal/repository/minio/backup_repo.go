package minio

import (
	"bytes"
	"context"
	"path"

	"github.com/DRSN-tech/catalog-enricher/internal/cfg"
	"github.com/DRSN-tech/catalog-enricher/internal/infrastructure"
	"github.com/DRSN-tech/catalog-enricher/internal/usecase"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/minio/minio-go/v7"
)

const backupContentType = "application/json"

// BackupRepo сохраняет исходный файл каталога в MinIO перед перезаписью.
type BackupRepo struct {
	mc     *minio.Client
	cfg    *cfg.MinIOCfg
	retry  infrastructure.RetryPolicy
	logger logger.Logger
}

func NewBackupRepo(mc *minio.Client, cfg *cfg.MinIOCfg, retry infrastructure.RetryPolicy, logger logger.Logger) *BackupRepo {
	return &BackupRepo{
		mc:     mc,
		cfg:    cfg,
		retry:  retry,
		logger: logger,
	}
}

// Upload загружает копию и возвращает ключ объекта.
func (b *BackupRepo) Upload(ctx context.Context, req *usecase.UploadBackupReq) (string, error) {
	const op = "BackupRepo.Upload"

	objKey := BackupKey(b.cfg.Prefix, req.RunID, req.FileName)

	var key string
	err := infrastructure.Retry(ctx, b.retry, b.logger, op, func(ctx context.Context) error {
		info, err := b.mc.PutObject(ctx, b.cfg.BucketName, objKey, bytes.NewReader(req.Data), int64(len(req.Data)), minio.PutObjectOptions{
			ContentType: backupContentType,
			UserMetadata: map[string]string{
				"run-id": req.RunID,
			},
		})
		if err != nil {
			return err
		}

		key = info.Key
		return nil
	})
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	return key, nil
}

// BackupKey формирует ключ объекта: <prefix>/<run id>/<имя файла>.
func BackupKey(prefix, runID, fileName string) string {
	return path.Join(prefix, runID, fileName)
}
