package usecase

import (
	"context"

	"github.com/DRSN-tech/catalog-enricher/internal/domain"
)

// CatalogRepository читает и перезаписывает файл каталога целиком.
type CatalogRepository interface {
	Load(ctx context.Context) (*domain.Catalog, []byte, error)
	Save(ctx context.Context, catalog *domain.Catalog) error
	Path() string
}

// BackupRepository сохраняет копию исходного файла до перезаписи.
type BackupRepository interface {
	Upload(ctx context.Context, req *UploadBackupReq) (string, error)
}

// CacheRepository сбрасывает закэшированные карточки товаров.
type CacheRepository interface {
	DeleteProducts(ctx context.Context, ids []string) error
}
