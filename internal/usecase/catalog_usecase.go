package usecase

import (
	"context"
	"path/filepath"

	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/google/uuid"
)

// CatalogUseCase размечает каталог: читает файл целиком, проставляет gender и color
// каждому товару и один раз перезаписывает файл.
// backupRepo, cacheRepo и producer необязательны и могут быть nil.
type CatalogUseCase struct {
	catalogRepo CatalogRepository
	backupRepo  BackupRepository
	cacheRepo   CacheRepository
	producer    MessageProducer
	logger      logger.Logger
	newRunID    func() string
}

func NewCatalogUC(
	catalogRepo CatalogRepository,
	backupRepo BackupRepository,
	cacheRepo CacheRepository,
	producer MessageProducer,
	logger logger.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		catalogRepo: catalogRepo,
		backupRepo:  backupRepo,
		cacheRepo:   cacheRepo,
		producer:    producer,
		logger:      logger,
		newRunID:    uuid.NewString,
	}
}

// Enrich выполняет один прогон разметки.
// Ошибки чтения, разбора, формы, резервного копирования и записи прерывают прогон до перезаписи файла.
// Сброс кэша и отправка события выполняются после записи и на результат не влияют.
func (c *CatalogUseCase) Enrich(ctx context.Context) (*EnrichRes, error) {
	const op = "CatalogUseCase.Enrich"

	runID := c.newRunID()
	path := c.catalogRepo.Path()
	c.logger.Infof("catalog enrichment started, run_id: %s, path: %s", runID, path)

	catalog, original, err := c.catalogRepo.Load(ctx)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	c.logger.Debugf("catalog loaded, products: %d", catalog.Len())

	var backupKey string
	if c.backupRepo != nil {
		backupKey, err = c.backupRepo.Upload(ctx, NewUploadBackupReq(runID, filepath.Base(path), original))
		if err != nil {
			return nil, e.Wrap(op, err)
		}
		c.logger.Infof("catalog backup uploaded, key: %s", backupKey)
	}

	stats, err := catalog.Enrich()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if err := c.catalogRepo.Save(ctx, catalog); err != nil {
		return nil, e.Wrap(op, err)
	}

	res := NewEnrichRes(runID, path, stats, backupKey)

	// Удаление из кэша старых карточек товаров
	if c.cacheRepo != nil {
		if ids := catalog.ProductIDs(); len(ids) > 0 {
			if err := c.cacheRepo.DeleteProducts(ctx, ids); err != nil {
				c.logger.Warnf("Failed to delete cached products: %v", e.Wrap(op, err))
			}
		}
	}

	if c.producer != nil {
		if err := c.producer.WriteEnrichedEvent(ctx, NewEnrichedEventReq(res)); err != nil {
			c.logger.Warnf("Failed to publish enrichment event: %v", e.Wrap(op, err))
		}
	}

	c.logger.Infof("catalog enrichment finished, run_id: %s, updated: %d", runID, res.Updated)
	return res, nil
}
