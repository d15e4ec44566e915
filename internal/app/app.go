package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-enricher/internal/cfg"
	"github.com/DRSN-tech/catalog-enricher/internal/infrastructure"
	"github.com/DRSN-tech/catalog-enricher/internal/infrastructure/kafka"
	"github.com/DRSN-tech/catalog-enricher/internal/repository/file"
	minioRepo "github.com/DRSN-tech/catalog-enricher/internal/repository/minio"
	"github.com/DRSN-tech/catalog-enricher/internal/repository/redis"
	"github.com/DRSN-tech/catalog-enricher/internal/usecase"
	"github.com/DRSN-tech/catalog-enricher/pkg/clients"
	"github.com/DRSN-tech/catalog-enricher/pkg/closer"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/jimlawless/whereami"
)

// App — один прогон разметки каталога со всеми настроенными приемниками.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	catalogUC usecase.CatalogUC
	closer    *closer.Closer
	out       io.Writer
}

// NewApp собирает зависимости. Внешние приемники подключаются только если они настроены.
func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser()
	retry := infrastructure.NewRetryPolicy(cfg.Sink.MaxRetries)

	catalogRepo := file.NewCatalogRepo(cfg.Catalog, log)

	var backupRepo usecase.BackupRepository
	if cfg.Minio != nil {
		repo, err := initBackupRepo(cfg, retry, log)
		if err != nil {
			log.Errorf(err, "failed to initialize minio backup")
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		backupRepo = repo
	}

	var cacheRepo usecase.CacheRepository
	if cfg.Redis != nil {
		redisClient := clients.NewRedisClient(cfg.Redis)
		cl.Add("redis", redisClient.Close)

		redisCtx, redisCancel := context.WithTimeout(context.Background(), cfg.Redis.DialTimeout)
		defer redisCancel()
		if err := redisClient.Ping(redisCtx); err != nil {
			// кэш необязателен: без него витрина подтянет новые данные по TTL
			log.Warnf("redis is unavailable, product cache will not be invalidated: %v", err)
		} else {
			cacheRepo = redis.NewCacheRepo(redisClient, log)
		}
	}

	var producer usecase.MessageProducer
	if cfg.Kafka != nil {
		p := kafka.NewProducer(log, cfg.Kafka, retry)
		cl.Add("kafka producer", p.Close)
		producer = p
	}

	return &App{
		cfg:       cfg,
		logger:    log,
		catalogUC: usecase.NewCatalogUC(catalogRepo, backupRepo, cacheRepo, producer, log),
		closer:    cl,
		out:       os.Stdout,
	}, nil
}

func initBackupRepo(cfg *config.Config, retry infrastructure.RetryPolicy, log logger.Logger) (*minioRepo.BackupRepo, error) {
	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		return nil, err
	}

	minioCtx, minioCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer minioCancel()
	if err := clients.EnsureBucket(minioCtx, minioClient, cfg.Minio.BucketName); err != nil {
		return nil, err
	}

	return minioRepo.NewBackupRepo(minioClient, cfg.Minio, retry, log), nil
}

// Run размечает каталог и печатает число обновленных товаров.
// SIGINT/SIGTERM отменяют прогон, если файл еще не перезаписан.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, runErr := a.catalogUC.Enrich(ctx)
	if runErr != nil {
		a.logger.Errorf(runErr, "catalog enrichment failed")
	} else {
		fmt.Fprintf(a.out, "Updated %d products with gender and color fields\n", res.Updated)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Sink.ShutdownTimeout)
	defer cancel()
	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("shutdown finished with errors: %v", err)
	}

	return runErr
}
