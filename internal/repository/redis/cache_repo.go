package redis

import (
	"context"
	"fmt"

	"github.com/DRSN-tech/catalog-enricher/pkg/clients"
	"github.com/DRSN-tech/catalog-enricher/pkg/e"
	"github.com/DRSN-tech/catalog-enricher/pkg/logger"
	"github.com/jimlawless/whereami"
	r "github.com/redis/go-redis/v9"
)

// deleteBatchSize ограничивает число ключей в одной команде DEL.
const deleteBatchSize = 500

// CacheRepo сбрасывает карточки товаров, закэшированные витриной.
type CacheRepo struct {
	client *clients.RedisClient
	logger logger.Logger
}

func NewCacheRepo(client *clients.RedisClient, logger logger.Logger) *CacheRepo {
	return &CacheRepo{
		client: client,
		logger: logger,
	}
}

// DeleteProducts удаляет продукты из кэша по ID одним пайплайном.
func (c *CacheRepo) DeleteProducts(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	pipeline := c.client.Client.Pipeline()
	for _, batch := range buildKeyBatches(ids, deleteBatchSize) {
		pipeline.Del(ctx, batch...)
	}

	cmds, err := pipeline.Exec(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	var deleted int64
	for _, cmd := range cmds {
		if n, ok := cmd.(*r.IntCmd); ok {
			deleted += n.Val()
		}
	}
	c.logger.Debugf("product cache invalidated, keys: %d, deleted: %d", len(ids), deleted)

	return nil
}

// buildKeyBatches формирует Redis-ключи и режет их на пачки
func buildKeyBatches(ids []string, size int) [][]string {
	batches := make([][]string, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))

		keys := make([]string, 0, end-start)
		for _, id := range ids[start:end] {
			keys = append(keys, productKey(id))
		}
		batches = append(batches, keys)
	}

	return batches
}

// productKey возвращает Redis-ключ для одного продукта
func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}
