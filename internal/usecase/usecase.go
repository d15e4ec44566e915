package usecase

import "context"

type CatalogUC interface {
	Enrich(ctx context.Context) (*EnrichRes, error)
}
