package drafts

import (
	"context"

	"dealer-admin/internal/common/database"
	apperrors "dealer-admin/internal/common/errors"
	"dealer-admin/internal/models"
)

// Indexer makes finalized cars searchable.
type Indexer interface {
	IndexCar(ctx context.Context, car *models.Car) error
}

type ElasticIndexer struct {
	client *database.ElasticsearchClient
	index  string
}

func NewElasticIndexer(client *database.ElasticsearchClient, index string) *ElasticIndexer {
	return &ElasticIndexer{client: client, index: index}
}

func (e *ElasticIndexer) IndexCar(ctx context.Context, car *models.Car) error {
	if err := e.client.IndexDocument(ctx, e.index, car.ID, car); err != nil {
		return apperrors.NewSearchIndexFailedError(err)
	}
	return nil
}

// NopIndexer is used when no search cluster is configured.
type NopIndexer struct{}

func (NopIndexer) IndexCar(context.Context, *models.Car) error { return nil }
