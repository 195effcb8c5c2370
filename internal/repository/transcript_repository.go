package repository

import (
	"context"
	"fmt"

	"lifeos-backend/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type TranscriptRepository interface {
	Create(ctx context.Context, transcript *domain.Transcript) error
}

type transcriptRepository struct {
	client *kivik.Client
	dbName string
}

func NewTranscriptRepository(client *kivik.Client, dbPrefix string) TranscriptRepository {
	return &transcriptRepository{
		client: client,
		dbName: DatabaseName(dbPrefix, CollectionTranscripts),
	}
}

func (r *transcriptRepository) Create(ctx context.Context, transcript *domain.Transcript) error {
	if _, err := r.client.DB(r.dbName).Put(ctx, transcript.ID, transcript); err != nil {
		return fmt.Errorf("%w: failed to archive transcript: %v", ErrDatabase, err)
	}
	return nil
}
