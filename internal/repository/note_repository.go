package repository

import (
	"context"
	"fmt"
	"time"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id string) (*domain.Note, error)
	List(ctx context.Context, userID string) ([]*domain.Note, error)
	Update(ctx context.Context, note *domain.Note, fields ...string) (bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbPrefix string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: DatabaseName(dbPrefix, CollectionNotes),
	}
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, note.ID, note); err != nil {
		contextutil.LoggerFromContext(ctx).Error("Failed to insert note", "error", err)
		return fmt.Errorf("%w: cannot insert note", ErrDatabase)
	}

	contextutil.LoggerFromContext(ctx).Info("Inserted note", "note_id", note.ID)
	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, id string) (*domain.Note, error) {
	docID, ok := documentID(id)
	if !ok {
		return nil, ErrNotFound
	}

	db := r.client.DB(r.dbName)

	var note domain.Note
	if err := db.Get(ctx, docID).ScanDoc(&note); err != nil {
		if !isNotFound(err) {
			contextutil.LoggerFromContext(ctx).Error("Failed to fetch note", "note_id", id, "error", err)
		}
		return nil, ErrNotFound
	}

	return &note, nil
}

// List returns up to PageSize notes owned by userID. Store failures yield an empty list.
func (r *noteRepository) List(ctx context.Context, userID string) ([]*domain.Note, error) {
	db := r.client.DB(r.dbName)
	logger := contextutil.LoggerFromContext(ctx)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"user_id": userID,
		},
		"limit": PageSize,
	}

	rows := db.Find(ctx, query)
	defer rows.Close()

	notes := make([]*domain.Note, 0)
	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			logger.Warn("Skipping unreadable note document", "error", err)
			continue
		}
		notes = append(notes, &note)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Failed to fetch notes", "error", err)
		return []*domain.Note{}, nil
	}

	return notes, nil
}

// Update writes the named fields of note plus updated_at over the stored document, then
// refreshes note from the merged result. It reports false when no document matched.
func (r *noteRepository) Update(ctx context.Context, note *domain.Note, fields ...string) (bool, error) {
	docID, ok := documentID(note.ID)
	if !ok {
		return false, nil
	}

	if note.UpdatedAt.IsZero() {
		note.UpdatedAt = time.Now().UTC()
	}

	values := map[string]interface{}{
		"title":   note.Title,
		"content": note.Content,
		"summary": note.Summary,
		"tags":    note.Tags,
	}
	changes := map[string]interface{}{"updated_at": note.UpdatedAt}
	for _, field := range fields {
		if value, ok := values[field]; ok {
			changes[field] = value
		}
	}

	logger := contextutil.LoggerFromContext(ctx)

	merged, matched, err := mergeUpdate(ctx, r.client.DB(r.dbName), docID, changes)
	if err != nil {
		logger.Error("Failed to update note", "note_id", note.ID, "error", err)
		return false, fmt.Errorf("%w: cannot update note", ErrDatabase)
	}
	if !matched {
		return false, nil
	}

	if err := decodeDoc(merged, note); err != nil {
		logger.Warn("Failed to refresh updated note", "note_id", note.ID, "error", err)
	}
	return true, nil
}

func (r *noteRepository) Delete(ctx context.Context, id string) (bool, error) {
	docID, ok := documentID(id)
	if !ok {
		return false, nil
	}

	db := r.client.DB(r.dbName)
	logger := contextutil.LoggerFromContext(ctx)

	existingDoc, err := fetchRaw(ctx, db, docID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		logger.Error("Failed to fetch note for delete", "note_id", id, "error", err)
		return false, fmt.Errorf("%w: cannot delete note", ErrDatabase)
	}

	rev, err := revision(existingDoc)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if _, err := db.Delete(ctx, docID, rev); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		logger.Error("Failed to delete note", "note_id", id, "error", err)
		return false, fmt.Errorf("%w: cannot delete note", ErrDatabase)
	}

	return true, nil
}
