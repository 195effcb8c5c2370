package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lifeos-backend/internal/contextutil"
	"lifeos-backend/internal/domain"

	"github.com/go-kivik/kivik/v4"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type userRepository struct {
	client *kivik.Client
	dbName string
}

func NewUserRepository(client *kivik.Client, dbPrefix string) UserRepository {
	return &userRepository{
		client: client,
		dbName: DatabaseName(dbPrefix, CollectionUsers),
	}
}

// userDocID keys users by normalized email so the store itself rejects duplicates.
func userDocID(email string) string {
	return "user:" + strings.ToLower(strings.TrimSpace(email))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	db := r.client.DB(r.dbName)

	if _, err := db.Put(ctx, userDocID(user.Email), user); err != nil {
		if isConflict(err) {
			return ErrAlreadyExists
		}
		contextutil.LoggerFromContext(ctx).Error("Failed to create user", "error", err)
		return fmt.Errorf("%w: failed to create user: %v", ErrDatabase, err)
	}

	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	db := r.client.DB(r.dbName)

	var user domain.User
	if err := db.Get(ctx, userDocID(email)).ScanDoc(&user); err != nil {
		if isNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: failed to find user by email: %v", ErrDatabase, err)
	}

	return &user, nil
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return false, err
}
