package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"doc-authorizer/internal/domain"
)

// UserRepository reads accounts from the security directory. It never writes.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.DirectoryUser, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.DirectoryUser, error) {
	var user domain.DirectoryUser
	query := `
		SELECT id, display_name, email, phone, id_telegram AS telegram_id, (active = 1) AS active
		FROM users
		WHERE id = $1 AND active = 1`

	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
