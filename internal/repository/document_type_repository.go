package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"doc-authorizer/internal/domain"
)

var ErrDuplicateCode = errors.New("document type code already exists")

type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *domain.DocumentType) error
	GetByID(ctx context.Context, id int64) (*domain.DocumentType, error)
	GetActiveByCode(ctx context.Context, code string) (*domain.DocumentType, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
	ListActive(ctx context.Context) ([]domain.DocumentType, error)
	Update(ctx context.Context, dt *domain.DocumentType) error
	Deactivate(ctx context.Context, id int64) (bool, error)
	IsReferenced(ctx context.Context, id int64) (bool, error)
}

type documentTypeRepository struct {
	db *sqlx.DB
}

func NewDocumentTypeRepository(db *sqlx.DB) DocumentTypeRepository {
	return &documentTypeRepository{db: db}
}

func (r *documentTypeRepository) Create(ctx context.Context, dt *domain.DocumentType) error {
	query := `
		INSERT INTO document_types (code, description, microservice, base_url, callback_endpoint, view_url, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		dt.Code, dt.Description, dt.Microservice, dt.BaseURL, dt.CallbackEndpoint, dt.ViewURL, dt.Active,
	).Scan(&dt.ID, &dt.CreatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (r *documentTypeRepository) GetByID(ctx context.Context, id int64) (*domain.DocumentType, error) {
	var dt domain.DocumentType
	query := `SELECT * FROM document_types WHERE id = $1`

	err := r.db.GetContext(ctx, &dt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *documentTypeRepository) GetActiveByCode(ctx context.Context, code string) (*domain.DocumentType, error) {
	var dt domain.DocumentType
	query := `SELECT * FROM document_types WHERE UPPER(code) = UPPER($1) AND active = true`

	err := r.db.GetContext(ctx, &dt, query, code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

func (r *documentTypeRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM document_types WHERE UPPER(code) = UPPER($1))`
	err := r.db.GetContext(ctx, &exists, query, code)
	return exists, err
}

func (r *documentTypeRepository) ListActive(ctx context.Context) ([]domain.DocumentType, error) {
	var types []domain.DocumentType
	query := `SELECT * FROM document_types WHERE active = true ORDER BY code`
	err := r.db.SelectContext(ctx, &types, query)
	return types, err
}

func (r *documentTypeRepository) Update(ctx context.Context, dt *domain.DocumentType) error {
	query := `
		UPDATE document_types
		SET code = $1, description = $2, microservice = $3, base_url = $4,
			callback_endpoint = $5, view_url = $6, active = $7
		WHERE id = $8`

	_, err := r.db.ExecContext(ctx, query,
		dt.Code, dt.Description, dt.Microservice, dt.BaseURL, dt.CallbackEndpoint, dt.ViewURL, dt.Active, dt.ID,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateCode
	}
	return err
}

func (r *documentTypeRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE document_types SET active = false WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

// IsReferenced reports whether any notification points at the type.
func (r *documentTypeRepository) IsReferenced(ctx context.Context, id int64) (bool, error) {
	var referenced bool
	query := `SELECT EXISTS(SELECT 1 FROM notifications WHERE document_type_id = $1)`
	err := r.db.GetContext(ctx, &referenced, query, id)
	return referenced, err
}
