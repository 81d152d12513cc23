package documenttype

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/pkg/logger"
	"doc-authorizer/internal/repository"
)

type Service interface {
	List(ctx context.Context) ([]domain.DocumentType, error)
	GetByID(ctx context.Context, id int64) (*domain.DocumentType, error)
	GetByCode(ctx context.Context, code string) (*domain.DocumentType, error)
	Create(ctx context.Context, input domain.DocumentTypeInput) (*domain.DocumentType, error)
	Update(ctx context.Context, id int64, input domain.DocumentTypeInput) (*domain.DocumentType, error)
	Deactivate(ctx context.Context, id int64) error
}

type service struct {
	repo repository.DocumentTypeRepository
	log  *zap.Logger
}

func NewService(repo repository.DocumentTypeRepository, log *zap.Logger) Service {
	return &service{repo: repo, log: logger.OrNop(log).Named("documenttype")}
}

func (s *service) List(ctx context.Context) ([]domain.DocumentType, error) {
	types, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if types == nil {
		types = []domain.DocumentType{}
	}
	return types, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*domain.DocumentType, error) {
	dt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, domain.NewNotFoundError("document type", fmt.Sprintf("Document type %d not found", id))
	}
	return dt, nil
}

func (s *service) GetByCode(ctx context.Context, code string) (*domain.DocumentType, error) {
	dt, err := s.repo.GetActiveByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if dt == nil {
		return nil, domain.NewNotFoundError("document type", fmt.Sprintf("Document type '%s' not found", code))
	}
	return dt, nil
}

func (s *service) Create(ctx context.Context, input domain.DocumentTypeInput) (*domain.DocumentType, error) {
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, duplicate(input.Code)
	}

	dt := &domain.DocumentType{
		Code:             input.Code,
		Description:      input.Description,
		Microservice:     input.Microservice,
		BaseURL:          input.BaseURL,
		CallbackEndpoint: input.CallbackEndpoint,
		ViewURL:          input.ViewURL,
		Active:           true,
	}
	if err := s.repo.Create(ctx, dt); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, duplicate(input.Code)
		}
		return nil, err
	}

	s.log.Info("document type created", zap.Int64("id", dt.ID), zap.String("code", dt.Code))
	return dt, nil
}

// Update replaces every field. Once notifications reference a type only its
// active flag may change.
func (s *service) Update(ctx context.Context, id int64, input domain.DocumentTypeInput) (*domain.DocumentType, error) {
	if input.ID != 0 && input.ID != id {
		return nil, domain.NewValidationError("id", "id in path does not match body")
	}
	input.Normalize()
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := *current
	updated.Code = input.Code
	updated.Description = input.Description
	updated.Microservice = input.Microservice
	updated.BaseURL = input.BaseURL
	updated.CallbackEndpoint = input.CallbackEndpoint
	updated.ViewURL = input.ViewURL
	if input.Active != nil {
		updated.Active = *input.Active
	}

	if !sameRouting(current, &updated) {
		referenced, err := s.repo.IsReferenced(ctx, id)
		if err != nil {
			return nil, err
		}
		if referenced {
			return nil, &domain.ConflictError{Message: "Document type is referenced by notifications; only its active flag can change"}
		}
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, duplicate(input.Code)
		}
		return nil, err
	}
	return &updated, nil
}

func (s *service) Deactivate(ctx context.Context, id int64) error {
	ok, err := s.repo.Deactivate(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewNotFoundError("document type", fmt.Sprintf("Document type %d not found", id))
	}
	s.log.Info("document type deactivated", zap.Int64("id", id))
	return nil
}

func sameRouting(a, b *domain.DocumentType) bool {
	return a.Code == b.Code &&
		a.Description == b.Description &&
		a.Microservice == b.Microservice &&
		a.BaseURL == b.BaseURL &&
		a.CallbackEndpoint == b.CallbackEndpoint &&
		equalOptional(a.ViewURL, b.ViewURL)
}

func equalOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func duplicate(code string) error {
	return &domain.ConflictError{Message: fmt.Sprintf("Document type with code '%s' already exists", code)}
}
