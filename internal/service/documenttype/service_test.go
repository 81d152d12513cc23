package documenttype_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"doc-authorizer/internal/domain"
	"doc-authorizer/internal/mocks"
	"doc-authorizer/internal/repository"
	"doc-authorizer/internal/service/documenttype"
)

func validInput() domain.DocumentTypeInput {
	return domain.DocumentTypeInput{
		Code:             " oc ",
		Description:      "Orden de compra",
		Microservice:     "purchasing",
		BaseURL:          "http://purchasing:8080/",
		CallbackEndpoint: "/api/Ocandreq/{id}/authorize",
	}
}

func existing() *domain.DocumentType {
	return &domain.DocumentType{
		ID:               1,
		Code:             "OC",
		Description:      "Orden de compra",
		Microservice:     "purchasing",
		BaseURL:          "http://purchasing:8080",
		CallbackEndpoint: "/api/Ocandreq/{id}/authorize",
		Active:           true,
	}
}

func TestCreate(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)
	ctx := context.Background()

	repo.On("ExistsByCode", ctx, "OC").Return(false, nil)
	repo.On("Create", ctx, mock.MatchedBy(func(dt *domain.DocumentType) bool {
		return dt.Code == "OC" && dt.BaseURL == "http://purchasing:8080" && dt.Active
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.DocumentType).ID = 7
	}).Return(nil)

	dt, err := svc.Create(ctx, validInput())

	require.NoError(t, err)
	assert.Equal(t, int64(7), dt.ID)
	repo.AssertExpectations(t)
}

func TestCreate_DuplicateCode(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)

	repo.On("ExistsByCode", mock.Anything, "OC").Return(true, nil)

	_, err := svc.Create(context.Background(), validInput())

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreate_RaceOnUniqueIndex(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)

	repo.On("ExistsByCode", mock.Anything, "OC").Return(false, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicateCode)

	_, err := svc.Create(context.Background(), validInput())

	var conflict *domain.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

func TestCreate_InvalidTemplate(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)

	input := validInput()
	input.CallbackEndpoint = "/api/Ocandreq/authorize"
	_, err := svc.Create(context.Background(), input)

	assert.True(t, domain.IsValidation(err))
}

func TestUpdate_IDMismatch(t *testing.T) {
	svc := documenttype.NewService(new(mocks.DocumentTypeRepository), nil)

	input := validInput()
	input.ID = 2
	_, err := svc.Update(context.Background(), 1, input)

	assert.True(t, domain.IsValidation(err))
}

func TestUpdate_ReferencedTypeCanOnlyToggleActive(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(existing(), nil)
	repo.On("IsReferenced", ctx, int64(1)).Return(true, nil)

	input := validInput()
	input.BaseURL = "http://purchasing-v2:8080"
	_, err := svc.Update(ctx, 1, input)

	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	inactive := false
	input = validInput()
	input.Active = &inactive
	repo.On("Update", ctx, mock.MatchedBy(func(dt *domain.DocumentType) bool { return !dt.Active })).Return(nil)

	dt, err := svc.Update(ctx, 1, input)

	require.NoError(t, err)
	assert.False(t, dt.Active)
	repo.AssertNumberOfCalls(t, "IsReferenced", 1)
}

func TestUpdate_UnreferencedType(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)
	ctx := context.Background()

	repo.On("GetByID", ctx, int64(1)).Return(existing(), nil)
	repo.On("IsReferenced", ctx, int64(1)).Return(false, nil)
	repo.On("Update", ctx, mock.Anything).Return(nil)

	input := validInput()
	input.Description = "Orden de compra nacional"
	dt, err := svc.Update(ctx, 1, input)

	require.NoError(t, err)
	assert.Equal(t, "Orden de compra nacional", dt.Description)
}

func TestDeactivate(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)
	ctx := context.Background()

	repo.On("Deactivate", ctx, int64(1)).Return(true, nil)
	repo.On("Deactivate", ctx, int64(2)).Return(false, nil)
	repo.On("Deactivate", ctx, int64(3)).Return(false, errors.New("db down"))

	assert.NoError(t, svc.Deactivate(ctx, 1))
	assert.True(t, domain.IsNotFound(svc.Deactivate(ctx, 2)))
	assert.Error(t, svc.Deactivate(ctx, 3))
}

func TestGetByCode_NotFound(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)
	repo.On("GetActiveByCode", mock.Anything, "XX").Return(nil, nil)

	_, err := svc.GetByCode(context.Background(), "XX")

	assert.True(t, domain.IsNotFound(err))
}

func TestList_Empty(t *testing.T) {
	repo := new(mocks.DocumentTypeRepository)
	svc := documenttype.NewService(repo, nil)
	repo.On("ListActive", mock.Anything).Return(nil, nil)

	types, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, types)
	assert.Empty(t, types)
}
