package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"enroll/internal/domain/entity"
	domainerrors "enroll/internal/domain/errors"
	"enroll/internal/domain/repository"
	"enroll/internal/usecase"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindByEmail(ctx context.Context, email string) (*entity.Account, error) {
	args := m.Called(ctx, email)
	if account := args.Get(0); account != nil {
		return account.(*entity.Account), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) FindByID(ctx context.Context, id string) (*entity.Account, error) {
	args := m.Called(ctx, id)
	if account := args.Get(0); account != nil {
		return account.(*entity.Account), args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *mockAccountRepository) Insert(ctx context.Context, account *entity.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *mockAccountRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type mockPasswordHasher struct {
	mock.Mock
}

func (m *mockPasswordHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *mockPasswordHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type mockTokenIssuer struct {
	mock.Mock
}

func (m *mockTokenIssuer) UpsertIdentity(ctx context.Context, id, email, displayName string) error {
	return m.Called(ctx, id, email, displayName).Error(0)
}

func (m *mockTokenIssuer) MintToken(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// registrationFixtures holds all test dependencies for registration service tests.
type registrationFixtures struct {
	service  usecase.AccountUsecase
	accounts *mockAccountRepository
	hasher   *mockPasswordHasher
	issuer   *mockTokenIssuer
}

func createTestRegistrationService(t *testing.T) registrationFixtures {
	t.Helper()

	accounts := &mockAccountRepository{}
	hasher := &mockPasswordHasher{}
	issuer := &mockTokenIssuer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewRegistrationService(RegistrationServiceParams{
		Accounts: accounts,
		Hasher:   hasher,
		Issuer:   issuer,
		Logger:   logger,
	})

	t.Cleanup(func() {
		accounts.AssertExpectations(t)
		hasher.AssertExpectations(t)
		issuer.AssertExpectations(t)
	})

	return registrationFixtures{
		service:  service,
		accounts: accounts,
		hasher:   hasher,
		issuer:   issuer,
	}
}

func TestRegister_Success(t *testing.T) {
	fixtures := createTestRegistrationService(t)
	ctx := context.Background()

	fixtures.accounts.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrAccountNotFound)
	fixtures.hasher.On("Hash", "secret1").Return("hashed_password", nil)

	var storedID string
	fixtures.accounts.On("Insert", ctx, mock.AnythingOfType("*entity.Account")).
		Run(func(args mock.Arguments) {
			account := args.Get(1).(*entity.Account)
			storedID = account.ID
			assert.NotEmpty(t, account.ID)
			assert.Equal(t, "a@x.com", account.Email)
			assert.Equal(t, "hashed_password", account.PasswordHash)
			assert.False(t, account.CreatedAt.IsZero())
		}).
		Return(nil)

	// The display name defaults to the email.
	fixtures.issuer.On("UpsertIdentity", ctx, mock.AnythingOfType("string"), "a@x.com", "a@x.com").Return(nil)
	fixtures.issuer.On("MintToken", ctx, mock.AnythingOfType("string")).Return("chat-token", nil)

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"})

	require.NoError(t, err)
	assert.Equal(t, "chat-token", output.Token)
	assert.Equal(t, storedID, output.UserID)
	assert.Equal(t, "a@x.com", output.Email)
}

func TestRegister_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		input   *usecase.RegisterInput
		wantErr *domainerrors.BaseError
	}{
		{
			name:    "nil input",
			input:   nil,
			wantErr: domainerrors.ErrMissingFields,
		},
		{
			name:    "missing email",
			input:   &usecase.RegisterInput{Password: "secret1"},
			wantErr: domainerrors.ErrMissingFields,
		},
		{
			name:    "missing password",
			input:   &usecase.RegisterInput{Email: "a@x.com"},
			wantErr: domainerrors.ErrMissingFields,
		},
		{
			name:    "missing both",
			input:   &usecase.RegisterInput{},
			wantErr: domainerrors.ErrMissingFields,
		},
		{
			name:    "short password",
			input:   &usecase.RegisterInput{Email: "b@x.com", Password: "12345"},
			wantErr: domainerrors.ErrPasswordTooShort,
		},
		{
			name:    "missing email wins over short password",
			input:   &usecase.RegisterInput{Password: "123"},
			wantErr: domainerrors.ErrMissingFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixtures := createTestRegistrationService(t)

			output, err := fixtures.service.Register(context.Background(), tt.input)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, output)
			fixtures.accounts.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything)
			fixtures.accounts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	fixtures := createTestRegistrationService(t)
	ctx := context.Background()

	existing := &entity.Account{ID: "id-1", Email: "a@x.com", PasswordHash: "hash"}
	fixtures.accounts.On("FindByEmail", ctx, "a@x.com").Return(existing, nil)

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "other99"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountExists)
	assert.Nil(t, output)
	fixtures.hasher.AssertNotCalled(t, "Hash", mock.Anything)
	fixtures.accounts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRegister_DuplicateEmailAtInsert(t *testing.T) {
	fixtures := createTestRegistrationService(t)
	ctx := context.Background()

	// A concurrent registration slips in between the pre-check and the insert.
	fixtures.accounts.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrAccountNotFound)
	fixtures.hasher.On("Hash", "secret1").Return("hashed_password", nil)
	fixtures.accounts.On("Insert", ctx, mock.AnythingOfType("*entity.Account")).Return(repository.ErrDuplicateEmail)

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrAccountExists)
	assert.Nil(t, output)
	fixtures.issuer.AssertNotCalled(t, "UpsertIdentity", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegister_HashFailure(t *testing.T) {
	fixtures := createTestRegistrationService(t)
	ctx := context.Background()

	fixtures.accounts.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrAccountNotFound)
	fixtures.hasher.On("Hash", "secret1").Return("", errors.New("entropy source failed"))

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
	assert.Nil(t, output)
	fixtures.accounts.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestRegister_UpsertFailure(t *testing.T) {
	fixtures := createTestRegistrationService(t)
	ctx := context.Background()

	fixtures.accounts.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrAccountNotFound)
	fixtures.hasher.On("Hash", "secret1").Return("hashed_password", nil)
	fixtures.accounts.On("Insert", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	fixtures.issuer.On("UpsertIdentity", ctx, mock.Anything, "a@x.com", "a@x.com").
		Return(errors.New("backend down"))

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
	assert.Nil(t, output)
	fixtures.issuer.AssertNotCalled(t, "MintToken", mock.Anything, mock.Anything)
}

func TestRegister_MintFailure(t *testing.T) {
	fixtures := createTestRegistrationService(t)
	ctx := context.Background()

	fixtures.accounts.On("FindByEmail", ctx, "a@x.com").Return(nil, repository.ErrAccountNotFound)
	fixtures.hasher.On("Hash", "secret1").Return("hashed_password", nil)
	fixtures.accounts.On("Insert", ctx, mock.AnythingOfType("*entity.Account")).Return(nil)
	fixtures.issuer.On("UpsertIdentity", ctx, mock.Anything, "a@x.com", "a@x.com").Return(nil)
	fixtures.issuer.On("MintToken", ctx, mock.Anything).Return("", errors.New("signing failed"))

	output, err := fixtures.service.Register(ctx, &usecase.RegisterInput{Email: "a@x.com", Password: "secret1"})

	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrRegistrationFailed)
	assert.Nil(t, output)
}
