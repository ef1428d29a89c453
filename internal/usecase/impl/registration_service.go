// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "enroll/internal/delivery/context"
	"enroll/internal/domain/entity"
	domainerrors "enroll/internal/domain/errors"
	"enroll/internal/domain/repository"
	"enroll/internal/domain/service"
	"enroll/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// registrationService implements the AccountUsecase interface.
type registrationService struct {
	accounts repository.AccountRepository
	hasher   service.PasswordHasher
	issuer   service.TokenIssuer
	validate *validator.Validate
	logger   *slog.Logger
}

// RegistrationServiceParams holds dependencies for the registration service, injected by Fx.
type RegistrationServiceParams struct {
	fx.In

	Accounts repository.AccountRepository
	Hasher   service.PasswordHasher
	Issuer   service.TokenIssuer
	Logger   *slog.Logger
}

// NewRegistrationService is the constructor for registrationService. It receives all dependencies as interfaces.
func NewRegistrationService(params RegistrationServiceParams) usecase.AccountUsecase {
	return &registrationService{
		accounts: params.Accounts,
		hasher:   params.Hasher,
		issuer:   params.Issuer,
		validate: validator.New(),
		logger:   params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *registrationService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// Register runs the full registration flow: validate input, check uniqueness,
// hash the password, store the account, sync the identity into the chat
// backend and mint its token. Either the full credential is returned or an
// error; no partial result ever leaves this method.
//
// Hashing and the two backend calls deliberately run outside the repository's
// critical section; only Insert itself is atomic with the uniqueness check,
// so a losing racer surfaces the same duplicate error as the pre-check.
func (srv *registrationService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	if err := srv.validateInput(input); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Starting registration", slog.String("email", input.Email))

	if _, err := srv.accounts.FindByEmail(ctx, input.Email); err == nil {
		srv.log(ctx).Info("Registration rejected, email taken", slog.String("email", input.Email))

		return nil, domainerrors.ErrAccountExists.WrapMessage("email already registered")
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		srv.log(ctx).Error("Failed to check email uniqueness", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("lookup by email failed")
	}

	hashedPassword, err := srv.hasher.Hash(input.Password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("failed to hash password")
	}

	account := &entity.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: hashedPassword,
		CreatedAt:    time.Now().UTC(),
	}

	if err := srv.accounts.Insert(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			// A concurrent registration won the insert race.
			srv.log(ctx).Info("Registration lost insert race", slog.String("email", input.Email))

			return nil, domainerrors.ErrAccountExists.WrapMessage("email already registered")
		}
		srv.log(ctx).Error("Failed to store account", slog.String("email", input.Email), slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("failed to store account")
	}

	// The account stays inserted if either backend call below fails; see the
	// known-issue note in DESIGN.md. The caller only ever sees a generic
	// failure with no token.
	if err := srv.issuer.UpsertIdentity(ctx, account.ID, account.Email, account.Email); err != nil {
		srv.log(ctx).Error("Failed to upsert identity into chat backend",
			slog.String("userID", account.ID), slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("failed to upsert identity")
	}

	token, err := srv.issuer.MintToken(ctx, account.ID)
	if err != nil {
		srv.log(ctx).Error("Failed to mint chat token",
			slog.String("userID", account.ID), slog.Any("error", err))

		return nil, domainerrors.ErrRegistrationFailed.WrapMessage("failed to mint token")
	}

	srv.log(ctx).Debug("Registration completed", slog.String("userID", account.ID))

	return &usecase.RegisterOutput{
		Token:  token,
		UserID: account.ID,
		Email:  account.Email,
	}, nil
}

// validateInput maps validator failures onto the two caller-facing input
// errors. Missing fields win over a short password, matching the order the
// original boundary checked them in.
func (srv *registrationService) validateInput(input *usecase.RegisterInput) error {
	if input == nil {
		return domainerrors.ErrMissingFields.WrapMessage("empty request body")
	}

	err := srv.validate.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return domainerrors.ErrMissingFields.WrapMessage("input validation failed")
	}

	for _, fieldErr := range fieldErrs {
		if fieldErr.Tag() == "required" {
			return domainerrors.ErrMissingFields.WrapMessage("missing " + fieldErr.Field())
		}
	}

	return domainerrors.ErrPasswordTooShort.WrapMessage("password below minimum length")
}
