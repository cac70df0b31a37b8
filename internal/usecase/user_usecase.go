package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/robyoreal/bitcoin/internal/domain"
)

// UserUseCase handles registration, authentication and account preferences.
type UserUseCase struct {
	userRepo UserRepository
	idGen    IDGenerator

	// startingBalance is the virtual USD grant credited to every new
	// account's legacy balance at registration.
	startingBalance decimal.Decimal
}

// NewUserUseCase creates a new UserUseCase.
func NewUserUseCase(userRepo UserRepository, idGen IDGenerator, startingBalance decimal.Decimal) *UserUseCase {
	return &UserUseCase{
		userRepo:        userRepo,
		idGen:           idGen,
		startingBalance: startingBalance,
	}
}

// RegisterInput represents input for registering a user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with hashed credentials and starting funds.
func (uc *UserUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := domain.ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := domain.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if existing, err := uc.userRepo.GetByUsername(ctx, input.Username); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	}
	if existing, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil && existing != nil {
		return nil, domain.ErrUserExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:                uc.idGen.Generate(),
		Username:          input.Username,
		Email:             input.Email,
		HashedPassword:    string(hashed),
		LegacyBalance:     uc.startingBalance,
		PreferredCurrency: domain.LegacyCurrency,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// Authenticate verifies credentials and returns the user.
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := uc.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	user.HashedPassword = ""
	return user, nil
}

// GetUser retrieves a user by ID.
func (uc *UserUseCase) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.HashedPassword = ""
	return user, nil
}

// SetPreferredCurrency updates the user's display currency.
func (uc *UserUseCase) SetPreferredCurrency(ctx context.Context, userID, currency string) error {
	currency = domain.NormalizeCurrency(currency)
	if err := domain.ValidateCurrency(currency); err != nil {
		return err
	}

	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		return err
	}

	return uc.userRepo.UpdatePreferredCurrency(ctx, userID, currency, time.Now().UTC())
}
