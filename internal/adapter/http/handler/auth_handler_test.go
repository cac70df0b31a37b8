package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/robyoreal/bitcoin/internal/adapter/http/dto"
	"github.com/robyoreal/bitcoin/internal/domain"
	"github.com/robyoreal/bitcoin/internal/infrastructure/auth"
	"github.com/robyoreal/bitcoin/internal/usecase"
)

type userServiceStub struct {
	registerFn             func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	authenticateFn         func(ctx context.Context, username, password string) (*domain.User, error)
	getUserFn              func(ctx context.Context, id string) (*domain.User, error)
	setPreferredCurrencyFn func(ctx context.Context, userID, currency string) error
}

func (s *userServiceStub) Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
	return s.registerFn(ctx, input)
}

func (s *userServiceStub) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	return s.authenticateFn(ctx, username, password)
}

func (s *userServiceStub) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserFn(ctx, id)
}

func (s *userServiceStub) SetPreferredCurrency(ctx context.Context, userID, currency string) error {
	return s.setPreferredCurrencyFn(ctx, userID, currency)
}

func testJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret", time.Hour)
}

func TestAuthHandler_Register_Success(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return &domain.User{
				ID:       "user-1",
				Username: input.Username,
				Email:    input.Email,
			}, nil
		},
	}, testJWTManager(), nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cretpass",
	})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	if resp.User == nil || resp.User.Username != "alice" {
		t.Fatalf("expected user alice in response, got %+v", resp.User)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		registerFn: func(ctx context.Context, input usecase.RegisterInput) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}, testJWTManager(), nil)

	body, _ := json.Marshal(dto.RegisterRequest{
		Username: "alice",
		Email:    "alice@example.com",
		Password: "s3cretpass",
	})

	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	h := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return nil, domain.ErrUnauthorized
		},
	}, testJWTManager(), nil)

	body, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "wrong"})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_TokenRoundTrip(t *testing.T) {
	jwtManager := testJWTManager()
	h := NewAuthHandler(&userServiceStub{
		authenticateFn: func(ctx context.Context, username, password string) (*domain.User, error) {
			return &domain.User{ID: "user-1", Username: username}, nil
		},
	}, jwtManager, nil)

	body, _ := json.Marshal(dto.LoginRequest{Username: "alice", Password: "s3cretpass"})

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.TokenResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	claims, err := jwtManager.Verify(resp.Token)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.UserID != "user-1" {
		t.Fatalf("expected user-1 in claims, got %q", claims.UserID)
	}
}

func TestAuthHandler_SetPreferredCurrency(t *testing.T) {
	var capturedCurrency string

	h := NewAuthHandler(&userServiceStub{
		setPreferredCurrencyFn: func(ctx context.Context, userID, currency string) error {
			capturedCurrency = currency
			return nil
		},
	}, testJWTManager(), nil)

	body, _ := json.Marshal(dto.PreferredCurrencyRequest{Currency: "EUR"})

	rec := httptest.NewRecorder()
	h.SetPreferredCurrency(rec, authedRequest(http.MethodPut, "/auth/currency", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if capturedCurrency != "EUR" {
		t.Fatalf("expected raw currency passed through, got %q", capturedCurrency)
	}
}
