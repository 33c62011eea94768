package service

import (
	"context"
	"errors"
	"strings"
	"time"

	identityerrors "barberbook/internal/identity/errors"
	"barberbook/internal/identity/repository"
	"barberbook/internal/identity/validator"
	"barberbook/pkg/config"
	apperrors "barberbook/pkg/errors"
	"barberbook/pkg/kv"
	"barberbook/pkg/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 14

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type AuthResult struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Token  string `json:"token"`
}

type IdentityService interface {
	CreateAccount(ctx context.Context, req SignupRequest) (*AuthResult, error)
	SignIn(ctx context.Context, email, password string) (*AuthResult, error)
	Verify(ctx context.Context, token string) (model.Identity, error)
	PromoteToEmployee(ctx context.Context, email string) error
}

type identityService struct {
	repo      repository.AccountRepository
	store     kv.Store
	validator *validator.AccountValidator
	cfg       *config.Config
}

func NewIdentityService(
	repo repository.AccountRepository,
	store kv.Store,
	accountValidator *validator.AccountValidator,
	cfg *config.Config,
) IdentityService {
	return &identityService{
		repo:      repo,
		store:     store,
		validator: accountValidator,
		cfg:       cfg,
	}
}

func (s *identityService) CreateAccount(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	input := validator.SignupInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Password: req.Password,
	}
	if err := s.validator.ValidateSignup(&input); err != nil {
		s.cfg.Log.Warn("Signup validation failed", "error", err)
		return nil, apperrors.Validation("Invalid signup input", map[string]any{"error": err.Error()})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	account := &repository.Account{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		Metadata: model.Metadata{
			Name:  input.Name,
			Phone: input.Phone,
			Role:  s.assignedRole(input.Email),
		},
	}

	if err := s.repo.Create(ctx, account); err != nil {
		if errors.Is(err, identityerrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already registered")
		}
		return nil, apperrors.Persistence("Failed to create account", err)
	}

	// Seed the ledger keys so a fresh profile reads zeros without the
	// lazy-init path. Failures are non-fatal: stats self-heal on first read.
	s.seedLedger(ctx, account.ID)

	token, err := s.issueToken(account)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	s.cfg.Log.Info("Account created",
		"user_id", account.ID,
		"role", account.Metadata.Role,
	)

	return &AuthResult{
		UserID: account.ID,
		Email:  account.Email,
		Name:   account.Metadata.Name,
		Role:   account.Metadata.Role,
		Token:  token,
	}, nil
}

func (s *identityService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	input := validator.SigninInput{
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := s.validator.ValidateSignin(&input); err != nil {
		return nil, apperrors.Validation("Invalid signin input", map[string]any{"error": err.Error()})
	}

	account, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return nil, apperrors.Unauthenticated("Invalid credentials")
		}
		return nil, apperrors.Persistence("Failed to look up account", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, apperrors.Unauthenticated("Invalid credentials")
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, apperrors.Internal("Failed to issue token", err)
	}

	return &AuthResult{
		UserID: account.ID,
		Email:  account.Email,
		Name:   account.Metadata.Name,
		Role:   account.Metadata.Role,
		Token:  token,
	}, nil
}

// Verify validates the bearer token and loads the stored account. The stored
// metadata, not the token claims, is authoritative: a role change (promotion)
// takes effect on the next request, not the next sign-in.
func (s *identityService) Verify(ctx context.Context, tokenString string) (model.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return model.Identity{}, apperrors.Unauthenticated("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return model.Identity{}, apperrors.Unauthenticated("Invalid token claims")
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return model.Identity{}, apperrors.Unauthenticated("Token missing subject")
	}

	account, err := s.repo.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return model.Identity{}, apperrors.Unauthenticated("Account no longer exists")
		}
		return model.Identity{}, apperrors.Persistence("Failed to load account", err)
	}

	return model.Identity{
		ID:       account.ID,
		Email:    account.Email,
		Metadata: account.Metadata,
	}, nil
}

// PromoteToEmployee mutates the stored role directly. It is deliberately not
// exposed over HTTP: only the operator CLI, running with the service's own
// database credentials, can reach it.
func (s *identityService) PromoteToEmployee(ctx context.Context, email string) error {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return apperrors.InvalidInput("Email cannot be empty")
	}

	if err := s.repo.UpdateRole(ctx, normalized, model.RoleEmployee); err != nil {
		if errors.Is(err, identityerrors.ErrNotFound) {
			return apperrors.NotFound("Account")
		}
		return apperrors.Persistence("Failed to update role", err)
	}

	s.cfg.Log.Info("Account promoted to employee", "email", normalized)
	return nil
}

// assignedRole applies the employee-email allow-list at signup. Everyone
// else signs up as a plain customer with no stored role.
func (s *identityService) assignedRole(email string) string {
	for _, allowed := range s.cfg.EmployeeEmails {
		if strings.EqualFold(allowed, email) {
			return model.RoleEmployee
		}
	}
	return ""
}

func (s *identityService) seedLedger(ctx context.Context, userID string) {
	seeds := []struct {
		key   string
		value any
	}{
		{kv.UserPointsKey(userID), 0},
		{kv.UserVisitsKey(userID), 0},
		{kv.UserBookingsKey(userID), []model.Booking{}},
		{kv.UserPointsHistoryKey(userID), []model.PointsTransaction{}},
	}
	for _, seed := range seeds {
		if err := s.store.Set(ctx, seed.key, seed.value); err != nil {
			s.cfg.Log.Error("Failed to seed ledger key",
				"user_id", userID,
				"key", seed.key,
				"error", err,
			)
		}
	}
}

func (s *identityService) issueToken(account *repository.Account) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"exp":   now.Add(s.cfg.TokenTTL).Unix(),
		"iat":   now.Unix(),
	})
	return token.SignedString([]byte(s.cfg.JWTSecret))
}
