package customer

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/go-faster/errors"
	"golang.org/x/crypto/bcrypt"

	"marketplace-api/internal/domain"
	custrepo "marketplace-api/internal/repository/customer"
	tokenrepo "marketplace-api/internal/repository/token"
)

var (
	// ErrInvalidCredentials is returned when username/password do not match.
	ErrInvalidCredentials = errors.Wrap(domain.ErrUnauthorized, "invalid credentials")
	// ErrInvalidToken indicates the provided token could not be validated.
	ErrInvalidToken = errors.Wrap(domain.ErrUnauthorized, "invalid token")
)

// Service handles customer registration, login and token resolution.
type Service struct {
	repo        custrepo.Repository
	tokens      *tokenManager
	tokenTTL    time.Duration
	passwordMin int
}

// New creates a Service. Issued tokens live for tokenTTL.
func New(repo custrepo.Repository, tokens tokenrepo.Repository, tokenTTL time.Duration) *Service {
	return &Service{
		repo:        repo,
		tokens:      newTokenManager(tokens),
		tokenTTL:    tokenTTL,
		passwordMin: 8,
	}
}

// RegisterInput captures fields expected by the register endpoint.
type RegisterInput struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	Email       string `json:"email"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// Register creates a customer and issues its first token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*domain.Customer, string, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, "", errors.Wrap(domain.ErrInvalidRequest, "username required")
	}
	email := strings.TrimSpace(strings.ToLower(in.Email))
	if email == "" {
		return nil, "", errors.Wrap(domain.ErrInvalidRequest, "email required")
	}
	password := strings.TrimSpace(in.Password)
	if err := validatePassword(password, s.passwordMin); err != nil {
		return nil, "", err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash password")
	}

	c, err := s.repo.Create(ctx, domain.Customer{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PhoneNumber:  strings.TrimSpace(in.PhoneNumber),
		Address:      strings.TrimSpace(in.Address),
	})
	if err != nil {
		return nil, "", err
	}
	token, err := s.tokens.Issue(ctx, c.ID, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return c, token, nil
}

// Login validates credentials and returns a fresh token plus the customer.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.Customer, string, error) {
	password = strings.TrimSpace(password)
	c, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(ctx, c.ID, s.tokenTTL)
	if err != nil {
		return nil, "", err
	}
	return c, token, nil
}

// Logout revokes the token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// LookupByToken returns the customer bound to a valid token.
func (s *Service) LookupByToken(ctx context.Context, token string) (*domain.Customer, error) {
	meta, ok := s.tokens.Validate(ctx, token)
	if !ok {
		return nil, ErrInvalidToken
	}
	c, err := s.repo.GetByID(ctx, meta.CustomerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

// ByIDs returns the requested customers keyed by id. Unknown ids are skipped.
func (s *Service) ByIDs(ctx context.Context, ids []int64) (map[int64]domain.Customer, error) {
	out := make(map[int64]domain.Customer, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	list, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	for _, c := range list {
		out[c.ID] = c
	}
	return out, nil
}

func validatePassword(p string, min int) error {
	if len(p) < min {
		return errors.Wrapf(domain.ErrInvalidRequest, "password must be at least %d characters", min)
	}
	var hasUpper, hasLower, hasDigit bool
	for _, r := range p {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		}
	}
	if !hasUpper || !hasLower || !hasDigit {
		return errors.Wrap(domain.ErrInvalidRequest, "password must contain at least 1 uppercase letter, 1 lowercase letter, and 1 number")
	}
	return nil
}
