package customer

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
	tokenrepo "marketplace-api/internal/repository/token"
)

// memoryRepo is a lightweight in-memory customer repository for tests.
type memoryRepo struct {
	mu     sync.Mutex
	byID   map[int64]domain.Customer
	nextID int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{byID: make(map[int64]domain.Customer)}
}

func (r *memoryRepo) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.byID {
		if strings.EqualFold(existing.Username, c.Username) {
			return nil, domain.ErrAlreadyExists
		}
	}
	r.nextID++
	c.ID = r.nextID
	c.CreatedAt = time.Now().UTC()
	r.byID[c.ID] = c
	return &c, nil
}

func (r *memoryRepo) GetByUsername(_ context.Context, username string) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.byID {
		if strings.EqualFold(c.Username, username) {
			clone := c
			return &clone, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &c, nil
}

func (r *memoryRepo) ListByIDs(_ context.Context, ids []int64) ([]domain.Customer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Customer
	for _, id := range ids {
		if c, ok := r.byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type memoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]tokenrepo.Token
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]tokenrepo.Token)}
}

func (r *memoryTokenRepo) Create(_ context.Context, token tokenrepo.Token) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tokens[token.Token]; exists {
		return domain.ErrAlreadyExists
	}
	r.tokens[token.Token] = token
	return nil
}

func (r *memoryTokenRepo) Get(_ context.Context, token string) (*tokenrepo.Token, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tokens[token]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *memoryTokenRepo) Delete(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tokens[token]; !ok {
		return domain.ErrNotFound
	}
	delete(r.tokens, token)
	return nil
}

func register(t *testing.T, svc *Service, username string) (*domain.Customer, string) {
	t.Helper()
	c, token, err := svc.Register(context.Background(), RegisterInput{
		Username:  username,
		Password:  " Abcdefg1 ",
		Email:     username + "@Example.com",
		FirstName: "Steve",
		LastName:  "Brownlee",
	})
	require.NoError(t, err)
	return c, token
}

func TestRegister_IssuesTokenAndHashesPassword(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo(), time.Hour)

	c, token, err := svc.Register(context.Background(), RegisterInput{
		Username: "steve",
		Password: "Abcdefg1",
		Email:    "Steve@Example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), c.ID)
	assert.Equal(t, "steve@example.com", c.Email)
	assert.NotEqual(t, "Abcdefg1", c.PasswordHash)
	assert.Len(t, token, 40)

	found, err := svc.LookupByToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, found.ID)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo(), time.Hour)
	register(t, svc, "steve")

	_, _, err := svc.Register(context.Background(), RegisterInput{Username: "Steve", Password: "Abcdefg1", Email: "x@example.com"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestRegister_Validation(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo(), time.Hour)
	cases := []struct {
		name string
		in   RegisterInput
	}{
		{"no username", RegisterInput{Password: "Abcdefg1", Email: "a@example.com"}},
		{"no email", RegisterInput{Username: "a", Password: "Abcdefg1"}},
		{"weak password", RegisterInput{Username: "a", Password: "abc", Email: "a@example.com"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tc.in)
			require.ErrorIs(t, err, domain.ErrInvalidRequest)
		})
	}
}

func TestValidatePassword_FailsOnWeakValues(t *testing.T) {
	cases := []struct {
		name string
		pass string
	}{
		{"too short", "Abc1"},
		{"no upper", "abcdefg1"},
		{"no lower", "ABCDEFG1"},
		{"no digit", "Abcdefgh"},
	}
	for _, tc := range cases {
		assert.Error(t, validatePassword(tc.pass, 8), tc.name)
	}
	assert.NoError(t, validatePassword("Abcdefg1", 8))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := New(newMemoryRepo(), newMemoryTokenRepo(), time.Hour)
	registered, _ := register(t, svc, "steve")

	c, token, err := svc.Login(ctx, "steve", "Abcdefg1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, c.ID)
	assert.NotEmpty(t, token)

	_, _, err = svc.Login(ctx, "steve", "wrongpass")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	_, _, err = svc.Login(ctx, "missing", "Abcdefg1")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLookupByToken_ExpiredAndRevoked(t *testing.T) {
	ctx := context.Background()
	tokens := newMemoryTokenRepo()
	svc := New(newMemoryRepo(), tokens, time.Hour)
	_, token := register(t, svc, "steve")

	require.NoError(t, svc.Logout(ctx, token))
	_, err := svc.LookupByToken(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
	require.ErrorIs(t, svc.Logout(ctx, token), ErrInvalidToken)

	_, token = register(t, svc, "ann")
	svc.tokens.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.LookupByToken(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
	_, err = tokens.Get(ctx, token)
	require.ErrorIs(t, err, domain.ErrNotFound, "expired token is purged")

	_, err = svc.LookupByToken(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestByIDs(t *testing.T) {
	svc := New(newMemoryRepo(), newMemoryTokenRepo(), time.Hour)
	a, _ := register(t, svc, "a")
	b, _ := register(t, svc, "b")

	got, err := svc.ByIDs(context.Background(), []int64{a.ID, b.ID, 99})
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, "b", got[b.ID].Username)
}
