package category

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
)

type memoryRepo struct {
	byName map[string]domain.Category
}

func (r *memoryRepo) List(context.Context) ([]domain.Category, error) {
	var out []domain.Category
	for _, c := range r.byName {
		out = append(out, c)
	}
	return out, nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Category, error) {
	for _, c := range r.byName {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Upsert(_ context.Context, name string) (*domain.Category, error) {
	c, ok := r.byName[name]
	if !ok {
		c = domain.Category{ID: int64(len(r.byName) + 1), Name: name}
		r.byName[name] = c
	}
	return &c, nil
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	svc := New(&memoryRepo{byName: map[string]domain.Category{}})

	first, err := svc.Create(ctx, " Toys ")
	require.NoError(t, err)
	assert.Equal(t, "Toys", first.Name)

	again, err := svc.Create(ctx, "Toys")
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	_, err = svc.Create(ctx, "  ")
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
	_, err = svc.Create(ctx, strings.Repeat("x", maxNameLen+1))
	require.ErrorIs(t, err, domain.ErrInvalidRequest)
}
