//go:build integration

package customer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/repotest"
)

func TestPostgres_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	repo := NewPostgres(pool, nil)

	created, err := repo.Create(ctx, domain.Customer{
		Username:     "steve",
		Email:        "Steve@Example.com",
		PasswordHash: "hash",
		FirstName:    "Steve",
		Address:      "100 Infinity Way",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "steve@example.com", created.Email)

	byName, err := repo.GetByUsername(ctx, "STEVE")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byName.ID)

	_, err = repo.Create(ctx, domain.Customer{Username: "Steve", Email: "x@example.com", PasswordHash: "h"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	_, err = repo.GetByID(ctx, created.ID+100)
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := repo.ListByIDs(ctx, []int64{created.ID})
	require.NoError(t, err)
	require.Len(t, list, 1)
}
