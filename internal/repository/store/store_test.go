//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/repotest"
)

func TestPostgres_OneStorePerSeller(t *testing.T) {
	ctx := context.Background()
	pool := repotest.Pool(t)
	seller := repotest.Customer(t, pool, "papa")
	repo := NewPostgres(pool)

	s, err := repo.Create(ctx, domain.Store{SellerID: seller, Name: "Papa's General Store", Description: "tools and socks"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, domain.Store{SellerID: seller, Name: "Second"})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)

	bySeller, err := repo.GetBySeller(ctx, seller)
	require.NoError(t, err)
	assert.Equal(t, s.ID, bySeller.ID)

	s.Description = "tools, socks and kites"
	updated, err := repo.Update(ctx, *s)
	require.NoError(t, err)
	assert.Equal(t, "tools, socks and kites", updated.Description)

	list, err := repo.ListBySellers(ctx, []int64{seller})
	require.NoError(t, err)
	require.Len(t, list, 1)
}
