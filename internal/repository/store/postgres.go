package store

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/pgutil"
)

const storeColumns = `id, seller_id, name, description, created_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Store) (*domain.Store, error) {
	const q = `
INSERT INTO stores (seller_id, name, description)
VALUES ($1, $2, $3)
RETURNING ` + storeColumns
	return scanStore(r.pool.QueryRow(ctx, q, s.SellerID, s.Name, s.Description))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE id = $1`, id))
}

func (r *postgresRepo) GetBySeller(ctx context.Context, sellerID int64) (*domain.Store, error) {
	return scanStore(r.pool.QueryRow(ctx, `SELECT `+storeColumns+` FROM stores WHERE seller_id = $1`, sellerID))
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Store, error) {
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores ORDER BY id`)
}

func (r *postgresRepo) ListBySellers(ctx context.Context, sellerIDs []int64) ([]domain.Store, error) {
	if len(sellerIDs) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+storeColumns+` FROM stores WHERE seller_id = ANY($1) ORDER BY id`, sellerIDs)
}

func (r *postgresRepo) Update(ctx context.Context, s domain.Store) (*domain.Store, error) {
	const q = `
UPDATE stores
SET name = $2, description = $3
WHERE id = $1
RETURNING ` + storeColumns
	return scanStore(r.pool.QueryRow(ctx, q, s.ID, s.Name, s.Description))
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Store, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list stores")
	}
	defer rows.Close()

	var out []domain.Store
	for rows.Next() {
		s, err := scanStore(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list stores rows")
	}
	return out, nil
}

func scanStore(row pgx.Row) (*domain.Store, error) {
	var s domain.Store
	if err := row.Scan(&s.ID, &s.SellerID, &s.Name, &s.Description, &s.CreatedAt); err != nil {
		switch {
		case pgutil.IsNoRows(err):
			return nil, domain.ErrNotFound
		case pgutil.IsUniqueViolation(err):
			return nil, domain.ErrAlreadyExists
		}
		return nil, errors.Wrap(err, "scan store")
	}
	return &s, nil
}
