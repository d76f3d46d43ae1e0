package category

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/pgutil"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Category, error) {
	const q = `
SELECT id, name, created_at
FROM product_categories
ORDER BY name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list categories")
	}
	defer rows.Close()

	var result []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan category")
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list categories rows")
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, created_at FROM product_categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.CreatedAt)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "get category")
	}
	return &c, nil
}

// Upsert creates the category, or returns the existing one with the same name.
func (r *postgresRepo) Upsert(ctx context.Context, name string) (*domain.Category, error) {
	const q = `
INSERT INTO product_categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id, name, created_at
`
	var out domain.Category
	if err := r.pool.QueryRow(ctx, q, name).Scan(&out.ID, &out.Name, &out.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "upsert category")
	}
	return &out, nil
}
