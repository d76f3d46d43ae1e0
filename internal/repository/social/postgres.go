package social

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

func (r *postgresRepo) Like(ctx context.Context, customerID, productID int64) error {
	const q = `
INSERT INTO likes (customer_id, product_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	return r.link(ctx, q, customerID, productID)
}

func (r *postgresRepo) Unlike(ctx context.Context, customerID, productID int64) error {
	return r.unlink(ctx, `DELETE FROM likes WHERE customer_id = $1 AND product_id = $2`, customerID, productID)
}

func (r *postgresRepo) LikedProductIDs(ctx context.Context, customerID int64) ([]int64, error) {
	return r.ids(ctx, `SELECT product_id FROM likes WHERE customer_id = $1 ORDER BY created_at`, customerID)
}

func (r *postgresRepo) Favorite(ctx context.Context, customerID, sellerID int64) error {
	const q = `
INSERT INTO favorites (customer_id, seller_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`
	return r.link(ctx, q, customerID, sellerID)
}

func (r *postgresRepo) Unfavorite(ctx context.Context, customerID, sellerID int64) error {
	return r.unlink(ctx, `DELETE FROM favorites WHERE customer_id = $1 AND seller_id = $2`, customerID, sellerID)
}

func (r *postgresRepo) FavoriteSellerIDs(ctx context.Context, customerID int64) ([]int64, error) {
	return r.ids(ctx, `SELECT seller_id FROM favorites WHERE customer_id = $1 ORDER BY created_at`, customerID)
}

func (r *postgresRepo) Recommend(ctx context.Context, rec domain.Recommendation) (*domain.Recommendation, error) {
	const q = `
INSERT INTO recommendations (product_id, customer_id, recommender_id)
VALUES ($1, $2, $3)
RETURNING id, product_id, customer_id, recommender_id, created_at
`
	var out domain.Recommendation
	err := r.pool.QueryRow(ctx, q, rec.ProductID, rec.CustomerID, rec.RecommenderID).
		Scan(&out.ID, &out.ProductID, &out.CustomerID, &out.RecommenderID, &out.CreatedAt)
	if err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "insert recommendation")
	}
	return &out, nil
}

func (r *postgresRepo) RecommendationsBy(ctx context.Context, recommenderID int64) ([]domain.Recommendation, error) {
	return r.recommendations(ctx, `WHERE recommender_id = $1`, recommenderID)
}

func (r *postgresRepo) RecommendationsFor(ctx context.Context, customerID int64) ([]domain.Recommendation, error) {
	return r.recommendations(ctx, `WHERE customer_id = $1`, customerID)
}

func (r *postgresRepo) recommendations(ctx context.Context, where string, id int64) ([]domain.Recommendation, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, product_id, customer_id, recommender_id, created_at
FROM recommendations `+where+`
ORDER BY id`, id)
	if err != nil {
		return nil, errors.Wrap(err, "list recommendations")
	}
	defer rows.Close()

	var out []domain.Recommendation
	for rows.Next() {
		var rec domain.Recommendation
		if err := rows.Scan(&rec.ID, &rec.ProductID, &rec.CustomerID, &rec.RecommenderID, &rec.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan recommendation")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list recommendations rows")
	}
	return out, nil
}

func (r *postgresRepo) link(ctx context.Context, q string, a, b int64) error {
	if _, err := r.pool.Exec(ctx, q, a, b); err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return errors.Wrap(err, "insert link")
	}
	return nil
}

func (r *postgresRepo) unlink(ctx context.Context, q string, a, b int64) error {
	cmd, err := r.pool.Exec(ctx, q, a, b)
	if err != nil {
		return errors.Wrap(err, "delete link")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ids(ctx context.Context, q string, id int64) ([]int64, error) {
	rows, err := r.pool.Query(ctx, q, id)
	if err != nil {
		return nil, errors.Wrap(err, "list ids")
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, errors.Wrap(err, "scan id")
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list ids rows")
	}
	return out, nil
}
