package product

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/repository/pgutil"
)

const productColumns = `id, seller_id, category_id, name, price, quantity, description, location, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, lg *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(lg).Named("product_repo")}
}

func (r *postgresRepo) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, error) {
	q, args := listQuery(f)
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list", zap.Error(err))
		return nil, errors.Wrap(err, "list products")
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list products rows")
	}
	r.logger.Debug("list", zap.Int("count", len(result)))
	return result, nil
}

// listQuery builds the filtered listing; every predicate is a bound parameter.
func listQuery(f domain.ProductFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.IDs != nil {
		add("id = ANY(?)", f.IDs)
	}
	if f.SellerID != 0 {
		add("seller_id = ?", f.SellerID)
	}
	if f.CategoryID != 0 {
		add("category_id = ?", f.CategoryID)
	}
	if f.Location != "" {
		add("location ILIKE ?", "%"+f.Location+"%")
	}
	if f.MinPrice != nil {
		add("price >= ?", *f.MinPrice)
	}
	if f.BelowPrice != nil {
		add("price < ?", *f.BelowPrice)
	}

	var b strings.Builder
	b.WriteString(`SELECT ` + productColumns + ` FROM products`)
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ORDER BY id")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		b.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	return b.String(), args
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	const q = `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p, err := scanProduct(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			r.logger.Debug("get: not found", zap.Int64("id", id))
		}
		return nil, err
	}
	return p, nil
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (seller_id, category_id, name, price, quantity, description, location)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns
	created, err := scanProduct(r.pool.QueryRow(ctx, q,
		p.SellerID, p.CategoryID, p.Name, p.Price, p.Quantity, p.Description, p.Location,
	))
	if err != nil {
		r.logger.Error("create", zap.String("name", p.Name), zap.Error(err))
		return nil, err
	}
	r.logger.Info("created", zap.Int64("id", created.ID), zap.Int64("seller_id", created.SellerID))
	return created, nil
}

func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET category_id = $2, name = $3, price = $4, quantity = $5, description = $6, location = $7
WHERE id = $1
RETURNING ` + productColumns
	return scanProduct(r.pool.QueryRow(ctx, q,
		p.ID, p.CategoryID, p.Name, p.Price, p.Quantity, p.Description, p.Location,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return errors.Wrap(domain.ErrConflict, "product is part of an order")
		}
		return errors.Wrap(err, "delete product")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.Price, &p.Quantity, &p.Description, &p.Location, &p.CreatedAt)
	if err != nil {
		switch {
		case pgutil.IsNoRows(err):
			return nil, domain.ErrNotFound
		case pgutil.IsForeignKeyViolation(err):
			return nil, errors.Wrap(domain.ErrInvalidRequest, "unknown category")
		}
		return nil, errors.Wrap(err, "scan product")
	}
	return &p, nil
}
