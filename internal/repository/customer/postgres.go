package customer

import (
	"context"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/repository/pgutil"
)

const customerColumns = `id, username, email, password_hash, first_name, last_name, phone_number, address, created_at`

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, lg *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(lg).Named("customer_repo")}
}

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (username, email, password_hash, first_name, last_name, phone_number, address)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(ctx, q,
		c.Username,
		strings.ToLower(c.Email),
		c.PasswordHash,
		c.FirstName,
		c.LastName,
		c.PhoneNumber,
		c.Address,
	))
}

func (r *postgresRepo) GetByUsername(ctx context.Context, username string) (*domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE lower(username) = lower($1) LIMIT 1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, username))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByIDs(ctx context.Context, ids []int64) ([]domain.Customer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = ANY($1) ORDER BY id`
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, errors.Wrap(err, "list customers")
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list customers rows")
	}
	return out, nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.Username,
		&c.Email,
		&c.PasswordHash,
		&c.FirstName,
		&c.LastName,
		&c.PhoneNumber,
		&c.Address,
		&c.CreatedAt,
	)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		if pgutil.IsUniqueViolation(err) {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Error("scan customer", zap.Error(err))
		return nil, errors.Wrap(err, "scan customer")
	}
	return &c, nil
}
