package payment

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/repository/pgutil"
)

const paymentColumns = `id, customer_id, merchant_name, account_number, expiration_date, created_at, deleted_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	const q = `
INSERT INTO payments (customer_id, merchant_name, account_number, expiration_date)
VALUES ($1, $2, $3, $4)
RETURNING ` + paymentColumns
	return scanPayment(r.pool.QueryRow(ctx, q, p.CustomerID, p.MerchantName, p.AccountNumber, p.ExpirationDate))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64, lookup Lookup) (*domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`
	if lookup == ActiveOnly {
		q += ` AND deleted_at IS NULL`
	}
	return scanPayment(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Payment, error) {
	const q = `
SELECT ` + paymentColumns + `
FROM payments
WHERE customer_id = $1 AND deleted_at IS NULL
ORDER BY id
`
	rows, err := r.pool.Query(ctx, q, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	defer rows.Close()

	var out []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list payments rows")
	}
	return out, nil
}

func (r *postgresRepo) SoftDelete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE payments SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return errors.Wrap(err, "soft delete payment")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	if err := row.Scan(&p.ID, &p.CustomerID, &p.MerchantName, &p.AccountNumber, &p.ExpirationDate, &p.CreatedAt, &p.DeletedAt); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "scan payment")
	}
	return &p, nil
}
