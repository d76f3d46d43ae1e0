package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
	"marketplace-api/internal/logger"
	"marketplace-api/internal/repository/pgutil"
)

const orderColumns = `id, customer_id, payment_id, created_at`

const (
	openOrderQuery = `
SELECT ` + orderColumns + `
FROM orders
WHERE customer_id = $1 AND payment_id IS NULL
ORDER BY created_at DESC, id DESC
LIMIT 1
`
	getOrderQuery = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, lg *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logger.OrNop(lg).Named("order_repo")}
}

func (r *postgresRepo) WithinCustomerTx(ctx context.Context, customerID int64, fn func(ctx context.Context, tx Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, customerID); err != nil {
		return errors.Wrap(err, "lock customer")
	}
	if err := fn(ctx, &pgTx{q: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		if pgutil.IsUniqueViolation(err) {
			return errors.Wrap(domain.ErrConflict, "open order already exists")
		}
		return errors.Wrap(err, "commit")
	}
	return nil
}

func (r *postgresRepo) OpenOrder(ctx context.Context, customerID int64) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, openOrderQuery, customerID))
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, getOrderQuery, id))
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID int64) ([]domain.Order, error) {
	const q = `SELECT ` + orderColumns + ` FROM orders WHERE customer_id = $1 ORDER BY id`
	return r.list(ctx, q, customerID)
}

func (r *postgresRepo) ListByStatus(ctx context.Context, closed bool) ([]domain.Order, error) {
	const (
		closedQ = `SELECT ` + orderColumns + ` FROM orders WHERE payment_id IS NOT NULL ORDER BY id`
		openQ   = `SELECT ` + orderColumns + ` FROM orders WHERE payment_id IS NULL ORDER BY id`
	)
	if closed {
		return r.list(ctx, closedQ)
	}
	return r.list(ctx, openQ)
}

func (r *postgresRepo) list(ctx context.Context, q string, args ...any) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("list", zap.Error(err))
		return nil, errors.Wrap(err, "list orders")
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list orders rows")
	}
	return out, nil
}

func (r *postgresRepo) LineItems(ctx context.Context, orderIDs ...int64) (map[int64][]domain.LineItem, error) {
	const q = `
SELECT li.id, li.order_id, li.product_id, li.created_at,
       p.id, p.seller_id, p.category_id, p.name, p.price, p.quantity, p.description, p.location, p.created_at
FROM line_items li
JOIN products p ON p.id = li.product_id
WHERE li.order_id = ANY($1)
ORDER BY li.order_id, li.id
`
	out := make(map[int64][]domain.LineItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return out, nil
	}
	rows, err := r.pool.Query(ctx, q, orderIDs)
	if err != nil {
		r.logger.Error("line items", zap.Int("orders", len(orderIDs)), zap.Error(err))
		return nil, errors.Wrap(err, "query line items")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			li domain.LineItem
			p  = &li.Product
		)
		if err := rows.Scan(
			&li.ID, &li.OrderID, &li.ProductID, &li.CreatedAt,
			&p.ID, &p.SellerID, &p.CategoryID, &p.Name, &p.Price, &p.Quantity, &p.Description, &p.Location, &p.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan line item")
		}
		out[li.OrderID] = append(out[li.OrderID], li)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "line items rows")
	}
	return out, nil
}

// pgTx implements Tx on top of a pgx transaction.
type pgTx struct {
	q pgutil.Querier
}

func (t *pgTx) OpenOrder(ctx context.Context, customerID int64) (*domain.Order, error) {
	return scanOrder(t.q.QueryRow(ctx, openOrderQuery, customerID))
}

func (t *pgTx) Create(ctx context.Context, o domain.Order) (*domain.Order, error) {
	const q = `
INSERT INTO orders (customer_id, payment_id, created_at)
VALUES ($1, $2, $3)
RETURNING ` + orderColumns
	created, err := scanOrder(t.q.QueryRow(ctx, q, o.CustomerID, o.PaymentID, o.CreatedAt))
	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return nil, errors.Wrap(domain.ErrConflict, "open order already exists")
		}
		return nil, err
	}
	return created, nil
}

func (t *pgTx) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	return scanOrder(t.q.QueryRow(ctx, getOrderQuery+` FOR UPDATE`, id))
}

func (t *pgTx) SetPayment(ctx context.Context, orderID, paymentID int64) error {
	cmd, err := t.q.Exec(ctx, `UPDATE orders SET payment_id = $2 WHERE id = $1`, orderID, paymentID)
	if err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return errors.Wrap(domain.ErrNotFound, "payment")
		}
		return errors.Wrap(err, "set payment")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *pgTx) AddLineItem(ctx context.Context, li domain.LineItem) (*domain.LineItem, error) {
	const q = `
INSERT INTO line_items (order_id, product_id, created_at)
VALUES ($1, $2, $3)
RETURNING id, order_id, product_id, created_at
`
	var out domain.LineItem
	err := t.q.QueryRow(ctx, q, li.OrderID, li.ProductID, li.CreatedAt).
		Scan(&out.ID, &out.OrderID, &out.ProductID, &out.CreatedAt)
	if err != nil {
		if pgutil.IsForeignKeyViolation(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "insert line item")
	}
	return &out, nil
}

func (t *pgTx) FirstLineItem(ctx context.Context, orderID, productID int64) (*domain.LineItem, error) {
	const q = `
SELECT id, order_id, product_id, created_at
FROM line_items
WHERE order_id = $1 AND product_id = $2
ORDER BY id
LIMIT 1
`
	var li domain.LineItem
	err := t.q.QueryRow(ctx, q, orderID, productID).Scan(&li.ID, &li.OrderID, &li.ProductID, &li.CreatedAt)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "get line item")
	}
	return &li, nil
}

func (t *pgTx) DeleteLineItem(ctx context.Context, id int64) error {
	cmd, err := t.q.Exec(ctx, `DELETE FROM line_items WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete line item")
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanOrder(row pgx.Row) (*domain.Order, error) {
	var o domain.Order
	if err := row.Scan(&o.ID, &o.CustomerID, &o.PaymentID, &o.CreatedAt); err != nil {
		if pgutil.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrap(err, "scan order")
	}
	return &o, nil
}
