package seed

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DemoPassword is the password of every seeded customer.
const DemoPassword = "Passw0rd!"

type customerSeed struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
	Store     string
}

type productSeed struct {
	Seller      string
	Category    string
	Name        string
	Price       string
	Quantity    int
	Description string
	Location    string
}

type paymentSeed struct {
	Customer      string
	MerchantName  string
	AccountNumber string
}

var (
	customers = []customerSeed{
		{Username: "meg", Email: "meg@example.com", FirstName: "Meg", LastName: "Ducharme", Store: "Meg's Kites"},
		{Username: "steve", Email: "steve@example.com", FirstName: "Steve", LastName: "Brownlee", Store: "Steve's Music"},
		{Username: "joe", Email: "joe@example.com", FirstName: "Joe", LastName: "Shepherd"},
	}
	categories = []string{"Toys", "Music", "Outdoors"}
	products   = []productSeed{
		{Seller: "meg", Category: "Toys", Name: "Kite", Price: "14.99", Quantity: 10, Description: "Red diamond kite", Location: "Nashville"},
		{Seller: "meg", Category: "Toys", Name: "Yo-yo", Price: "2.50", Quantity: 100, Location: "Nashville"},
		{Seller: "steve", Category: "Music", Name: "Upright Piano", Price: "1000.00", Quantity: 1, Description: "Lightly used", Location: "Memphis"},
		{Seller: "steve", Category: "Outdoors", Name: "Tent", Price: "249.00", Quantity: 4, Location: "Memphis"},
	}
	payments = []paymentSeed{
		{Customer: "joe", MerchantName: "Visa", AccountNumber: "4111111111111111"},
		{Customer: "meg", MerchantName: "Amex", AccountNumber: "378282246310005"},
	}
)

// Apply inserts demo data for manual testing. Running it twice is a no-op.
func Apply(ctx context.Context, pool *pgxpool.Pool, lg *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash demo password")
	}

	customerIDs := make(map[string]int64, len(customers))
	for _, c := range customers {
		id, err := upsertCustomer(ctx, pool, c, string(hash))
		if err != nil {
			return errors.Wrapf(err, "upsert customer %s", c.Username)
		}
		customerIDs[c.Username] = id
		if c.Store == "" {
			continue
		}
		if err := upsertStore(ctx, pool, id, c.Store); err != nil {
			return errors.Wrapf(err, "upsert store %s", c.Store)
		}
	}

	categoryIDs := make(map[string]int64, len(categories))
	for _, name := range categories {
		id, err := upsertCategory(ctx, pool, name)
		if err != nil {
			return errors.Wrapf(err, "upsert category %s", name)
		}
		categoryIDs[name] = id
	}

	for _, p := range products {
		if err := insertProduct(ctx, pool, customerIDs[p.Seller], categoryIDs[p.Category], p); err != nil {
			return errors.Wrapf(err, "insert product %s", p.Name)
		}
	}

	for _, p := range payments {
		if err := insertPayment(ctx, pool, customerIDs[p.Customer], p); err != nil {
			return errors.Wrapf(err, "insert payment for %s", p.Customer)
		}
	}

	lg.Info("seed applied",
		zap.Int("customers", len(customers)),
		zap.Int("products", len(products)),
		zap.Int("payments", len(payments)),
	)
	return nil
}

func upsertCustomer(ctx context.Context, pool *pgxpool.Pool, c customerSeed, hash string) (int64, error) {
	const q = `
INSERT INTO customers (username, email, password_hash, first_name, last_name)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (lower(username)) DO UPDATE
SET email = EXCLUDED.email,
    first_name = EXCLUDED.first_name,
    last_name = EXCLUDED.last_name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, c.Username, c.Email, hash, c.FirstName, c.LastName).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func upsertStore(ctx context.Context, pool *pgxpool.Pool, sellerID int64, name string) error {
	const q = `
INSERT INTO stores (seller_id, name)
VALUES ($1, $2)
ON CONFLICT (seller_id) DO UPDATE SET name = EXCLUDED.name
`
	_, err := pool.Exec(ctx, q, sellerID, name)
	return err
}

func upsertCategory(ctx context.Context, pool *pgxpool.Pool, name string) (int64, error) {
	const q = `
INSERT INTO product_categories (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func insertProduct(ctx context.Context, pool *pgxpool.Pool, sellerID, categoryID int64, p productSeed) error {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return errors.Wrap(err, "parse price")
	}
	const q = `
INSERT INTO products (seller_id, category_id, name, price, quantity, description, location)
SELECT $1, $2, $3, $4, $5, $6, $7
WHERE NOT EXISTS (SELECT 1 FROM products WHERE seller_id = $1 AND name = $3)
`
	_, err = pool.Exec(ctx, q, sellerID, categoryID, p.Name, price, p.Quantity, p.Description, p.Location)
	return err
}

func insertPayment(ctx context.Context, pool *pgxpool.Pool, customerID int64, p paymentSeed) error {
	const q = `
INSERT INTO payments (customer_id, merchant_name, account_number)
SELECT $1, $2, $3
WHERE NOT EXISTS (
    SELECT 1 FROM payments
    WHERE customer_id = $1 AND account_number = $3 AND deleted_at IS NULL
)
`
	_, err := pool.Exec(ctx, q, customerID, p.MerchantName, p.AccountNumber)
	return err
}
