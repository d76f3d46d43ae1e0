package importer

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/klauspost/pgzip"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"marketplace-api/internal/domain"
	productsvc "marketplace-api/internal/service/product"
)

type ProductCreator interface {
	Create(ctx context.Context, sellerID int64, in productsvc.Input) (*domain.Product, error)
}

type CategoryCreator interface {
	Create(ctx context.Context, name string) (*domain.Category, error)
}

// CSVImporter reads a product catalog with the columns
// name,price,quantity,description,location,category and lists every row
// as a product of one seller. Column order is taken from the header row.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductCreator
	categories CategoryCreator
	sellerID   int64
	lg         *zap.Logger

	categoryIDs map[string]int64
}

func NewCSVImporter(r io.Reader, products ProductCreator, categories CategoryCreator, sellerID int64, lg *zap.Logger) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	csvr.TrimLeadingSpace = true
	if lg == nil {
		lg = zap.NewNop()
	}
	return &CSVImporter{
		reader:      csvr,
		products:    products,
		categories:  categories,
		sellerID:    sellerID,
		lg:          lg,
		categoryIDs: make(map[string]int64),
	}
}

// Open opens a catalog file, transparently decompressing .gz files.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open catalog")
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	zr, err := pgzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "open gzip stream")
	}
	return &gzipFile{Reader: zr, file: f}, nil
}

type gzipFile struct {
	*pgzip.Reader
	file *os.File
}

func (g *gzipFile) Close() error {
	zerr := g.Reader.Close()
	ferr := g.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

type csvRow struct {
	line     int
	name     string
	price    string
	quantity string
	desc     string
	location string
	category string
}

// Run imports every row and returns the number of products created.
// Blank rows are skipped; the first invalid row aborts the import.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, errors.Wrap(err, "read headers")
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.Wrap(domain.ErrInvalidRequest, "missing name column")
	}
	if _, ok := index["price"]; !ok {
		return 0, errors.Wrap(domain.ErrInvalidRequest, "missing price column")
	}

	imported := 0
	for line := 2; ; line++ {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, errors.Wrapf(err, "read row %d", line)
		}
		row := parseRow(record, index)
		if row == nil {
			continue
		}
		row.line = line
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}
	i.lg.Info("catalog imported", zap.Int("products", imported), zap.Int64("seller_id", i.sellerID))
	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	price, err := decimal.NewFromString(row.price)
	if err != nil {
		return errors.Wrapf(domain.ErrInvalidRequest, "row %d: invalid price %q", row.line, row.price)
	}
	qty := 0
	if row.quantity != "" {
		qty, err = strconv.Atoi(row.quantity)
		if err != nil {
			return errors.Wrapf(domain.ErrInvalidRequest, "row %d: invalid quantity %q", row.line, row.quantity)
		}
	}

	in := productsvc.Input{
		Name:        row.name,
		Price:       price,
		Quantity:    qty,
		Description: row.desc,
		Location:    row.location,
	}
	if row.category != "" {
		id, err := i.categoryID(ctx, row.category)
		if err != nil {
			return errors.Wrapf(err, "row %d: category %q", row.line, row.category)
		}
		in.CategoryID = &id
	}

	if _, err := i.products.Create(ctx, i.sellerID, in); err != nil {
		return errors.Wrapf(err, "row %d: create product %q", row.line, row.name)
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (int64, error) {
	key := strings.ToLower(name)
	if id, ok := i.categoryIDs[key]; ok {
		return id, nil
	}
	c, err := i.categories.Create(ctx, name)
	if err != nil {
		return 0, err
	}
	i.categoryIDs[key] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	row := &csvRow{
		name:     pick(record, index, "name"),
		price:    pick(record, index, "price"),
		quantity: pick(record, index, "quantity"),
		desc:     pick(record, index, "description"),
		location: pick(record, index, "location"),
		category: pick(record, index, "category"),
	}
	if row.name == "" && row.price == "" {
		return nil
	}
	return row
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
