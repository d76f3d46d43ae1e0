package payment

import (
	"context"
	"strings"
	"time"

	"github.com/go-faster/errors"

	"marketplace-api/internal/domain"
	paymentrepo "marketplace-api/internal/repository/payment"
)

const (
	maxMerchantLen = 25
	maxAccountLen  = 25
	dateLayout     = "2006-01-02"
)

type Service struct {
	repo paymentrepo.Repository
}

func New(repo paymentrepo.Repository) *Service {
	return &Service{repo: repo}
}

// Input is a new payment method. ExpirationDate is optional, formatted
// YYYY-MM-DD.
type Input struct {
	MerchantName   string `json:"merchant_name"`
	AccountNumber  string `json:"account_number"`
	ExpirationDate string `json:"expiration_date"`
}

func (s *Service) Create(ctx context.Context, customerID int64, in Input) (*domain.Payment, error) {
	merchant := strings.TrimSpace(in.MerchantName)
	account := strings.TrimSpace(in.AccountNumber)
	switch {
	case merchant == "" || len(merchant) > maxMerchantLen:
		return nil, errors.Wrapf(domain.ErrInvalidRequest, "merchant_name must be 1-%d characters", maxMerchantLen)
	case account == "" || len(account) > maxAccountLen:
		return nil, errors.Wrapf(domain.ErrInvalidRequest, "account_number must be 1-%d characters", maxAccountLen)
	}

	p := domain.Payment{CustomerID: customerID, MerchantName: merchant, AccountNumber: account}
	if v := strings.TrimSpace(in.ExpirationDate); v != "" {
		exp, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, errors.Wrapf(domain.ErrInvalidRequest, "expiration_date %q is not YYYY-MM-DD", v)
		}
		p.ExpirationDate = &exp
	}
	return s.repo.Create(ctx, p)
}

// List returns the customer's active payments.
func (s *Service) List(ctx context.Context, customerID int64) ([]domain.Payment, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// Get returns one of the customer's active payments.
func (s *Service) Get(ctx context.Context, customerID, id int64) (*domain.Payment, error) {
	p, err := s.repo.GetByID(ctx, id, paymentrepo.ActiveOnly)
	if err != nil {
		return nil, errors.Wrapf(err, "payment %d", id)
	}
	if p.CustomerID != customerID {
		return nil, errors.Wrapf(domain.ErrPermission, "payment %d", id)
	}
	return p, nil
}

// Delete soft-deletes the payment. Orders already closed with it keep
// resolving it.
func (s *Service) Delete(ctx context.Context, customerID, id int64) error {
	if _, err := s.Get(ctx, customerID, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, id)
}
