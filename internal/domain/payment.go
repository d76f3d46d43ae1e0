package domain

import (
	"strings"
	"time"
)

// maskChar replaces every hidden character of an account number.
const maskChar = "*"

// visibleDigits is how many trailing account number characters are exposed.
const visibleDigits = 3

// Payment is a customer's stored payment method. Only obscured account
// metadata leaves the service. DeletedAt marks a soft-deleted payment: it is
// hidden from listings but closed orders keep resolving it.
type Payment struct {
	ID             int64
	CustomerID     int64
	MerchantName   string
	AccountNumber  string
	ExpirationDate *time.Time
	CreatedAt      time.Time
	DeletedAt      *time.Time
}

// Deleted reports whether the payment was soft-deleted.
func (p Payment) Deleted() bool {
	return p.DeletedAt != nil
}

// ObscuredNumber masks all but the last three characters of the account number.
func (p Payment) ObscuredNumber() string {
	return ObscureAccountNumber(p.AccountNumber)
}

// ObscureAccountNumber returns n with every character except the last three
// replaced by '*'. Numbers of three characters or fewer are returned as is.
func ObscureAccountNumber(n string) string {
	if len(n) <= visibleDigits {
		return n
	}
	return strings.Repeat(maskChar, len(n)-visibleDigits) + n[len(n)-visibleDigits:]
}
