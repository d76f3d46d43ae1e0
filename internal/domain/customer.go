package domain

import "time"

// Customer represents a registered marketplace user. A customer may be a
// buyer, a seller (when owning a Store), or both.
type Customer struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name,omitempty"`
	LastName     string    `json:"last_name,omitempty"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FullName joins first and last name, falling back to the username.
func (c Customer) FullName() string {
	switch {
	case c.FirstName != "" && c.LastName != "":
		return c.FirstName + " " + c.LastName
	case c.FirstName != "":
		return c.FirstName
	case c.LastName != "":
		return c.LastName
	default:
		return c.Username
	}
}

// Recommendation records one customer recommending a product to another.
type Recommendation struct {
	ID            int64
	ProductID     int64
	CustomerID    int64
	RecommenderID int64
	CreatedAt     time.Time
}
