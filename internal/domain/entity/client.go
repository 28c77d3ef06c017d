package entity

import "time"

// Client representa un cliente de un vendedor.
// SellerID se asigna al crear y no cambia.
type Client struct {
	ID        string
	SellerID  string
	Name      string
	LastName  string
	Company   string
	Email     string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
