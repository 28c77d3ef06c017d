package entity

import "github.com/shopspring/decimal"

// ClientTotal total de pedidos completados de un cliente.
type ClientTotal struct {
	ClientID string
	Name     string
	LastName string
	Company  string
	Email    string
	Total    decimal.Decimal
}

// SellerTotal total de pedidos completados de un vendedor.
type SellerTotal struct {
	SellerID string
	Name     string
	LastName string
	Email    string
	Total    decimal.Decimal
}
