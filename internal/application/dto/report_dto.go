package dto

import "github.com/shopspring/decimal"

// TopClientResponse fila del ranking de clientes por pedidos completados.
type TopClientResponse struct {
	ClientID string          `json:"client_id"`
	Name     string          `json:"name"`
	LastName string          `json:"last_name"`
	Company  string          `json:"company"`
	Email    string          `json:"email"`
	Total    decimal.Decimal `json:"total"`
}

// TopSellerResponse fila del ranking de vendedores por pedidos completados.
type TopSellerResponse struct {
	SellerID string          `json:"seller_id"`
	Name     string          `json:"name"`
	LastName string          `json:"last_name"`
	Email    string          `json:"email"`
	Total    decimal.Decimal `json:"total"`
}
