package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo compartido.
// Stock se fija al crear y después solo cambia vía ProductRepository.AdjustStock.
type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal // precio unitario de venta
	Stock     int             // nunca negativo
	CreatedAt time.Time
	UpdatedAt time.Time
}
