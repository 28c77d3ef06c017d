package entity

import "time"

// Seller representa un vendedor; es el dueño de sus clientes y pedidos.
type Seller struct {
	ID           string
	Name         string
	LastName     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	CreatedAt    time.Time
}

// FullName nombre para mostrar en reportes y comprobantes.
func (s *Seller) FullName() string {
	if s.LastName == "" {
		return s.Name
	}
	return s.Name + " " + s.LastName
}
