package access

import (
	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
)

// Authorize permite el acceso solo si el llamador es el dueño del recurso.
// Un llamador sin identidad nunca es dueño de nada.
func Authorize(caller identity.Caller, ownerID string) error {
	if caller.SellerID == "" || caller.SellerID != ownerID {
		return domain.ErrForbidden
	}
	return nil
}
