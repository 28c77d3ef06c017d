package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/Pedidos-api/internal/domain"
	"github.com/jhoicas/Pedidos-api/internal/domain/access"
	"github.com/jhoicas/Pedidos-api/internal/domain/identity"
)

func TestAuthorize(t *testing.T) {
	ids := []string{"", "s1", "s2", "S1"}
	for _, caller := range ids {
		for _, owner := range ids {
			err := access.Authorize(identity.Caller{SellerID: caller}, owner)
			if caller != "" && caller == owner {
				assert.NoError(t, err, "caller=%q owner=%q", caller, owner)
			} else {
				assert.ErrorIs(t, err, domain.ErrForbidden, "caller=%q owner=%q", caller, owner)
			}
		}
	}
}
