package inventory

import "github.com/jhoicas/Pedidos-api/internal/domain/entity"

// StockDelta ajuste con signo sobre el stock de un producto (negativo = consumo, positivo = devolución).
type StockDelta struct {
	ProductID string `json:"product_id"`
	Delta     int    `json:"delta"`
}

// Quantities suma las cantidades por producto conservando el orden de primera aparición.
func Quantities(items []entity.LineItem) (order []string, qty map[string]int) {
	qty = make(map[string]int, len(items))
	for _, it := range items {
		if _, seen := qty[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		qty[it.ProductID] += it.Quantity
	}
	return order, qty
}

// NetDelta calcula, por producto, cuánto stock hay que ajustar al pasar de old a next.
// Delta = -(nuevo - anterior). Primero los productos del pedido nuevo en su orden,
// luego los que solo estaban en el anterior. Los productos sin cambio se omiten.
func NetDelta(old, next []entity.LineItem) []StockDelta {
	oldOrder, oldQty := Quantities(old)
	newOrder, newQty := Quantities(next)

	var out []StockDelta
	for _, id := range newOrder {
		if d := newQty[id] - oldQty[id]; d != 0 {
			out = append(out, StockDelta{ProductID: id, Delta: -d})
		}
	}
	for _, id := range oldOrder {
		if _, inNew := newQty[id]; inNew {
			continue
		}
		out = append(out, StockDelta{ProductID: id, Delta: oldQty[id]})
	}
	return out
}

// Inverse devuelve los ajustes que deshacen deltas, en orden inverso.
func Inverse(deltas []StockDelta) []StockDelta {
	out := make([]StockDelta, 0, len(deltas))
	for i := len(deltas) - 1; i >= 0; i-- {
		out = append(out, StockDelta{ProductID: deltas[i].ProductID, Delta: -deltas[i].Delta})
	}
	return out
}
