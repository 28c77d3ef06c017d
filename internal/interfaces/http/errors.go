package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/dto"
	"github.com/jhoicas/Pedidos-api/internal/application/inventory"
	"github.com/jhoicas/Pedidos-api/internal/domain"
)

// internalMsg mensaje fijo de los 500; el detalle queda solo en el log de la petición.
const internalMsg = "error interno"

// localInternalErr clave de Locals con la causa de un 500 para RequestLogger.
const localInternalErr = "internal_error"

// ownedMissing mensaje único para recursos ajenos o inexistentes: el no dueño no distingue uno de otro.
const ownedMissing = "recurso no encontrado o sin acceso"

// writeError traduce un error de los casos de uso a su respuesta HTTP.
// notFoundMsg es el mensaje para ErrNotFound; ErrForbidden usa siempre ownedMissing.
func writeError(c *fiber.Ctx, err error, notFoundMsg string) error {
	var resErr *inventory.ReservationError
	if errors.As(err, &resErr) {
		return writeReservationError(c, err, resErr)
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autenticado"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: ownedMissing})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrSellerNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: notFoundMsg})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "ya existe un registro con esos datos"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "el pedido cambió mientras se editaba, reintente"})
	default:
		c.Locals(localInternalErr, err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: internalMsg})
	}
}

// writeReservationError responde toda falla de reserva con la línea que falló y los ajustes
// ya aplicados, sea stock insuficiente, producto inexistente o error del catálogo.
func writeReservationError(c *fiber.Ctx, err error, e *inventory.ReservationError) error {
	status, code, msg := fiber.StatusInternalServerError, "INTERNAL", internalMsg
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		status, code, msg = fiber.StatusConflict, "INSUFFICIENT_STOCK", e.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, code, msg = fiber.StatusNotFound, "NOT_FOUND", e.Error()
	default:
		c.Locals(localInternalErr, err)
	}
	return c.Status(status).JSON(stockError(code, msg, e))
}

func stockError(code, msg string, e *inventory.ReservationError) dto.StockErrorResponse {
	committed := make([]dto.StockDeltaResponse, 0, len(e.Committed))
	for _, d := range e.Committed {
		committed = append(committed, dto.StockDeltaResponse{ProductID: d.ProductID, Delta: d.Delta})
	}
	return dto.StockErrorResponse{
		Code:        code,
		Message:     msg,
		LineIndex:   e.Index,
		ProductID:   e.ProductID,
		ProductName: e.ProductName,
		Requested:   e.Requested,
		Available:   e.Available,
		Committed:   committed,
	}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
