package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Pedidos-api/internal/application/report"
)

// ReportHandler expone los rankings por pedidos completados (público).
type ReportHandler struct {
	uc *report.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// TopClients godoc
// @Summary      Clientes con mayor total en pedidos completados
// @Tags         reports
// @Produce      json
// @Param        limit  query  int  false  "Cantidad (default 10, máx 100)"
// @Success      200  {array}  dto.TopClientResponse
// @Router       /api/reports/top-clients [get]
func (h *ReportHandler) TopClients(c *fiber.Ctx) error {
	out, err := h.uc.TopClients(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err, "sin datos")
	}
	return c.JSON(out)
}

// TopSellers godoc
// @Summary      Vendedores con mayor total en pedidos completados
// @Tags         reports
// @Produce      json
// @Param        limit  query  int  false  "Cantidad (default 3, máx 100)"
// @Success      200  {array}  dto.TopSellerResponse
// @Router       /api/reports/top-sellers [get]
func (h *ReportHandler) TopSellers(c *fiber.Ctx) error {
	out, err := h.uc.TopSellers(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err, "sin datos")
	}
	return c.JSON(out)
}
