package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/batches"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/dto"
)

// SaleHandler maneja las peticiones HTTP de ventas al detalle (protegido).
type SaleHandler struct {
	uc *batches.LifecycleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *batches.LifecycleUseCase) *SaleHandler {
	return &SaleHandler{uc: uc}
}

// Register godoc
// @Summary      Registrar una venta (descuento tentativo de stock)
// @Description  El vendedor autenticado registra una venta sobre su tanda en
//               casa; queda HELD hasta que un admin la apruebe o rechace.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterSaleRequest  true  "tranche_id, units, gift_units"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.RegisterSale(c.Context(), batches.RegisterSaleInput{
		SellerID:  GetUserID(c),
		TrancheID: in.TrancheID,
		Units:     in.Units,
		GiftUnits: in.GiftUnits,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSaleResponse(sale))
}

// Approve godoc
// @Summary      Aprobar una venta HELD
// @Description  Vuelve definitivo el descuento de stock, suma a lo recaudado
//               del lote y evalúa los disparos de cuadre del vendedor.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/approve [post]
func (h *SaleHandler) Approve(c *fiber.Ctx) error {
	if err := h.uc.ApproveSale(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta aprobada"})
}

// Reject godoc
// @Summary      Rechazar una venta HELD (restaura el stock)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/reject [post]
func (h *SaleHandler) Reject(c *fiber.Ctx) error {
	if err := h.uc.RejectSale(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta rechazada"})
}
