package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/dto"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/settlements"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
)

// SettlementHandler maneja las peticiones HTTP del motor de cuadres (protegido).
type SettlementHandler struct {
	uc *settlements.UseCase
}

// NewSettlementHandler construye el handler.
func NewSettlementHandler(uc *settlements.UseCase) *SettlementHandler {
	return &SettlementHandler{uc: uc}
}

// GetByID godoc
// @Summary      Consultar un cuadre
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cuadre"
// @Success      200  {object}  dto.SettlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/{id} [get]
func (h *SettlementHandler) GetByID(c *fiber.Ctx) error {
	s, err := h.uc.GetSettlement(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewSettlementResponse(s))
}

// ListByBatch godoc
// @Summary      Cuadres de un lote
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        batch_id  query  string  true  "ID del lote"
// @Success      200  {array}  dto.SettlementResponse
// @Router       /api/settlements [get]
func (h *SettlementHandler) ListByBatch(c *fiber.Ctx) error {
	batchID := c.Query("batch_id")
	if batchID == "" {
		return errorResponse(c, domain.ErrInvalidInput)
	}
	list, err := h.uc.ListByBatch(c.Context(), batchID)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.SettlementResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewSettlementResponse(s))
	}
	return c.JSON(out)
}

// GetActive godoc
// @Summary      Cuadre activo de un vendedor
// @Description  El PENDING si existe; si no, el INACTIVE más antiguo.
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        seller_id  path  string  true  "ID del vendedor"
// @Success      200  {object}  dto.SettlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/settlements/active/{seller_id} [get]
func (h *SettlementHandler) GetActive(c *fiber.Ctx) error {
	s, err := h.uc.GetActive(c.Context(), c.Params("seller_id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewSettlementResponse(s))
}

// Confirm godoc
// @Summary      Confirmar la entrega de un cuadre PENDING
// @Description  Con el monto completo el cuadre pasa a SUCCESS y se libera la
//               siguiente tanda del lote. Un monto menor al esperado se
//               rechaza con 409.
// @Tags         settlements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cuadre"
// @Param        body  body  dto.ConfirmSettlementRequest  true  "received_amount"
// @Success      200   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/settlements/{id}/confirm [post]
func (h *SettlementHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmSettlementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	received, err := decimal.NewFromString(in.ReceivedAmount)
	if err != nil {
		return errorResponse(c, domain.ErrInvalidInput)
	}
	if err := h.uc.Confirm(c.Context(), c.Params("id"), received); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "cuadre confirmado"})
}

// Recompute godoc
// @Summary      Recalcular el monto esperado del cuadre activo de un vendedor
// @Tags         settlements
// @Security     Bearer
// @Produce      json
// @Param        seller_id  path  string  true  "ID del vendedor"
// @Success      200  {object}  map[string]string
// @Router       /api/settlements/recompute/{seller_id} [post]
func (h *SettlementHandler) Recompute(c *fiber.Ctx) error {
	if err := h.uc.RecomputeActive(c.Context(), c.Params("seller_id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "recálculo ejecutado"})
}
