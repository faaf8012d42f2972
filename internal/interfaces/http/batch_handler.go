package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/batches"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/dto"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
)

// BatchHandler maneja las peticiones HTTP del ciclo de vida de lotes (protegido).
type BatchHandler struct {
	uc *batches.LifecycleUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *batches.LifecycleUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir un lote
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "seller_id, total_units, payout_model, inversiones"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	total, err1 := decimal.NewFromString(in.TotalInvestment)
	seller, err2 := decimal.NewFromString(in.SellerInvestment)
	operator, err3 := decimal.NewFromString(in.OperatorInvestment)
	if err1 != nil || err2 != nil || err3 != nil {
		return errorResponse(c, domain.ErrInvalidInput)
	}
	batch, err := h.uc.CreateBatch(c.Context(), batches.CreateBatchInput{
		SellerID:           in.SellerID,
		TotalUnits:         in.TotalUnits,
		PayoutModel:        in.PayoutModel,
		TotalInvestment:    total,
		SellerInvestment:   seller,
		OperatorInvestment: operator,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewBatchResponse(batch, nil))
}

// GetByID godoc
// @Summary      Consultar un lote con sus tandas
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	batch, tranches, err := h.uc.GetBatch(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewBatchResponse(batch, tranches))
}

// ListBySeller godoc
// @Summary      Lotes activos de un vendedor
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        seller_id  query  string  true  "ID del vendedor"
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/batches [get]
func (h *BatchHandler) ListBySeller(c *fiber.Ctx) error {
	sellerID := c.Query("seller_id")
	if sellerID == "" {
		return errorResponse(c, domain.ErrInvalidInput)
	}
	list, err := h.uc.ListActiveBySeller(c.Context(), sellerID)
	if err != nil {
		return errorResponse(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, dto.NewBatchResponse(b, nil))
	}
	return c.JSON(out)
}

// Activate godoc
// @Summary      Activar un lote (descuenta el pool y libera la primera tanda)
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/activate [post]
func (h *BatchHandler) Activate(c *fiber.Ctx) error {
	if err := h.uc.ActivateBatch(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote activado"})
}

// ConfirmDelivery godoc
// @Summary      Confirmar entrega de una tanda en tránsito
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tanda"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tranches/{id}/confirm-delivery [post]
func (h *BatchHandler) ConfirmDelivery(c *fiber.Ctx) error {
	if err := h.uc.ConfirmDelivery(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "entrega confirmada"})
}

// AutoTransit godoc
// @Summary      Pasar a tránsito una tanda liberada con el retardo vencido
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la tanda"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/tranches/{id}/auto-transit [post]
func (h *BatchHandler) AutoTransit(c *fiber.Ctx) error {
	if err := h.uc.AutoTransit(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "tanda en tránsito"})
}

// Finalize godoc
// @Summary      Finalizar un lote con todas sus tandas finalizadas
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/finalize [post]
func (h *BatchHandler) Finalize(c *fiber.Ctx) error {
	if err := h.uc.FinalizeBatch(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "lote finalizado"})
}
