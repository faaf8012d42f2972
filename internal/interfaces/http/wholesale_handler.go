package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/dto"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/wholesale"
)

// WholesaleHandler maneja las peticiones HTTP de pedidos mayoristas (protegido).
type WholesaleHandler struct {
	uc *wholesale.UseCase
}

// NewWholesaleHandler construye el handler.
func NewWholesaleHandler(uc *wholesale.UseCase) *WholesaleHandler {
	return &WholesaleHandler{uc: uc}
}

// CreateOrder godoc
// @Summary      Crear un pedido mayorista
// @Description  Resuelve el precio por escalones, planifica el consumo sobre
//               los lotes del vendedor y crea un lote forzado si falta stock.
// @Tags         wholesale
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWholesaleOrderRequest  true  "seller_id, units, with_liquor, payment_method"
// @Success      201   {object}  dto.WholesaleOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/wholesale/orders [post]
func (h *WholesaleHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateWholesaleOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	order, err := h.uc.CreateOrder(c.Context(), wholesale.CreateOrderInput{
		SellerID:      in.SellerID,
		Units:         in.Units,
		WithLiquor:    in.WithLiquor,
		PaymentMethod: in.PaymentMethod,
	})
	if err != nil {
		return errorResponse(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewWholesaleOrderResponse(order))
}

// GetOrder godoc
// @Summary      Consultar un pedido mayorista
// @Tags         wholesale
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.WholesaleOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/wholesale/orders/{id} [get]
func (h *WholesaleHandler) GetOrder(c *fiber.Ctx) error {
	order, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewWholesaleOrderResponse(order))
}

// CompleteOrder godoc
// @Summary      Completar un pedido mayorista (cuadre mayor)
// @Description  Consume el stock planificado, reparte utilidad en cascada,
//               cierra los cuadres pendientes cubiertos y deja el cuadre
//               mayor COMPLETED.
// @Tags         wholesale
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pedido"
// @Success      200  {object}  dto.WholesaleSettlementResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/wholesale/orders/{id}/complete [post]
func (h *WholesaleHandler) CompleteOrder(c *fiber.Ctx) error {
	ws, err := h.uc.CompleteOrder(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewWholesaleSettlementResponse(ws))
}

// GetSettlement godoc
// @Summary      Consultar un cuadre mayor
// @Tags         wholesale
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cuadre mayor"
// @Success      200  {object}  dto.WholesaleSettlementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/wholesale/settlements/{id} [get]
func (h *WholesaleHandler) GetSettlement(c *fiber.Ctx) error {
	ws, err := h.uc.GetSettlement(c.Context(), c.Params("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(dto.NewWholesaleSettlementResponse(ws))
}

// MarkPayoutTransferred godoc
// @Summary      Marcar un pago a reclutador como transferido
// @Tags         wholesale
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del pago"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/wholesale/payouts/{id}/transfer [post]
func (h *WholesaleHandler) MarkPayoutTransferred(c *fiber.Ctx) error {
	if err := h.uc.MarkPayoutTransferred(c.Context(), c.Params("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"message": "pago transferido"})
}
