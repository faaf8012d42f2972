package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/batches"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/settlements"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/wholesale"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LifecycleUC  *batches.LifecycleUseCase
	SettlementUC *settlements.UseCase
	WholesaleUC  *wholesale.UseCase
	JWTSecret    string
}

// Router registra las rutas de la API. Las mutaciones administrativas
// (activar lotes, aprobar ventas, confirmar cuadres, completar pedidos)
// exigen rol admin; el registro de ventas exige rol vendedor.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	admin := RequireRole(jwt.RoleAdmin)

	// Lotes y tandas
	batchHandler := NewBatchHandler(deps.LifecycleUC)
	batchGroup := protected.Group("/batches")
	batchGroup.Post("/", admin, batchHandler.Create)
	batchGroup.Get("/", batchHandler.ListBySeller)
	batchGroup.Get("/:id", batchHandler.GetByID)
	batchGroup.Post("/:id/activate", admin, batchHandler.Activate)
	batchGroup.Post("/:id/finalize", admin, batchHandler.Finalize)
	protected.Post("/tranches/:id/confirm-delivery", batchHandler.ConfirmDelivery)
	protected.Post("/tranches/:id/auto-transit", admin, batchHandler.AutoTransit)

	// Ventas al detalle
	saleHandler := NewSaleHandler(deps.LifecycleUC)
	saleGroup := protected.Group("/sales")
	saleGroup.Post("/", RequireRole(jwt.RoleVendedor), saleHandler.Register)
	saleGroup.Post("/:id/approve", admin, saleHandler.Approve)
	saleGroup.Post("/:id/reject", admin, saleHandler.Reject)

	// Cuadres
	settlementHandler := NewSettlementHandler(deps.SettlementUC)
	settlementGroup := protected.Group("/settlements")
	settlementGroup.Get("/", settlementHandler.ListByBatch)
	settlementGroup.Get("/active/:seller_id", settlementHandler.GetActive)
	settlementGroup.Get("/:id", settlementHandler.GetByID)
	settlementGroup.Post("/:id/confirm", admin, settlementHandler.Confirm)
	settlementGroup.Post("/recompute/:seller_id", admin, settlementHandler.Recompute)

	// Mayorista
	wholesaleHandler := NewWholesaleHandler(deps.WholesaleUC)
	wsGroup := protected.Group("/wholesale")
	wsGroup.Post("/orders", admin, wholesaleHandler.CreateOrder)
	wsGroup.Get("/orders/:id", wholesaleHandler.GetOrder)
	wsGroup.Post("/orders/:id/complete", admin, wholesaleHandler.CompleteOrder)
	wsGroup.Get("/settlements/:id", wholesaleHandler.GetSettlement)
	wsGroup.Post("/payouts/:id/transfer", admin, wholesaleHandler.MarkPayoutTransferred)
}
