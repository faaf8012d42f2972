package batches

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/params"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/effect"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// RegisterSaleInput entrada para registrar una venta al detalle.
type RegisterSaleInput struct {
	SellerID  string
	TrancheID string
	Units     int
	GiftUnits int
}

// RegisterSale descuenta stock tentativamente de la tanda IN_HOME del
// vendedor y deja la venta HELD a la espera de aprobación. El descuento y el
// chequeo de versión van en un único UPDATE condicional, de modo que dos
// ventas concurrentes sobre la misma tanda no puedan dejar stock negativo.
func (uc *LifecycleUseCase) RegisterSale(ctx context.Context, in RegisterSaleInput) (*entity.Sale, error) {
	if in.SellerID == "" || in.TrancheID == "" || in.Units <= 0 || in.GiftUnits < 0 {
		return nil, domain.ErrInvalidInput
	}
	cfg := params.Resolve(uc.params)
	if in.GiftUnits > cfg.RegalosLimit {
		return nil, domain.ErrRegalosLimitExceeded
	}
	now := time.Now()
	var sale *entity.Sale

	err := uc.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		saleRepo repository.SaleRepository,
		_ ports.StockPool,
	) error {
		t, err := trancheRepo.GetByID(in.TrancheID)
		if err != nil {
			return err
		}
		if t.State != entity.TrancheStateInHome {
			return &domain.TransitionError{Entity: "tranche", ID: t.ID, From: t.State, Action: "holdStock"}
		}
		total := in.Units + in.GiftUnits
		updated, err := trancheRepo.DecrementStock(t.ID, t.Version, total)
		if err != nil {
			return err
		}
		// Las unidades de regalo no generan recaudo.
		amount := decimal.NewFromInt(int64(in.Units)).Mul(cfg.UnitPrice)
		sale = &entity.Sale{
			ID:        uuid.New().String(),
			TrancheID: updated.ID,
			BatchID:   updated.BatchID,
			SellerID:  in.SellerID,
			Units:     in.Units,
			GiftUnits: in.GiftUnits,
			Amount:    amount,
			State:     entity.SaleStateHeld,
			CreatedAt: now,
		}
		return saleRepo.Create(sale)
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// RejectSale restaura el stock descontado tentativamente y elimina la venta.
func (uc *LifecycleUseCase) RejectSale(ctx context.Context, saleID string) error {
	return uc.txRunner.Run(ctx, func(
		_ repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		saleRepo repository.SaleRepository,
		_ ports.StockPool,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale.State != entity.SaleStateHeld {
			return &domain.TransitionError{Entity: "sale", ID: sale.ID, From: sale.State, Action: "reject"}
		}
		if _, err := trancheRepo.RestoreStock(sale.TrancheID, sale.Units+sale.GiftUnits); err != nil {
			return err
		}
		return saleRepo.Delete(sale.ID)
	})
}

// ApproveSale vuelve definitivo el descuento de stock, suma el monto al
// recaudo del lote y luego evalúa disparos y recálculo de cuadres. Emite las
// alertas de stock bajo y de inversión recuperada cuando cruzan el umbral.
func (uc *LifecycleUseCase) ApproveSale(ctx context.Context, saleID string) error {
	cfg := params.Resolve(uc.params)
	now := time.Now()
	var (
		notifications []effect.Effect
		sellerID      string
		batchID       string
		trancheID     string
	)

	err := uc.txRunner.Run(ctx, func(
		batchRepo repository.BatchRepository,
		trancheRepo repository.TrancheRepository,
		_ repository.SettlementRepository,
		saleRepo repository.SaleRepository,
		_ ports.StockPool,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return err
		}
		if sale.State != entity.SaleStateHeld {
			return &domain.TransitionError{Entity: "sale", ID: sale.ID, From: sale.State, Action: "approve"}
		}
		sale.State = entity.SaleStateApproved
		sale.ResolvedAt = &now
		if err := saleRepo.Update(sale); err != nil {
			return err
		}

		b, err := batchRepo.GetByID(sale.BatchID)
		if err != nil {
			return err
		}
		recoveredBefore := b.InvestmentRecovered()
		b.MoneyCollected = b.MoneyCollected.Add(sale.Amount)
		if err := batchRepo.Update(b); err != nil {
			return err
		}
		if !recoveredBefore && b.InvestmentRecovered() {
			notifications = append(notifications, effect.Notify(effect.NotifyInvestmentRecovered, b.SellerID, b.ID, ""))
		}

		t, err := trancheRepo.GetByID(sale.TrancheID)
		if err != nil {
			return err
		}
		if t.StockPercent().LessThanOrEqual(cfg.LowStockPct) {
			notifications = append(notifications, effect.Notify(effect.NotifyLowStock, b.SellerID, b.ID, t.ID))
		}

		sellerID, batchID, trancheID = b.SellerID, b.ID, t.ID
		return nil
	})
	if err != nil {
		return err
	}

	uc.runNotifyEffects(notifications, sellerID)

	// Evaluación de disparos y recálculo del cuadre activo del vendedor.
	return uc.settlement.AfterSaleApproved(ctx, sellerID, batchID, trancheID)
}
