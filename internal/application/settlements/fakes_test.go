package settlements_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/ports"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/entity"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/domain/repository"
)

// Fakes en memoria para ejercitar el motor de cuadres sin PostgreSQL. Los
// repos guardan copias (como haría la DB) y el runner entrega los mismos
// repos en cada "transacción"; los tests son secuenciales, así que la
// serialización por FOR UPDATE no se simula.

type store struct {
	batches     map[string]entity.Batch
	tranches    map[string]entity.Tranche
	settlements map[string]entity.Settlement

	settlementWrites int // cuántas veces se persistió un cuadre (detecta no-ops)
}

func newStore() *store {
	return &store{
		batches:     map[string]entity.Batch{},
		tranches:    map[string]entity.Tranche{},
		settlements: map[string]entity.Settlement{},
	}
}

type fakeBatchRepo struct{ st *store }

func (r *fakeBatchRepo) Create(b *entity.Batch) error {
	r.st.batches[b.ID] = *b
	return nil
}

func (r *fakeBatchRepo) GetByID(id string) (*entity.Batch, error) {
	b, ok := r.st.batches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBatchRepo) ListActiveBySeller(sellerID string) ([]*entity.Batch, error) {
	var out []*entity.Batch
	for _, b := range r.st.batches {
		if b.SellerID == sellerID && b.State == entity.BatchStateActive {
			cp := b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) Update(b *entity.Batch) error {
	cur, ok := r.st.batches[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != b.Version {
		return &domain.VersionConflictError{Entity: "batch", ID: b.ID, Version: b.Version}
	}
	b.Version++
	r.st.batches[b.ID] = *b
	return nil
}

type fakeTrancheRepo struct{ st *store }

func (r *fakeTrancheRepo) Create(t *entity.Tranche) error {
	r.st.tranches[t.ID] = *t
	return nil
}

func (r *fakeTrancheRepo) GetByID(id string) (*entity.Tranche, error) {
	t, ok := r.st.tranches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &t, nil
}

func (r *fakeTrancheRepo) ListByBatch(batchID string) ([]*entity.Tranche, error) {
	var out []*entity.Tranche
	for _, t := range r.st.tranches {
		if t.BatchID == batchID {
			cp := t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out, nil
}

func (r *fakeTrancheRepo) ListReleasedBefore(cutoff time.Time) ([]*entity.Tranche, error) {
	var out []*entity.Tranche
	for _, t := range r.st.tranches {
		if t.State == entity.TrancheStateReleased && t.ReleasedAt != nil && !t.ReleasedAt.After(cutoff) {
			cp := t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeTrancheRepo) Update(t *entity.Tranche) error {
	cur, ok := r.st.tranches[t.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != t.Version {
		return &domain.VersionConflictError{Entity: "tranche", ID: t.ID, Version: t.Version}
	}
	t.Version++
	r.st.tranches[t.ID] = *t
	return nil
}

func (r *fakeTrancheRepo) DecrementStock(id string, version int64, units int) (*entity.Tranche, error) {
	t, ok := r.st.tranches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if t.Version != version {
		return nil, &domain.VersionConflictError{Entity: "tranche", ID: id, Version: version}
	}
	if t.CurrentStock < units {
		return nil, &domain.StockError{TrancheID: id, Available: t.CurrentStock, Requested: units}
	}
	t.CurrentStock -= units
	t.Version++
	r.st.tranches[id] = t
	return &t, nil
}

func (r *fakeTrancheRepo) RestoreStock(id string, units int) (*entity.Tranche, error) {
	t, ok := r.st.tranches[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	t.CurrentStock += units
	if t.CurrentStock > t.InitialStock {
		t.CurrentStock = t.InitialStock
	}
	t.Version++
	r.st.tranches[id] = t
	return &t, nil
}

func (r *fakeTrancheRepo) ConsumeWholesale(id string, version int64, units int) (*entity.Tranche, error) {
	t, err := r.DecrementStock(id, version, units)
	if err != nil {
		return nil, err
	}
	t.WholesaleConsumed += units
	cp := *t
	r.st.tranches[id] = cp
	return t, nil
}

type fakeSettlementRepo struct{ st *store }

func (r *fakeSettlementRepo) Create(s *entity.Settlement) error {
	r.st.settlements[s.ID] = *s
	r.st.settlementWrites++
	return nil
}

func (r *fakeSettlementRepo) GetByID(id string) (*entity.Settlement, error) {
	s, ok := r.st.settlements[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &s, nil
}

func (r *fakeSettlementRepo) GetByTranche(trancheID string) (*entity.Settlement, error) {
	for _, s := range r.st.settlements {
		if s.TrancheID == trancheID && !s.Final {
			cp := s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSettlementRepo) ListByBatch(batchID string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range r.st.settlements {
		if s.BatchID == batchID {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrancheSeq < out[j].TrancheSeq })
	return out, nil
}

func (r *fakeSettlementRepo) ListOpenBySellerForUpdate(sellerID string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, s := range r.st.settlements {
		if s.SellerID == sellerID && !s.IsTerminal() {
			cp := s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TrancheSeq < out[j].TrancheSeq })
	return out, nil
}

func (r *fakeSettlementRepo) ListPendingByTranches(trancheIDs []string) ([]*entity.Settlement, error) {
	var out []*entity.Settlement
	for _, id := range trancheIDs {
		for _, s := range r.st.settlements {
			if s.TrancheID == id && s.State == entity.SettlementStatePending {
				cp := s
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (r *fakeSettlementRepo) Update(s *entity.Settlement) error {
	cur, ok := r.st.settlements[s.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Version != s.Version {
		return &domain.VersionConflictError{Entity: "settlement", ID: s.ID, Version: s.Version}
	}
	s.Version++
	r.st.settlements[s.ID] = *s
	r.st.settlementWrites++
	return nil
}

type fakeTxRunner struct{ st *store }

func (r *fakeTxRunner) RunSettlement(_ context.Context, fn func(
	repository.BatchRepository,
	repository.TrancheRepository,
	repository.SettlementRepository,
) error) error {
	return fn(&fakeBatchRepo{r.st}, &fakeTrancheRepo{r.st}, &fakeSettlementRepo{r.st})
}

type fakeNotifier struct{ sent []ports.Notification }

func (n *fakeNotifier) Notify(msg ports.Notification) { n.sent = append(n.sent, msg) }

type fakeHierarchy struct{ chain []string }

func (h *fakeHierarchy) RecruiterChain(string) ([]string, error) { return h.chain, nil }

type fakeDebt struct{ amount decimal.Decimal }

func (d *fakeDebt) OutstandingDebt(string) (decimal.Decimal, error) { return d.amount, nil }

type fakeParams struct{ values map[string]string }

func (p *fakeParams) GetNumber(key string) decimal.Decimal {
	if raw, ok := p.values[key]; ok {
		d, err := decimal.NewFromString(raw)
		if err == nil {
			return d
		}
	}
	return decimal.Zero
}
