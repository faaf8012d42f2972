package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
// Los tipos estructurados de abajo envuelven estos centinelas para que el
// caller pueda hacer errors.Is y además recibir los datos del rechazo.
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrUnauthorized         = errors.New("no autorizado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInvalidTransition    = errors.New("transición de estado inválida")
	ErrVersionConflict      = errors.New("conflicto de versión: releer y reintentar")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrBelowMinimumQuantity = errors.New("cantidad por debajo del mínimo mayorista")
	ErrAmountBelowExpected  = errors.New("monto recibido menor al esperado")
	ErrRegalosLimitExceeded = errors.New("límite de unidades de regalo excedido")
)

// TransitionError detalla una violación de la máquina de estados.
type TransitionError struct {
	Entity string // "batch", "tranche", "settlement", "wholesale_order"
	ID     string
	From   string
	Action string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s %s: %s no permitido en estado %s", e.Entity, e.ID, e.Action, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// VersionConflictError indica que la versión leída quedó obsoleta.
// El caller debe releer la entidad y reintentar la operación.
type VersionConflictError struct {
	Entity  string
	ID      string
	Version int64
}

func (e *VersionConflictError) Error() string {
	return fmt.Sprintf("%s %s: versión %d obsoleta", e.Entity, e.ID, e.Version)
}

func (e *VersionConflictError) Unwrap() error { return ErrVersionConflict }

// StockError detalla un consumo que excede el stock disponible.
type StockError struct {
	TrancheID string
	Available int
	Requested int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("tanda %s: stock %d, solicitado %d", e.TrancheID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// AmountError detalla una confirmación de cuadre con fondos insuficientes.
type AmountError struct {
	SettlementID string
	Expected     decimal.Decimal
	Received     decimal.Decimal
}

func (e *AmountError) Error() string {
	return fmt.Sprintf("cuadre %s: esperado %s, recibido %s", e.SettlementID, e.Expected, e.Received)
}

func (e *AmountError) Unwrap() error { return ErrAmountBelowExpected }

// MinQuantityError detalla un pedido mayorista bajo el piso del escalón mínimo.
type MinQuantityError struct {
	Requested int
	Minimum   int
}

func (e *MinQuantityError) Error() string {
	return fmt.Sprintf("pedido de %d unidades: el mínimo mayorista es %d", e.Requested, e.Minimum)
}

func (e *MinQuantityError) Unwrap() error { return ErrBelowMinimumQuantity }
