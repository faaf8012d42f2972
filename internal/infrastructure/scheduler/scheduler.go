// Package scheduler agrupa los trabajos programados de la operación: el
// barrido de auto-tránsito y el recálculo por mora de equipos. Los jobs
// invocan los mismos casos de uso síncronos que la API; aquí no hay lógica
// de negocio.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/batches"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/internal/application/settlements"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/config"
	"github.com/Samuel-Tabares/trabix-management-app-sub001/pkg/logger"
)

// ArrearsLister entrega los vendedores con deuda de equipos vencida, para
// recalcular su cuadre activo cuando la mora entra al monto esperado.
type ArrearsLister interface {
	SellersInArrears() ([]string, error)
}

// Scheduler administra los trabajos cron de la aplicación.
type Scheduler struct {
	cron       *cron.Cron
	lifecycle  *batches.LifecycleUseCase
	settlement *settlements.UseCase
	arrears    ArrearsLister
	cfg        config.CronConfig
	log        *logger.Logger
}

// New construye el scheduler. El parser por defecto de robfig/cron/v3 es
// cron estándar de 5 campos (min, hora, día, mes, día de semana).
func New(
	cfg config.CronConfig,
	lifecycle *batches.LifecycleUseCase,
	settlement *settlements.UseCase,
	arrears ArrearsLister,
	log *logger.Logger,
) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		lifecycle:  lifecycle,
		settlement: settlement,
		arrears:    arrears,
		cfg:        cfg,
		log:        log,
	}
}

// Start registra los jobs y arranca el cron.
func (s *Scheduler) Start() {
	s.log.Info().Msg("iniciando scheduler")

	if _, err := s.cron.AddFunc(s.cfg.AutoTransitSpec, s.runAutoTransit); err != nil {
		s.log.Error().Err(err).Str("spec", s.cfg.AutoTransitSpec).
			Msg("no se pudo programar el auto-tránsito")
	}
	if _, err := s.cron.AddFunc(s.cfg.ArrearsSpec, s.runArrearsSweep); err != nil {
		s.log.Error().Err(err).Str("spec", s.cfg.ArrearsSpec).
			Msg("no se pudo programar el barrido de mora")
	}

	s.cron.Start()
}

// Stop detiene el cron sin esperar jobs en curso.
func (s *Scheduler) Stop() {
	s.log.Info().Msg("deteniendo scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runAutoTransit() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	moved, err := s.lifecycle.AutoTransitSweep(ctx, time.Now())
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de auto-tránsito falló")
		return
	}
	if moved > 0 {
		s.log.Info().Int("tandas", moved).Msg("tandas pasadas a tránsito")
	}
}

func (s *Scheduler) runArrearsSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	sellers, err := s.arrears.SellersInArrears()
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo listar vendedores en mora")
		return
	}
	for _, sellerID := range sellers {
		if err := s.settlement.RecomputeActive(ctx, sellerID); err != nil {
			s.log.Error().Err(err).Str("vendedor", sellerID).
				Msg("recálculo por mora falló")
		}
	}
	if len(sellers) > 0 {
		s.log.Info().Int("vendedores", len(sellers)).Msg("barrido de mora completado")
	}
}
