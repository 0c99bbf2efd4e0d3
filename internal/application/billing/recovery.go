package billing

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/domain"
)

// RecoveryReport resultado de Replay.
type RecoveryReport struct {
	Pending   int               `json:"pending"`
	Recovered []string          `json:"recovered"`
	Failed    map[string]string `json:"failed,omitempty"`
}

// RecoveryUseCase reintenta el commit local de facturas aceptadas por FBR que quedaron en el journal.
type RecoveryUseCase struct {
	submission *SubmissionUseCase
	journal    CommitJournal
	log        zerolog.Logger
}

// NewRecoveryUseCase construye el caso de uso.
func NewRecoveryUseCase(submission *SubmissionUseCase, journal CommitJournal, log zerolog.Logger) *RecoveryUseCase {
	return &RecoveryUseCase{
		submission: submission,
		journal:    journal,
		log:        log.With().Str("component", "recovery").Logger(),
	}
}

// Replay aplica Commit a cada entrada pendiente. Commit es idempotente, así que una
// entrada que ya fue registrada se resuelve sin duplicar contadores.
func (uc *RecoveryUseCase) Replay(ctx context.Context) (*RecoveryReport, error) {
	entries, err := uc.journal.Pending(ctx)
	if err != nil {
		return nil, err
	}
	rep := &RecoveryReport{Pending: len(entries), Failed: map[string]string{}}
	for _, e := range entries {
		if e.Invoice == nil {
			continue
		}
		id := e.Invoice.ID
		log := uc.log.With().Str("invoice_number", id).Str("user_id", e.Invoice.UserID).Logger()

		already, err := uc.submission.Commit(ctx, e.Invoice)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return rep, err
			}
			rep.Failed[id] = err.Error()
			lvl := log.Error()
			if errors.Is(err, domain.ErrUserNotFound) || errors.Is(err, domain.ErrConflict) {
				lvl = log.Warn()
			}
			lvl.Err(err).Msg("no se pudo recuperar la factura")
			continue
		}
		if err := uc.journal.Resolve(ctx, id); err != nil {
			rep.Failed[id] = err.Error()
			log.Error().Err(err).Msg("factura registrada pero no se pudo marcar en el journal")
			continue
		}
		rep.Recovered = append(rep.Recovered, id)
		log.Info().Bool("already_recorded", already).Msg("factura recuperada desde el journal")
	}
	return rep, nil
}
