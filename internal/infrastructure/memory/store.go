// Package memory implementa los puertos de repositorio en memoria. Se usa en tests
// y en modo demo (STORAGE_DRIVER=memory); comparte contrato con el adaptador postgres.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
)

// Store estado compartido por todos los repos en memoria.
type Store struct {
	mu        sync.RWMutex
	txMu      sync.Mutex
	seq       int64
	users     map[string]*entity.User
	sessions  map[string]*entity.Session
	customers map[string]*entity.Customer
	products  map[string]*entity.Product
	invoices  map[string]*storedInvoice

	// failNextCreate fuerza un error en el próximo Create de factura (tests de fallo de persistencia).
	failNextCreate error
}

type storedInvoice struct {
	inv *entity.Invoice
	seq int64
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:     map[string]*entity.User{},
		sessions:  map[string]*entity.Session{},
		customers: map[string]*entity.Customer{},
		products:  map[string]*entity.Product{},
		invoices:  map[string]*storedInvoice{},
	}
}

// FailNextInvoiceCreate hace que el próximo Create de factura devuelva err.
func (s *Store) FailNextInvoiceCreate(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextCreate = err
}

func (s *Store) nextSeq() int64 {
	s.seq++
	return s.seq
}

// undoLog guarda el valor previo de cada clave que toca una tx, en su primer
// acceso. Revertir solo restaura esas claves; las escrituras ajenas a la tx se
// conservan.
type undoLog struct {
	invoices map[string]*storedInvoice // nil: la factura no existía
	stats    map[string]entity.UserStats
}

func newUndoLog() *undoLog {
	return &undoLog{
		invoices: map[string]*storedInvoice{},
		stats:    map[string]entity.UserStats{},
	}
}

// Llamar con s.mu tomado.
func (l *undoLog) touchInvoice(s *Store, id string) {
	if l == nil {
		return
	}
	if _, seen := l.invoices[id]; seen {
		return
	}
	if si, ok := s.invoices[id]; ok {
		l.invoices[id] = &storedInvoice{inv: cloneInvoice(si.inv), seq: si.seq}
		return
	}
	l.invoices[id] = nil
}

// Llamar con s.mu tomado.
func (l *undoLog) touchStats(u *entity.User) {
	if l == nil {
		return
	}
	if _, seen := l.stats[u.ID]; !seen {
		l.stats[u.ID] = u.Stats
	}
}

func (s *Store) rollback(l *undoLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, prev := range l.invoices {
		if prev == nil {
			delete(s.invoices, id)
			continue
		}
		if _, ok := s.users[prev.inv.UserID]; ok {
			s.invoices[id] = prev
		}
	}
	for userID, prev := range l.stats {
		if u, ok := s.users[userID]; ok {
			u.Stats = prev
		}
	}
}

func cloneInvoice(inv *entity.Invoice) *entity.Invoice {
	c := *inv
	c.LineItems = append([]entity.LineItem(nil), inv.LineItems...)
	return &c
}

// TxRunner transacción en memoria: serializa las tx y, si fn falla, revierte solo
// las facturas y contadores que la tx modificó.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner sobre el store.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

func (r *TxRunner) Run(ctx context.Context, fn func(
	invoiceRepo repository.InvoiceRepository,
	statsRepo repository.StatsRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	undo := newUndoLog()
	invoices := &InvoiceRepo{s: r.store, undo: undo}
	stats := &StatsRepo{s: r.store, undo: undo}
	if err := fn(invoices, stats); err != nil {
		r.store.rollback(undo)
		return err
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }
