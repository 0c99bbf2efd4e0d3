// Package journal persiste en disco las facturas aceptadas por FBR cuyo registro
// local falló, para reintentarlas con `invoicectl recover`.
package journal

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
)

var _ billing.CommitJournal = (*FileJournal)(nil)

const (
	opAppend  = "append"
	opResolve = "resolve"
)

// record línea del archivo (JSON lines, solo se agrega al final).
type record struct {
	Op        string                `json:"op"`
	InvoiceID string                `json:"invoice_id"`
	Entry     *billing.JournalEntry `json:"entry,omitempty"`
}

// FileJournal journal append-only en un archivo local.
type FileJournal struct {
	mu   sync.Mutex
	path string
}

// NewFileJournal crea el directorio del archivo si no existe.
func NewFileJournal(path string) (*FileJournal, error) {
	if path == "" {
		return nil, errors.New("journal: ruta vacía")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("journal: crear directorio: %w", err)
	}
	return &FileJournal{path: path}, nil
}

// Append registra la factura y sincroniza el archivo antes de volver.
func (j *FileJournal) Append(_ context.Context, entry billing.JournalEntry) error {
	if entry.Invoice == nil || entry.Invoice.ID == "" {
		return errors.New("journal: entrada sin factura")
	}
	return j.write(record{Op: opAppend, InvoiceID: entry.Invoice.ID, Entry: &entry})
}

// Resolve marca la factura como registrada.
func (j *FileJournal) Resolve(_ context.Context, invoiceID string) error {
	return j.write(record{Op: opResolve, InvoiceID: invoiceID})
}

// Pending entradas agregadas y no resueltas, en orden de llegada.
// La última entrada de un mismo número reemplaza a las anteriores.
func (j *FileJournal) Pending(ctx context.Context) ([]billing.JournalEntry, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	f, err := os.Open(j.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: abrir: %w", err)
	}
	defer f.Close()

	var order []string
	pending := map[string]billing.JournalEntry{}
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(sc.Bytes()) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("journal: línea %d: %w", line, err)
		}
		switch rec.Op {
		case opAppend:
			if rec.Entry == nil {
				continue
			}
			if _, ok := pending[rec.InvoiceID]; !ok {
				order = append(order, rec.InvoiceID)
			}
			pending[rec.InvoiceID] = *rec.Entry
		case opResolve:
			delete(pending, rec.InvoiceID)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("journal: leer: %w", err)
	}

	out := make([]billing.JournalEntry, 0, len(pending))
	for _, id := range order {
		if e, ok := pending[id]; ok {
			out = append(out, e)
			delete(pending, id)
		}
	}
	return out, nil
}

func (j *FileJournal) write(rec record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("journal: serializar: %w", err)
	}
	b = append(b, '\n')

	j.mu.Lock()
	defer j.mu.Unlock()
	f, err := os.OpenFile(j.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("journal: abrir: %w", err)
	}
	if _, err := f.Write(b); err != nil {
		f.Close()
		return fmt.Errorf("journal: escribir: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("journal: sync: %w", err)
	}
	return f.Close()
}
