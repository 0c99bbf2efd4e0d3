// Package bootstrap arma el grafo de dependencias compartido por la API y el CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/jhoicas/fbr-invoicing/internal/application/admin"
	"github.com/jhoicas/fbr-invoicing/internal/application/auth"
	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/domain/repository"
	infrafbr "github.com/jhoicas/fbr-invoicing/internal/infrastructure/fbr"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/journal"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/memory"
	infrapdf "github.com/jhoicas/fbr-invoicing/internal/infrastructure/pdf"
	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/fbr-invoicing/internal/interfaces/http"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
)

// Repositories repos del backend de almacenamiento elegido.
type Repositories struct {
	Users     repository.UserRepository
	Sessions  repository.SessionRepository
	Stats     repository.StatsRepository
	Invoices  repository.InvoiceRepository
	Customers repository.CustomerRepository
	Products  repository.ProductRepository
	Tx        billing.TxRunner
}

// Container casos de uso listos para usar.
type Container struct {
	Repos        Repositories
	Auth         *auth.AuthUseCase
	Invoices     *billing.InvoiceUseCase
	Submission   *billing.SubmissionUseCase
	Recovery     *billing.RecoveryUseCase
	PDF          *billing.PDFUseCase
	Customers    *billing.CustomerUseCase
	Products     *billing.ProductUseCase
	Admin        *admin.UseCase
	Gateway      *infrafbr.Client
	Journal      *journal.FileJournal
	pool         *pgxpool.Pool
	driver       string
	secureCookie bool
}

// ErrReplayUnavailable el journal no se puede reproducir sobre un store en memoria:
// los dueños de las facturas de corridas anteriores ya no existen.
var ErrReplayUnavailable = errors.New("la recuperación del journal requiere STORAGE_DRIVER=postgres")

// New abre el almacenamiento según cfg.DB.Driver y construye los casos de uso.
// Con driver postgres y MigrateOnStart aplica las migraciones antes de abrir el pool.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Container, error) {
	c := &Container{driver: cfg.DB.Driver, secureCookie: cfg.App.IsProduction()}

	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		c.Repos = Repositories{
			Users:     memory.NewUserRepository(store),
			Sessions:  memory.NewSessionRepository(store),
			Stats:     memory.NewStatsRepository(store),
			Invoices:  memory.NewInvoiceRepository(store),
			Customers: memory.NewCustomerRepository(store),
			Products:  memory.NewProductRepository(store),
			Tx:        memory.NewTxRunner(store),
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	case config.DriverPostgres:
		if cfg.DB.MigrateOnStart {
			if err := MigrateUp(cfg.DB); err != nil {
				return nil, err
			}
			log.Info().Msg("migraciones aplicadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		c.pool = pool
		c.Repos = Repositories{
			Users:     postgres.NewUserRepository(pool),
			Sessions:  postgres.NewSessionRepository(pool),
			Stats:     postgres.NewStatsRepository(pool),
			Invoices:  postgres.NewInvoiceRepository(pool),
			Customers: postgres.NewCustomerRepository(pool),
			Products:  postgres.NewProductRepository(pool),
			Tx:        postgres.NewTxRunner(pool),
		}
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.DB.Driver)
	}

	j, err := journal.NewFileJournal(cfg.Journal.Path)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Journal = j

	c.Gateway = infrafbr.NewClient(infrafbr.Config{
		Token:   cfg.FBR.Token,
		Sandbox: cfg.FBR.Sandbox,
		Timeout: cfg.FBR.Timeout,
		BaseURL: cfg.FBR.BaseURL,
	}, log)
	if c.Gateway.IsMock() {
		log.Warn().Msg("FBR_API_TOKEN vacío: el gateway responde en modo simulado")
	}

	r := c.Repos
	c.Auth = auth.NewAuthUseCase(r.Users, r.Sessions, r.Stats, auth.JWTConfig{
		Secret: cfg.JWT.Secret,
		TTL:    cfg.JWT.TTL(),
		Issuer: cfg.JWT.Issuer,
	}, log)
	c.Submission = billing.NewSubmissionUseCase(r.Tx, c.Gateway, c.Journal, billing.SubmissionConfig{
		GatewayTimeout: cfg.FBR.Timeout,
	}, log)
	c.Recovery = billing.NewRecoveryUseCase(c.Submission, c.Journal, log)
	c.Invoices = billing.NewInvoiceUseCase(r.Tx, r.Invoices, r.Stats, log)
	c.PDF = billing.NewPDFUseCase(r.Invoices, infrapdf.NewMarotoPDFGenerator())
	c.Customers = billing.NewCustomerUseCase(r.Customers)
	c.Products = billing.NewProductUseCase(r.Products)
	c.Admin = admin.NewUseCase(r.Users, r.Stats, log)
	return c, nil
}

// RouterDeps dependencias del router HTTP.
func (c *Container) RouterDeps() httpRouter.RouterDeps {
	return httpRouter.RouterDeps{
		AuthUC:       c.Auth,
		InvoiceUC:    c.Invoices,
		SubmissionUC: c.Submission,
		PDFUC:        c.PDF,
		CustomerUC:   c.Customers,
		ProductUC:    c.Products,
		AdminUC:      c.Admin,
		SecureCookie: c.secureCookie,
	}
}

// Close libera el pool si hay uno.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
	}
}

// MigrateUp aplica las migraciones pendientes.
func MigrateUp(cfg config.DBConfig) error {
	m, err := postgres.NewMigrator(cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up()
}

// RecoverPending reproduce el journal de compromisos pendientes. Con driver
// memory devuelve ErrReplayUnavailable sin tocar el journal.
func (c *Container) RecoverPending(ctx context.Context) (*billing.RecoveryReport, error) {
	if c.driver == config.DriverMemory {
		return nil, ErrReplayUnavailable
	}
	return c.Recovery.Replay(ctx)
}
