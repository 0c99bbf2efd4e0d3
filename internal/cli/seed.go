package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/fbr-invoicing/internal/application/billing"
	"github.com/jhoicas/fbr-invoicing/internal/application/dto"
	"github.com/jhoicas/fbr-invoicing/internal/bootstrap"
	"github.com/jhoicas/fbr-invoicing/internal/domain"
	"github.com/jhoicas/fbr-invoicing/internal/domain/entity"
	fbrcat "github.com/jhoicas/fbr-invoicing/pkg/fbr"
)

const demoEmail = "demo@example.com"

func newSeedCmd(e *env) *cobra.Command {
	var demo bool
	var demoPassword string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea el usuario admin (ADMIN_EMAIL, ADMIN_PASSWORD) y opcionalmente datos de demo",
		Example: `  ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=secret123 invoicectl seed
  invoicectl seed --demo`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			c, err := e.container(ctx)
			if err != nil {
				return err
			}
			defer c.Close()

			if err := e.seedAdmin(ctx, c); err != nil {
				return err
			}
			if !demo {
				return nil
			}
			return e.seedDemo(ctx, c, demoPassword)
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "crear usuario demo con clientes, productos y facturas locales")
	cmd.Flags().StringVar(&demoPassword, "demo-password", "demo1234", "contraseña del usuario demo")
	return cmd
}

func (e *env) seedAdmin(ctx context.Context, c *bootstrap.Container) error {
	log := e.component("seed")
	s := e.cfg.Seed
	if s.AdminEmail == "" || s.AdminPassword == "" {
		log.Warn().Msg("ADMIN_EMAIL o ADMIN_PASSWORD vacíos: no se crea admin")
		return nil
	}
	_, err := c.Auth.CreateAdmin(ctx, dto.RegisterRequest{Name: s.AdminName, Email: s.AdminEmail, Password: s.AdminPassword})
	if errors.Is(err, domain.ErrEmailAlreadyExists) {
		log.Info().Str("email", s.AdminEmail).Msg("admin ya existe")
		return nil
	}
	if err != nil {
		return fmt.Errorf("crear admin: %w", err)
	}
	log.Info().Str("email", s.AdminEmail).Msg("admin creado")
	return nil
}

func (e *env) seedDemo(ctx context.Context, c *bootstrap.Container, password string) error {
	log := e.component("seed")
	existing, err := c.Repos.Users.GetByEmail(ctx, demoEmail)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Info().Str("email", demoEmail).Msg("usuario demo ya existe")
		return nil
	}
	user, err := c.Auth.RegisterUser(ctx, dto.RegisterRequest{Name: "Demo Traders", Email: demoEmail, Password: password})
	if err != nil {
		return fmt.Errorf("crear usuario demo: %w", err)
	}

	customers := []dto.CustomerRequest{
		{Name: "Karachi Textiles", Address: "SITE Area, Karachi", NTN: "4210112", Province: "Sindh", RegistrationType: fbrcat.RegistrationRegistered},
		{Name: "Walk-in Customer", Address: "Liberty Market, Lahore", Province: "Punjab"},
	}
	for _, in := range customers {
		if _, err := c.Customers.Create(ctx, user.ID, in); err != nil {
			return fmt.Errorf("crear cliente demo: %w", err)
		}
	}
	products := []dto.ProductRequest{
		{Name: "Cotton Yarn 20s", HSCode: "5205.1100", UnitPrice: decimal.NewFromInt(950), Rate: "18%", UoM: "KG"},
		{Name: "Printed Lawn", HSCode: "5208.5200", UnitPrice: decimal.NewFromInt(1250), Rate: "18%", UoM: "Meter"},
	}
	for _, in := range products {
		if _, err := c.Products.Create(ctx, user.ID, in); err != nil {
			return fmt.Errorf("crear producto demo: %w", err)
		}
	}

	today := time.Now().UTC().Format(billing.DateLayout)
	seller := dto.PartyDTO{Name: "Demo Traders", Address: "Mall Road, Lahore", NTN: "1234567", Province: "Punjab"}
	drafts := []dto.InvoiceDraftRequest{
		{
			InvoiceType: fbrcat.InvoiceTypeSale, IssueDate: today, Seller: seller,
			Buyer:                 dto.PartyDTO{Name: "Karachi Textiles", Address: "SITE Area, Karachi", NTN: "4210112", Province: "Sindh"},
			BuyerRegistrationType: fbrcat.RegistrationRegistered,
			LineItems: []dto.LineItemDTO{{
				Description: "Cotton Yarn 20s", Quantity: decimal.NewFromInt(40), UnitPrice: decimal.NewFromInt(950),
				HSCode: "5205.1100", Rate: "18%", UoM: "KG",
			}},
		},
		{
			InvoiceType: fbrcat.InvoiceTypeSale, IssueDate: today, Seller: seller,
			Buyer:                 dto.PartyDTO{Name: "Walk-in Customer", Address: "Liberty Market, Lahore", Province: "Punjab"},
			BuyerRegistrationType: fbrcat.RegistrationUnregistered,
			LineItems: []dto.LineItemDTO{{
				Description: "Printed Lawn", Quantity: decimal.NewFromInt(12), UnitPrice: decimal.NewFromInt(1250),
				HSCode: "5208.5200", Rate: "18%", UoM: "Meter",
			}},
		},
	}
	for i, in := range drafts {
		draft, err := billing.DraftFromRequest(in)
		if err != nil {
			return err
		}
		inv, err := c.Invoices.CreateLocal(ctx, user.ID, draft)
		if err != nil {
			return fmt.Errorf("crear factura demo: %w", err)
		}
		if i == 0 {
			if _, err := c.Invoices.UpdateStatus(ctx, user.ID, inv.ID, entity.InvoiceStatusPaid); err != nil {
				return err
			}
		}
	}
	log.Info().Str("email", demoEmail).Int("invoices", len(drafts)).Msg("datos demo creados")
	return nil
}
