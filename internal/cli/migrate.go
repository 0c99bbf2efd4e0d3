package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/fbr-invoicing/internal/infrastructure/postgres"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
)

var errNotPostgres = errors.New("las migraciones requieren STORAGE_DRIVER=postgres")

func newMigrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Aplica o revierte las migraciones SQL embebidas",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withMigrator(func(m *postgres.Migrator) error {
				if err := m.Up(); err != nil {
					return err
				}
				return e.printVersion(cmd, m)
			})
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones (todas por defecto)",
		Example: `  invoicectl migrate down --steps 1
  invoicectl migrate down`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withMigrator(func(m *postgres.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				return e.printVersion(cmd, m)
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 0, "cantidad de migraciones a revertir (0 = todas)")

	ver := &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada",
		RunE: func(cmd *cobra.Command, args []string) error {
			return e.withMigrator(func(m *postgres.Migrator) error {
				return e.printVersion(cmd, m)
			})
		},
	}

	cmd.AddCommand(up, down, ver)
	return cmd
}

func (e *env) withMigrator(fn func(*postgres.Migrator) error) error {
	if e.cfg.DB.Driver != config.DriverPostgres {
		return errNotPostgres
	}
	m, err := postgres.NewMigrator(e.cfg.DB.ConnectionString())
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func (e *env) printVersion(cmd *cobra.Command, m *postgres.Migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("leer versión: %w", err)
	}
	e.log.Info().Uint("version", v).Bool("dirty", dirty).Msg("migraciones")
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
	return err
}
