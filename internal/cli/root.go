// Package cli comandos de mantenimiento de invoicectl (migraciones, seed, conciliación, recuperación).
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jhoicas/fbr-invoicing/internal/bootstrap"
	"github.com/jhoicas/fbr-invoicing/pkg/config"
	"github.com/jhoicas/fbr-invoicing/pkg/logger"
)

var version = "1.0.0"

// env estado compartido por los subcomandos, cargado en PersistentPreRunE.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

// NewRootCmd arma el árbol de comandos.
func NewRootCmd() *cobra.Command {
	e := &env{}
	root := &cobra.Command{
		Use:           "invoicectl",
		Short:         "Herramientas de operación de la API de facturación FBR",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			e.cfg = cfg
			e.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "invoicectl"})
			return nil
		},
	}
	root.AddCommand(
		newMigrateCmd(e),
		newSeedCmd(e),
		newReconcileCmd(e),
		newRecoverCmd(e),
		newSessionsCmd(e),
	)
	return root
}

// container construye las dependencias; el caller debe llamar Close.
func (e *env) container(ctx context.Context) (*bootstrap.Container, error) {
	return bootstrap.New(ctx, e.cfg, e.component("bootstrap"))
}

func (e *env) component(name string) zerolog.Logger {
	return e.log.WithComponent(name)
}

// printJSON escribe v indentado en la salida del comando.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
