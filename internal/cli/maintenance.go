package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/fbr-invoicing/internal/application/admin"
)

func newReconcileCmd(e *env) *cobra.Command {
	var opts admin.ReconcileOptions
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compara los contadores por usuario con los derivados de sus facturas",
		Example: `  # Solo reporta diferencias
  invoicectl reconcile

  # Un usuario, corrigiendo
  invoicectl reconcile --user 3f1c... --fix`,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			out, err := c.Admin.Reconcile(cmd.Context(), opts)
			if err != nil {
				return err
			}
			log := e.component("reconcile")
			log.Info().
				Int("checked", out.Checked).
				Int("drifted", len(out.Drifted)).
				Bool("fix", opts.Fix).
				Msg("conciliación terminada")
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringVar(&opts.UserID, "user", "", "id de usuario (vacío = todos)")
	cmd.Flags().BoolVar(&opts.Fix, "fix", false, "sobrescribir contadores con los valores derivados")
	return cmd
}

func newRecoverCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "recover",
		Short: "Reintenta guardar facturas aceptadas por FBR que quedaron en el journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			report, err := c.RecoverPending(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, report)
		},
	}
}

func newSessionsCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "Mantenimiento de sesiones",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "purge",
		Short: "Elimina las sesiones expiradas",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := e.container(cmd.Context())
			if err != nil {
				return err
			}
			defer c.Close()

			n, err := c.Auth.PurgeExpiredSessions(cmd.Context())
			if err != nil {
				return err
			}
			log := e.component("sessions")
			log.Info().Int64("purged", n).Msg("sesiones expiradas eliminadas")
			return nil
		},
	})
	return cmd
}
