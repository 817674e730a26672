package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventory-search/pkg/config"
	"github.com/jhoicas/inventory-search/pkg/jwt"
)

// newTokenCmd emite tokens para la API cuando JWT_SECRET está configurado.
func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Genera un token Bearer para la API del reporte",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if role != jwt.RoleOperator && role != jwt.RoleViewer {
				return fmt.Errorf("rol no soportado %q (%s o %s)", role, jwt.RoleOperator, jwt.RoleViewer)
			}
			exp := cfg.JWT.Expiration
			if minutes > 0 {
				exp = minutes
			}
			tok, err := jwt.Generate(cfg.JWT.Secret, subject, role, cfg.JWT.Issuer, exp)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "operator", "sujeto del token")
	cmd.Flags().StringVar(&role, "role", jwt.RoleViewer, "rol: operator o viewer")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "vigencia en minutos (por defecto JWT_EXPIRATION_MINUTES)")
	return cmd
}
