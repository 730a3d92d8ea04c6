package cli

import (
	"fmt"

	"ean-extractor/internal/models"

	"github.com/spf13/cobra"
)

func newModelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "model",
		Short: "Show the model selected for extraction",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			handle, err := rt.service.ResolvedModel(cmd.Context())
			if err != nil {
				return fmt.Errorf("%s: %w", models.DisplayMessage(err), err)
			}

			suffix := ""
			if handle.Fallback {
				suffix = " (default, no listed model matched)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", handle, suffix)
			return nil
		},
	}
}
