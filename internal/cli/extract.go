package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"ean-extractor/internal/document"
	"ean-extractor/internal/dto"
	"ean-extractor/internal/models"

	"github.com/spf13/cobra"
)

func newExtractCmd() *cobra.Command {
	var (
		output string
		asJSON bool
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract code|value pairs from one PDF, JPG or PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := document.KindOf(path); err != nil {
				return err
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			rt, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			result, err := rt.service.Process(cmd.Context(), path, data)
			if err != nil {
				return fmt.Errorf("%s: %w", models.DisplayMessage(err), err)
			}

			for _, d := range result.Report.Deviations {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: line %d %q: %s\n", d.Line, d.Text, d.Reason)
			}

			if err := writeResult(cmd, result, output, asJSON); err != nil {
				return err
			}

			if strict && !result.Report.Clean() {
				return fmt.Errorf("%d line(s) deviate from code|value format", len(result.Report.Deviations))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the table to this file instead of stdout")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	cmd.Flags().BoolVar(&strict, "strict", false, "exit with an error when any line deviates from the format")
	return cmd
}

func writeResult(cmd *cobra.Command, result *models.ExtractionResult, output string, asJSON bool) error {
	var content []byte
	if asJSON {
		encoded, err := json.MarshalIndent(dto.NewExtractionResponse(result), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		content = append(encoded, '\n')
	} else {
		content = []byte(result.Text + "\n")
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(content)
		return err
	}
	if err := os.WriteFile(output, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%d records written to %s\n", len(result.Report.Records), output)
	return nil
}
