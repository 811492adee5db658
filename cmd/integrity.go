package cmd

import (
	"encoding/json"
	"fmt"

	"page-store/feature/integrity"
	"page-store/feature/pages"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity <session-id> <file-name>",
	Short: "Check that a document's pages are stored without gaps",
	Long:  `Lists the pages of one grouped upload and reports missing page numbers and unexpected keys. Outputs a summary by default or the full report with --json.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid session id %q: %w", args[0], err)
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		return withManager(func(m *pages.Manager, logg *zap.Logger) error {
			report, err := integrity.NewService(m, logg).CheckDocument(cmd.Context(), sessionID, args[1])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			fmt.Fprintf(out, "Pages:    %d (highest %d)\n", report.Count, report.Highest)
			fmt.Fprintf(out, "Missing:  %v\n", report.Missing)
			fmt.Fprintf(out, "Foreign:  %d\n", len(report.Foreign))
			fmt.Fprintf(out, "Complete: %t\n", report.Complete())
			return nil
		})
	},
}

func init() {
	integrityCmd.Flags().Bool("json", false, "print the full report as JSON")
	RootCmd.AddCommand(integrityCmd)
}
