package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/police-log-etl/internal/policelog"
)

// newParseCmd creates the 'parse' subcommand, which converts a local copy of
// the log without touching the network or storage.
func newParseCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:         "parse",
		Short:       "Convert a local log file to CSV on stdout",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skip-config": "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read %s: %w", file, err)
			}
			table := policelog.Parse(string(raw))
			if err := table.WriteCSV(cmd.OutOrStdout()); err != nil {
				return fmt.Errorf("write csv: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to a dispatch log text file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
