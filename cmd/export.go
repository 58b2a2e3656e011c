package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:     "export",
	Aliases: []string{"e"},
	Short:   "Produce the public site export",
	Long: `Produce the access-filtered public data export: every publicly
accessible page with internal styling and access fields stripped, layout
sections flattened into an ordered widget list, plus the project's menus.

Examples:
  weft export                     # Print the export as JSON
  weft export -o site.json        # Write the export to a file`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write export to file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	site, err := eng.Export(cmd.Context())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	var w io.Writer = os.Stdout
	if exportOutput != "" {
		f, err := os.Create(exportOutput)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	return writeJSONTo(w, site)
}

func writeJSON(w *os.File, value interface{}) error {
	return writeJSONTo(w, value)
}

func writeJSONTo(w io.Writer, value interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}
