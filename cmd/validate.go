package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	wefterrors "github.com/weftworks/weft/internal/errors"
)

var validateCmd = &cobra.Command{
	Use:     "validate",
	Aliases: []string{"v"},
	Short:   "Check content for authoring problems",
	Long: `Check all content for authoring problems that resolution tolerates
silently: references to shared fragments that do not exist (which pass
through unexpanded) and form definitions without a name (which cannot be
indexed). Also runs a full resolution to surface reference cycles.

Exits non-zero when any problem is found, so it can gate a build or deploy.

Examples:
  weft validate                   # Report all findings`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	findings, err := eng.Validate(cmd.Context())
	if err != nil {
		return fmt.Errorf("validation failed to load content: %w", err)
	}

	for _, finding := range findings {
		fmt.Println(finding.String())
	}

	// A cycle only shows up when resolution actually runs.
	if _, err := eng.Content(cmd.Context()); err != nil {
		if wefterrors.IsReferenceCycle(err) {
			fmt.Println(err.Error())
			return fmt.Errorf("validation found a reference cycle")
		}
		return err
	}

	if len(findings) > 0 {
		return fmt.Errorf("validation found %d problem(s)", len(findings))
	}

	fmt.Println("content is valid")
	return nil
}
