package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/weftworks/weft/internal/styles"
)

var classesCmd = &cobra.Command{
	Use:   "classes <identifier>",
	Short: "Resolve the style classes for an identifier",
	Long: `Resolve the final class strings for a styled identifier: the theme
style tree is merged with the project's override tree, @group references are
expanded, and conflicting utility classes are reconciled (the last class
targeting a CSS property wins).

Examples:
  weft classes button             # Print the resolved class map for "button"`,
	Args: cobra.ExactArgs(1),
	RunE: runClasses,
}

func init() {
	rootCmd.AddCommand(classesCmd)
}

func runClasses(cmd *cobra.Command, args []string) error {
	_, cfg, logger, err := newEngine()
	if err != nil {
		return err
	}

	resolver := styles.NewResolver(styles.Options{
		ThemePath: cfg.Styles.Theme,
		UserPath:  cfg.Styles.User,
		Mode:      cfg.Mode,
		Logger:    logger,
	})

	classes := resolver.GetClasses(cmd.Context(), args[0], nil)
	if len(classes) == 0 {
		return fmt.Errorf("no styles defined for identifier %q", args[0])
	}
	return writeFormatted(os.Stdout, "yaml", classes)
}
