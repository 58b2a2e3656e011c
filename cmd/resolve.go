package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/weftworks/weft/internal/content"
)

var resolveFormat string

var resolveCmd = &cobra.Command{
	Use:     "resolve [page]",
	Aliases: []string{"r"},
	Short:   "Resolve content into materialized page trees",
	Long: `Resolve all content sources into fully materialized page trees:
module content is merged under the project's own content, shared component
references are inlined with their per-use-site overrides, and form
definitions are indexed by name.

With no argument, all resolved page paths are listed. With a page path
argument, that page's fully resolved tree is printed.

Examples:
  weft resolve                    # List all resolved pages
  weft resolve home               # Print the resolved home page
  weft resolve about/team -f json # Print a page as JSON`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().StringVarP(&resolveFormat, "format", "f", "yaml", "Output format (yaml, json)")
}

func runResolve(cmd *cobra.Command, args []string) error {
	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	store, err := eng.Content(cmd.Context())
	if err != nil {
		return fmt.Errorf("content resolution failed: %w", err)
	}

	if len(args) == 0 {
		pages, err := store.Namespace(content.NamespacePages)
		if err != nil {
			return err
		}
		tree := content.Tree{content.NamespacePages: pages}
		for _, path := range tree.Paths(content.NamespacePages) {
			fmt.Println(path)
		}
		return nil
	}

	page, ok := store.Page(args[0])
	if !ok {
		return fmt.Errorf("no page at path %q", args[0])
	}
	return writeFormatted(os.Stdout, resolveFormat, page)
}

// writeFormatted marshals a value as yaml or json to the writer.
func writeFormatted(w *os.File, format string, value interface{}) error {
	switch format {
	case "json":
		return writeJSON(w, value)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(value)
	default:
		return fmt.Errorf("unsupported format %q (expected yaml or json)", format)
	}
}
