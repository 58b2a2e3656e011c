package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/weftworks/weft/internal/content"
	"github.com/weftworks/weft/internal/registry"
)

var listKinds bool

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List resolved content by namespace",
	Long: `List the contents of the resolved store: pages, shared fragments,
menus, and indexed forms, one namespace per section.

Examples:
  weft list                       # List all namespaces and their entries
  weft list --kinds               # List registered component kinds instead`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listKinds, "kinds", false, "List registered component kinds")
}

func runList(cmd *cobra.Command, args []string) error {
	if listKinds {
		return runListKinds()
	}

	eng, _, _, err := newEngine()
	if err != nil {
		return err
	}

	store, err := eng.Content(cmd.Context())
	if err != nil {
		return fmt.Errorf("content resolution failed: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	for _, ns := range store.Namespaces() {
		entries, err := store.Namespace(ns)
		if err != nil {
			return err
		}
		tree := content.Tree{ns: entries}
		for _, path := range tree.Paths(ns) {
			fmt.Fprintf(w, "%s\t%s\n", ns, path)
		}
	}
	return nil
}

func runListKinds() error {
	kinds := registry.Default()

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "KIND\tFORM\tDESCRIPTION")
	for _, name := range kinds.Kinds() {
		d, _ := kinds.Get(name)
		form := ""
		if d.Form {
			form = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", d.Kind, form, d.Description)
	}
	return nil
}
