package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// sourcesCmd prints the supported data source types and the configured sources.
var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List supported data source types and configured data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		fmt.Println("Supported types:")
		for _, kind := range a.registry.Kinds() {
			fmt.Printf("  %s\n", kind)
		}

		fmt.Println("\nConfigured data sources:")
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  NAME\tTYPE")
		for _, s := range a.service.Sources() {
			fmt.Fprintf(w, "  %s\t%s\n", s.Name, s.Type)
		}
		return w.Flush()
	},
}

func init() {
	RootCmd.AddCommand(sourcesCmd)
}
