package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"schema-compare/core/config"
	"schema-compare/core/schema"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// compareCmd runs the configured comparisons once and exits.
var compareCmd = &cobra.Command{
	Use:   "compare [name]",
	Short: "Run the configured table comparisons",
	Long: `Runs every configured compare task, or only the first table pair of the named
config, and reports the outcome. The command exits with an error when a
CRITICAL difference is found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		a, err := bootstrap(ctx, func(cfg *config.Config) {
			if cmd.Flags().Changed("verbose") {
				cfg.Compare.Verbose, _ = cmd.Flags().GetBool("verbose")
			}
			if cmd.Flags().Changed("markdown") {
				cfg.Compare.Markdown = true
				cfg.Compare.MarkdownPath, _ = cmd.Flags().GetString("markdown")
			}
			if upload, _ := cmd.Flags().GetBool("upload"); upload {
				cfg.Compare.Upload = true
				cfg.Compare.Markdown = true
			}
		})
		if err != nil {
			return err
		}
		defer a.close()

		var results []*schema.CompareResult
		if len(args) == 1 {
			result, err := a.service.CompareByName(ctx, args[0])
			if err != nil {
				return fmt.Errorf("compare %s: %w", args[0], err)
			}
			results = append(results, result)
		} else {
			results = a.service.CompareAll(ctx)
		}

		rep, err := a.service.Report(ctx, results)
		if err != nil {
			return fmt.Errorf("report failed: %w", err)
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			filename := fmt.Sprintf("compare_results_%d.json", time.Now().Unix())
			data, err := json.MarshalIndent(results, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			if err := os.WriteFile(filename, data, 0644); err != nil {
				return fmt.Errorf("failed to save JSON file: %w", err)
			}
			a.logger.Info("Detailed JSON report saved", zap.String("file", filename), zap.Int("results", len(results)))
		}

		var matched, critical int
		for _, r := range results {
			if r.FullyMatched {
				matched++
			}
			if r.HasCritical() {
				critical++
			}
		}

		fmt.Println("\n=== Schema Comparison Metrics ===")
		fmt.Printf("Compared: %d\n", len(results))
		fmt.Printf("Matched: %d\n", matched)
		fmt.Printf("With Critical Differences: %d\n", critical)
		if rep.File != "" {
			fmt.Printf("Markdown Report: %s\n", rep.File)
		}
		if rep.Key != "" {
			fmt.Printf("Uploaded Report: %s/%s\n", a.cfg.Storage.Bucket, rep.Key)
		}
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

		if critical > 0 {
			return fmt.Errorf("%d comparison(s) found critical differences", critical)
		}
		return nil
	},
}

// compareListCmd prints the configured tasks.
var compareListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the configured compare tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSOURCE\tTARGET\tIGNORED")
		for _, t := range a.service.Tasks() {
			ignored := append([]string{}, t.IgnoredFields...)
			for _, c := range t.IgnoredCategories {
				ignored = append(ignored, string(c))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.Name, t.Source, t.Target, strings.Join(ignored, ","))
		}
		return w.Flush()
	},
}

func init() {
	compareCmd.Flags().Bool("verbose", false, "Log property-level details of every difference")
	compareCmd.Flags().String("markdown", "compare-results.md", "Write a markdown report to this path")
	compareCmd.Flags().Bool("upload", false, "Upload the markdown report to the storage bucket")
	compareCmd.Flags().Bool("json", false, "Save the full results as JSON")
	compareCmd.AddCommand(compareListCmd)
	RootCmd.AddCommand(compareCmd)
}
