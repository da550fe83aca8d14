package main

import (
	"errors"
	"fmt"
	"html"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenthands/genepath/internal/core"
	"github.com/agenthands/genepath/internal/core/export"
	"github.com/agenthands/genepath/internal/observability"
	"github.com/agenthands/genepath/internal/server"
)

var markup = regexp.MustCompile(`<[^>]+>`)

func newQueryCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Fetch, tabulate and summarize interactions for a set of genes.",
		Example: `  genepath query --genes "EGFR,KRAS,BRAF" --threshold 0.7 --html network.html
  GENEPATH_QUERY_GENES="TP53 MDM2" genepath query --no-summary`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := observability.GetLogger()
			pathway, cleanup := server.BuildPathway(cmd.Context(), a.cfg, logger, nil)
			defer cleanup()

			req := core.Request{
				Genes:       a.v.GetString("query.genes"),
				SkipSummary: a.v.GetBool("query.no-summary"),
			}
			if cmd.Flags().Changed("threshold") || a.v.IsSet("query.threshold") {
				t := a.v.GetFloat64("query.threshold")
				req.Threshold = &t
			}
			labels := a.v.GetBool("query.labels")
			req.ShowLabels = &labels
			if cmd.Flags().Changed("seed") {
				seed := a.v.GetInt64("query.seed")
				req.Seed = &seed
			}

			report := pathway.Run(cmd.Context(), req)
			out := cmd.OutOrStdout()
			printReport(out, report)

			if report.Stage == core.StageInputError {
				return errors.New(report.Notices[len(report.Notices)-1].Message)
			}
			if report.HasErrors() && len(report.Interactions) == 0 {
				return errors.New("interaction lookup failed")
			}

			if path := a.v.GetString("query.html"); path != "" && report.Network != "" {
				if err := os.WriteFile(path, []byte(report.Network), 0o644); err != nil {
					return fmt.Errorf("failed to write network document: %w", err)
				}
				fmt.Fprintf(out, "\nNetwork written to %s\n", path)
			}
			if path := a.v.GetString("query.csv"); path != "" {
				data := report.CSV
				if data == nil {
					var err error
					if data, err = export.CSV(report.Interactions); err != nil {
						return err
					}
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("failed to write CSV: %w", err)
				}
				fmt.Fprintf(out, "CSV written to %s\n", path)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringP("genes", "g", "", "gene symbols separated by commas, spaces or new lines")
	flags.Float64P("threshold", "t", core.DefaultThreshold, "minimum STRING confidence score (0-1)")
	flags.Bool("labels", true, "show edge confidence in the network")
	flags.String("html", "", "write the interactive network document to this file")
	flags.String("csv", "", "write the interaction table as CSV to this file")
	flags.Bool("no-summary", false, "skip the language model summary")
	flags.Int64("seed", 0, "fix the network layout seed")

	for _, name := range []string{"genes", "threshold", "labels", "html", "csv", "no-summary", "seed"} {
		_ = a.v.BindPFlag("query."+name, flags.Lookup(name))
	}
	return cmd
}

func printReport(out io.Writer, report *core.Report) {
	for _, n := range report.Notices {
		fmt.Fprintf(out, "[%s] %s\n", n.Level, n.Message)
	}
	if report.Stage != core.StageComplete {
		return
	}

	fmt.Fprintf(out, "\nGenes: %s\n", strings.Join(report.Genes, ", "))
	fmt.Fprintf(out, "Threshold: %.2f\n", report.Threshold)
	if report.Cached {
		fmt.Fprintln(out, "(cached result)")
	}

	fmt.Fprintln(out)
	fmt.Fprint(out, export.Text(report.Table))

	if len(report.Modules) > 0 {
		fmt.Fprintln(out, "\nModules:")
		for _, m := range report.Modules {
			fmt.Fprintf(out, "  %d: %s\n", m.ID, strings.Join(m.Genes, ", "))
		}
	}

	if report.Summary != "" {
		fmt.Fprintf(out, "\nSummary:\n%s\n", html.UnescapeString(markup.ReplaceAllString(report.Summary, "")))
	}
}
