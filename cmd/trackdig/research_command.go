package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"trackdig/internal/research"
	"trackdig/internal/track"
)

func newResearchCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "research <query>",
		Short: "Resolve a free-text track query into a reconciled metadata record",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return fmt.Errorf("query must not be empty")
			}

			orchestrator, _, cleanup, err := ctx.buildEngine(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			outcome := orchestrator.Research(cmd.Context(), query)
			if jsonOutput {
				return writeJSON(cmd, outcome)
			}
			renderOutcome(cmd, outcome)
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit the outcome as JSON")
	return cmd
}

func renderOutcome(cmd *cobra.Command, outcome *research.Outcome) {
	out := cmd.OutOrStdout()

	verdict := "NOT SOLVED"
	if outcome.Solved {
		verdict = "SOLVED"
	}
	fmt.Fprintf(out, "%s  %s\n", verdict, outcome.Query)
	fmt.Fprintf(out, "Reason: %s\n", outcome.Reason)
	fmt.Fprintf(out, "Confidence: %.0f%%  Elapsed: %s  Run: %s\n\n",
		outcome.Confidence*100, outcome.Elapsed.Round(time.Millisecond), outcome.RunID)

	if len(outcome.Sources) > 0 {
		rows := make([][]string, 0, len(outcome.Sources))
		for _, result := range outcome.Sources {
			status := "ok"
			if !result.Success {
				status = "failed: " + result.Err
			} else if result.CacheHit {
				status = "ok (cached)"
			}
			rows = append(rows, []string{
				result.Source,
				status,
				fmt.Sprintf("%d", result.ResultCount),
				fmt.Sprintf("%.2f", result.Confidence),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Source", "Status", "Results", "Confidence"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		))
	}

	if outcome.Metadata != nil {
		fmt.Fprintln(out, renderTable(
			[]string{"Field", "Value"},
			metadataRows(outcome.Metadata),
			[]columnAlignment{alignLeft, alignLeft},
		))
	}

	if outcome.Report != nil && len(outcome.Report.Recommendations) > 0 {
		fmt.Fprintln(out, "Recommendations:")
		for _, rec := range outcome.Report.Recommendations {
			fmt.Fprintf(out, "  - %s\n", rec)
		}
		fmt.Fprintln(out)
	}

	if len(outcome.Conflicts) > 0 {
		rows := make([][]string, 0, len(outcome.Conflicts))
		for _, conflict := range outcome.Conflicts {
			claims := make([]string, 0, len(conflict.Values))
			for _, value := range conflict.Values {
				claims = append(claims, fmt.Sprintf("%s=%s", value.Source, value.Value))
			}
			rows = append(rows, []string{
				conflict.Field,
				strings.Join(claims, ", "),
				conflict.Resolved,
				conflict.Rationale,
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Conflict", "Claims", "Resolved", "Rationale"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft},
		))
	}

	if len(outcome.Options) > 0 {
		rows := make([][]string, 0, len(outcome.Options))
		for _, option := range outcome.Options {
			price := ""
			if option.Price > 0 {
				price = fmt.Sprintf("%.2f %s", option.Price, option.Currency)
			}
			rows = append(rows, []string{
				option.Source,
				string(option.Type),
				option.Quality.String(),
				price,
				string(option.Availability),
			})
		}
		fmt.Fprintln(out, renderTable(
			[]string{"Acquire Via", "Type", "Quality", "Price", "Availability"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
		))
	}
}

func metadataRows(record *track.Record) [][]string {
	rows := [][]string{
		{"Title", record.Title},
		{"Artist", record.Artist},
	}
	add := func(field, value string) {
		if value != "" {
			rows = append(rows, []string{field, value})
		}
	}
	add("Mix", record.MixName)
	add("Remixers", strings.Join(record.Remixers, ", "))
	add("Featuring", strings.Join(record.FeaturedArtists, ", "))
	add("Album", record.Album)
	add("Label", record.Label)
	add("Catalog", record.CatalogNumber)
	add("Released", record.ReleaseDate)
	add("Genre", record.Genre)
	add("Sub-genres", strings.Join(record.SubGenres, ", "))
	if record.BPM > 0 {
		add("BPM", fmt.Sprintf("%.4g", record.BPM))
	}
	if record.Key != "" {
		add("Key", fmt.Sprintf("%s (%s / %s)", record.Key, record.KeyCamelot, record.KeyOpenKey))
	}
	if record.DurationMS > 0 {
		add("Duration", (time.Duration(record.DurationMS) * time.Millisecond).Round(time.Second).String())
	}
	add("ISRC", record.ISRC)
	if record.Quality != track.QualityUnknown {
		add("Quality", record.Quality.String())
	}
	add("Sources", strings.Join(record.AttributedSources(), ", "))
	return rows
}
