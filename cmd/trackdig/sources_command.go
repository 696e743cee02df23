package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trackdig/internal/config"
	"trackdig/internal/sources"
)

func newSourcesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured metadata sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(config.KnownSources))
			for _, name := range config.KnownSources {
				settings := cfg.SourceSettings(name)
				ttl := time.Duration(settings.CacheTTLMinutes) * time.Minute
				rows = append(rows, []string{
					name,
					yesNo(settings.Enabled),
					fmt.Sprintf("%.2f", sources.Reliability(name)),
					ttl.String(),
					fmt.Sprintf("%dms", settings.RateLimitMillis),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Source", "Enabled", "Reliability", "Cache TTL", "Rate Limit"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight},
			))
			return nil
		},
	}
}
