// file: cmd/metrics.go
// version: 1.0.0
// guid: 6c7d8e9f-0a1b-2c3d-4e5f-6a7b8c9d0e1f

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/jdfalk/pokedex/internal/pokedex"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Print cache and collection metrics in Prometheus text format",
	Long: `Counters only cover the current process, so this command reports the
collection sizes and cache contents as seen on startup. Use --metrics on any
other command to see what that command did.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *pokedex.Service) error {
			// reading the collections refreshes their gauges
			svc.History()
			svc.Favorites()
			if _, err := svc.CacheEntries(); err != nil {
				return err
			}
			return printMetrics(cmd.OutOrStdout())
		})
	},
}

// printMetrics writes every pokedex_ family from the default registry.
func printMetrics(w io.Writer) error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "pokedex_") {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
