package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/statloom-cli/internal/ingest"
	"github.com/KaramelBytes/statloom-cli/internal/nypd"
	"github.com/KaramelBytes/statloom-cli/internal/report"
)

var (
	shootData       string
	shootTop        int
	shootSeed       int64
	shootSplit      float64
	shootOutputPath string
	shootXLSXPath   string
)

var shootingsCmd = &cobra.Command{
	Use:   "shootings",
	Short: "Analyze NYPD shooting-incident records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := nypd.Options{
			Data:       ingest.Source{Name: "shooting incidents", Location: pick(shootData, cfg.ShootingsURL)},
			TopN:       pickInt(shootTop, cfg.TopPrecincts),
			SplitRatio: cfg.SplitRatio,
			Seed:       cfg.Seed,
		}
		if cmd.Flags().Changed("split") {
			opts.SplitRatio = shootSplit
		}
		if cmd.Flags().Changed("seed") {
			opts.Seed = shootSeed
		}

		fetcher := ingest.NewFetcher(time.Duration(cfg.HTTPTimeoutSec) * time.Second)
		res, err := nypd.Run(context.Background(), fetcher, opts)
		if err != nil {
			return err
		}

		rep := report.FromShootings(res)
		if err := emit(rep, shootOutputPath, shootXLSXPath); err != nil {
			return err
		}
		if res.Failed() {
			return errors.New("classification is invalid; see report")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(shootingsCmd)
	shootingsCmd.Flags().StringVar(&shootData, "data", "", "incidents CSV source (URL or path; overrides config)")
	shootingsCmd.Flags().IntVar(&shootTop, "top", 0, "number of precincts in the summary (default 20)")
	shootingsCmd.Flags().Int64Var(&shootSeed, "seed", 1, "random seed for the train/test split")
	shootingsCmd.Flags().Float64Var(&shootSplit, "split", 0.8, "training fraction for the train/test split")
	shootingsCmd.Flags().StringVarP(&shootOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	shootingsCmd.Flags().StringVar(&shootXLSXPath, "xlsx", "", "optional path to export the report as an XLSX workbook")
}
