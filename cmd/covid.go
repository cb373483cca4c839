package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/statloom-cli/internal/covid"
	"github.com/KaramelBytes/statloom-cli/internal/ingest"
	"github.com/KaramelBytes/statloom-cli/internal/report"
	"github.com/KaramelBytes/statloom-cli/internal/utils"
)

var (
	covCases      string
	covDeaths     string
	covPopulation string
	covTop        int
	covOutputPath string
	covXLSXPath   string
)

var covidCmd = &cobra.Command{
	Use:   "covid",
	Short: "Analyze COVID-19 case/death time series by U.S. state",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := covid.Options{
			Cases:      ingest.Source{Name: "confirmed cases", Location: pick(covCases, cfg.CasesURL)},
			Deaths:     ingest.Source{Name: "deaths", Location: pick(covDeaths, cfg.DeathsURL)},
			Population: ingest.Source{Name: "population lookup", Location: pick(covPopulation, cfg.PopulationURL)},
			TopN:       pickInt(covTop, cfg.TopStates),
		}

		fetcher := ingest.NewFetcher(time.Duration(cfg.HTTPTimeoutSec) * time.Second)
		res, err := covid.Run(context.Background(), fetcher, opts)
		if err != nil {
			return err
		}

		rep := report.FromCovid(res)
		if err := emit(rep, covOutputPath, covXLSXPath); err != nil {
			return err
		}
		if res.Failed() {
			return errors.New("one or more regressions are invalid; see report")
		}
		return nil
	},
}

// pick prefers an explicit flag value over the configured one.
func pick(flag, configured string) string {
	if flag != "" {
		return flag
	}
	return configured
}

func pickInt(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	return configured
}

// emit writes the report to --output or stdout, and optionally as a workbook.
func emit(rep *report.Report, outputPath, xlsxPath string) error {
	md := rep.Markdown()
	if outputPath != "" {
		if err := utils.SafeWriteFile(outputPath, []byte(md)); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Printf("✓ Wrote report to %s\n", outputPath)
	} else {
		fmt.Println(md)
	}
	if xlsxPath != "" {
		if err := rep.WriteXLSX(xlsxPath); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote workbook to %s\n", xlsxPath)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(covidCmd)
	covidCmd.Flags().StringVar(&covCases, "cases", "", "cases CSV source (URL or path; overrides config)")
	covidCmd.Flags().StringVar(&covDeaths, "deaths", "", "deaths CSV source (URL or path; overrides config)")
	covidCmd.Flags().StringVar(&covPopulation, "population", "", "population lookup CSV source (URL or path; overrides config)")
	covidCmd.Flags().IntVar(&covTop, "top", 0, "number of states in top/bottom rankings (default 10)")
	covidCmd.Flags().StringVarP(&covOutputPath, "output", "o", "", "optional path to write the report (Markdown)")
	covidCmd.Flags().StringVar(&covXLSXPath, "xlsx", "", "optional path to export the report as an XLSX workbook")
}
