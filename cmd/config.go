package cmd

import (
	"fmt"
	"strconv"

	cfgpkg "github.com/KaramelBytes/statloom-cli/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Statloom configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("cases_url: %s\n", cfg.CasesURL)
		fmt.Printf("deaths_url: %s\n", cfg.DeathsURL)
		fmt.Printf("population_url: %s\n", cfg.PopulationURL)
		fmt.Printf("shootings_url: %s\n", cfg.ShootingsURL)
		fmt.Printf("top_states: %d\n", cfg.TopStates)
		fmt.Printf("top_precincts: %d\n", cfg.TopPrecincts)
		fmt.Printf("split_ratio: %.3f\n", cfg.SplitRatio)
		fmt.Printf("seed: %d\n", cfg.Seed)
		fmt.Printf("http_timeout_sec: %d\n", cfg.HTTPTimeoutSec)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "cases_url":
			cfg.CasesURL = val
		case "deaths_url":
			cfg.DeathsURL = val
		case "population_url":
			cfg.PopulationURL = val
		case "shootings_url":
			cfg.ShootingsURL = val
		case "top_states":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_states: %v", val)
			}
			cfg.TopStates = i
		case "top_precincts":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for top_precincts: %v", val)
			}
			cfg.TopPrecincts = i
		case "split_ratio":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 || f >= 1 {
				return fmt.Errorf("invalid split_ratio: %v (must be in (0, 1))", val)
			}
			cfg.SplitRatio = f
		case "seed":
			i, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid int for seed: %w", err)
			}
			cfg.Seed = i
		case "http_timeout_sec":
			i, err := strconv.Atoi(val)
			if err != nil || i <= 0 {
				return fmt.Errorf("invalid int for http_timeout_sec: %v", val)
			}
			cfg.HTTPTimeoutSec = i
		default:
			return fmt.Errorf("unknown key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
