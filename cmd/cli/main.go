package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"powerplants/adapters/excel"
	"powerplants/app"
	"powerplants/domain/plant"
	"powerplants/internal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// cliOptions are the persistent flags shared by every sub-command
type cliOptions struct {
	file       string
	plantSheet string
	stateSheet string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &cliOptions{}
	defaults := excel.DefaultExcelConfig()

	rootCmd := &cobra.Command{
		Use:           "powerplants-cli",
		Short:         "Query the eGRID power plant dataset from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.file, "file", envOr("DATA_FILE", defaults.FilePath), "Workbook path, or a directory of <sheet>.csv files")
	rootCmd.PersistentFlags().StringVar(&opts.plantSheet, "plant-sheet", envOr("PLANT_SHEET", defaults.PlantSheet), "Plant-level sheet name")
	rootCmd.PersistentFlags().StringVar(&opts.stateSheet, "state-sheet", envOr("STATE_SHEET", defaults.StateSheet), "State-level sheet name")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "WARN"), "ERROR, WARN, INFO, DEBUG or TRACE")

	rootCmd.AddCommand(
		newTopCmd(opts),
		newStatesCmd(opts),
		newStateCmd(opts),
		newMetricsCmd(opts),
		newProfileCmd(opts),
	)
	return rootCmd
}

func newTopCmd(opts *cliOptions) *cobra.Command {
	var n int
	var metric string

	cmd := &cobra.Command{
		Use:   "top",
		Short: "Rank plants by a numeric metric",
		Long: `Rank plants by a numeric metric, highest first.

Example: powerplants-cli top --n 5 --metric "Plant annual net generation (MWh)"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHandler(cmd, opts)
			if err != nil {
				return err
			}
			result, err := h.TopNPlants(n, metric)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().IntVar(&n, "n", 10, "Number of plants to return")
	cmd.Flags().StringVar(&metric, "metric", envOr("DEFAULT_METRIC", plant.DefaultMetric), "Plant metric column")
	return cmd
}

func newStatesCmd(opts *cliOptions) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "states",
		Short: "Summarize a plant metric per state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHandler(cmd, opts)
			if err != nil {
				return err
			}
			result, err := h.PlantMetricSummaryByState(metric)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "Plant metric column")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}

func newStateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "state [abbreviation]",
		Short: "List every plant in a state",
		Long: `List every plant in a state with all of its columns.

Example: powerplants-cli state CA`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := strings.ToUpper(args[0])
			if !isStateAbbreviation(state) {
				return fmt.Errorf("state must be two letters, got %q", args[0])
			}

			h, err := loadHandler(cmd, opts)
			if err != nil {
				return err
			}
			result, err := h.DataByState(state)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newMetricsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List the numeric plant metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHandler(cmd, opts)
			if err != nil {
				return err
			}
			return printJSON(cmd, h.NumericMetrics())
		},
	}
}

func newProfileCmd(opts *cliOptions) *cobra.Command {
	var metric string

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Describe the distribution of a plant metric",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			h, err := loadHandler(cmd, opts)
			if err != nil {
				return err
			}
			result, err := h.MetricProfile(metric)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}

	cmd.Flags().StringVar(&metric, "metric", envOr("DEFAULT_METRIC", plant.DefaultMetric), "Plant metric column")
	return cmd
}

func loadHandler(cmd *cobra.Command, opts *cliOptions) (*app.PowerPlantDataHandler, error) {
	logger := internal.NewLoggerWithOutput(internal.ParseLogLevel(opts.logLevel), cmd.ErrOrStderr())
	reader := excel.NewDataReader(opts.file, logger)
	return app.LoadPowerPlantDataHandler(cmd.Context(), reader, opts.plantSheet, opts.stateSheet, logger)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func isStateAbbreviation(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
