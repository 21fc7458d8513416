package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hullzero/server/utils/config"
)

var (
	cfgFile string
	cfg     *config.Config
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "hullzero",
	Short: "Hull biofouling decision support for tanker fleets",
	Long: `HullZero estimates hull biofouling from operational telemetry and
turns the estimates into decisions:
- Fouling thickness and roughness prediction (physical model + tree ensemble)
- Fuel and CO2 impact of the current fouling state
- NORMAM-401 conformity checking and risk forecasting
- Cleaning schedule optimization and method selection
- Compliance anomaly detection and invasive species assessment`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (optional; environment variables use the HULLZERO_ prefix)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("hullzero version 1.0.0")
	},
}
