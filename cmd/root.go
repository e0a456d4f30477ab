/*
Copyright © 2025 riad@rsworld.eu

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"p6export/config"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "p6export",
	Short: "Export timesheet, resource and rate tables from Primavera P6 web services.",
	Long: `
**********************************************
*               P6 EXPORT                    *
**********************************************

This CLI reads timesheet, resource and rate data from a Primavera P6 EPPM
web-services endpoint (SOAP, WS-Security UsernameToken) and writes one
artifact per entity type to an output directory.

Entity types:
- ResourceHour, Resource, ResourceRate, Timesheet
- ResourceAssignment, ResourceAssignmentPeriodActual

Output formats:
- CSV: .csv (default)
- Excel: .xlsx
- SQLite: .sqlite
`,
	Example: `
  # Create configuration file
  p6export config create

  # Export every entity type as CSV into ./out (prompts for missing credentials)
  p6export export --host p6.example.com -o ./out

  # Export two entity types to Excel, keep going when one fails
  p6export export --entity timesheet --entity resource-hour -f excel --on-error continue

  # List entity types, service paths and columns
  p6export entities
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	config.SetDefaults()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "configFile", "", "Config file override (default discovery: $HOME/.p6export.yaml, then ./.p6export.yaml)")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".p6export" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".p6export")
	}

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			fmt.Fprintln(os.Stderr, "No config file found; using flags, environment and defaults. Create one with: p6export config create")
			return
		}
		fmt.Fprintln(os.Stderr, "Reading config file failed:", err)
	}
}
