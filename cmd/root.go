// VulcanizeDB
// Copyright © 2023 Vulcanize

// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.

// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cerc-io/xcm-emulator/pkg/config"
	"github.com/cerc-io/xcm-emulator/pkg/prom"
)

var (
	cfgFile        string
	subCommand     string
	logWithCommand log.Entry
)

var rootCmd = &cobra.Command{
	Use:              "xcm-emulator",
	Short:            "Emulates a relay chain and its parachains exchanging XCM messages",
	PersistentPreRun: initFuncs,
}

// Execute executes root Command.
func Execute() {
	log.Info("----- Starting xcm-emulator -----")
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func initFuncs(cmd *cobra.Command, args []string) {
	cfg := config.NewConfig()
	cfg.Log.Init()
	cfg.Prom.Init()

	if cfg.Log.File != "" {
		file, err := os.OpenFile(cfg.Log.File,
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err == nil {
			log.Infof("Directing output to %s", cfg.Log.File)
			log.SetOutput(file)
		} else {
			log.SetOutput(os.Stdout)
			log.Info("Failed to log to file, using default stdout")
		}
	} else {
		log.SetOutput(os.Stdout)
	}
	if err := logLevel(cfg.Log.Level); err != nil {
		log.Fatal("Could not set log level: ", err)
	}

	if cfg.Prom.Metrics {
		log.Info("initializing prometheus metrics")
		prom.Init()
	}

	if cfg.Prom.HTTP {
		log.Info("starting prometheus server")
		prom.Serve(cfg.Prom.Addr())
	}
}

func logLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return err
	}
	log.SetLevel(lvl)
	if lvl > log.InfoLevel {
		log.SetReportCaller(true)
	}
	log.Info("Log level set to ", lvl.String())

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file location")
	rootCmd.PersistentFlags().String(config.LOGRUS_FILE_CLI, "", "file path for logging")
	rootCmd.PersistentFlags().String(config.LOGRUS_LEVEL_CLI, log.InfoLevel.String(), "log level (trace, debug, info, warn, error, fatal, panic)")

	rootCmd.PersistentFlags().Bool(config.PROM_METRICS_CLI, false, "enable prometheus metrics")
	rootCmd.PersistentFlags().Bool(config.PROM_HTTP_CLI, false, "enable prometheus http service")
	rootCmd.PersistentFlags().String(config.PROM_HTTP_ADDR_CLI, "127.0.0.1", "prometheus http host")
	rootCmd.PersistentFlags().String(config.PROM_HTTP_PORT_CLI, "8086", "prometheus http port")

	viper.BindPFlag(config.LOGRUS_FILE_TOML, rootCmd.PersistentFlags().Lookup(config.LOGRUS_FILE_CLI))
	viper.BindPFlag(config.LOGRUS_LEVEL_TOML, rootCmd.PersistentFlags().Lookup(config.LOGRUS_LEVEL_CLI))

	viper.BindPFlag(config.PROM_METRICS_TOML, rootCmd.PersistentFlags().Lookup(config.PROM_METRICS_CLI))
	viper.BindPFlag(config.PROM_HTTP_TOML, rootCmd.PersistentFlags().Lookup(config.PROM_HTTP_CLI))
	viper.BindPFlag(config.PROM_HTTP_ADDR_TOML, rootCmd.PersistentFlags().Lookup(config.PROM_HTTP_ADDR_CLI))
	viper.BindPFlag(config.PROM_HTTP_PORT_TOML, rootCmd.PersistentFlags().Lookup(config.PROM_HTTP_PORT_CLI))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err == nil {
			log.Printf("Using config file: %s", viper.ConfigFileUsed())
		} else {
			log.Fatal(fmt.Sprintf("Couldn't read config file: %s", err.Error()))
		}
	} else {
		log.Debug("No config file passed with --config flag")
	}
}
