// Copyright © 2023 Vulcanize, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the settings of a scenario run.
type Config struct {
	Run  *RunConfig
	Prom *PromConfig
	Log  *LogConfig
}

// RunConfig selects the scenarios to run and how results are reported.
type RunConfig struct {
	// Scenarios to run by name; empty runs all of them.
	Scenarios []string
	FailFast  bool
	NoColor   bool
}

// PromConfig configures prometheus metrics.
type PromConfig struct {
	Metrics  bool
	HTTP     bool
	HTTPAddr string
	HTTPPort string
}

// LogConfig configures logrus.
type LogConfig struct {
	Level string
	File  string
}

// NewConfig returns a config with every section allocated.
func NewConfig() *Config {
	return &Config{
		Run:  &RunConfig{},
		Prom: &PromConfig{},
		Log:  &LogConfig{},
	}
}

// Init binds the environment and reads every section from viper.
func (c *Config) Init() {
	c.Run.Init()
	c.Prom.Init()
	c.Log.Init()
}

func (c *RunConfig) Init() {
	viper.BindEnv(RUN_SCENARIOS_TOML, RUN_SCENARIOS)
	viper.BindEnv(RUN_FAIL_FAST_TOML, RUN_FAIL_FAST)
	viper.BindEnv(RUN_NO_COLOR_TOML, RUN_NO_COLOR)

	c.Scenarios = viper.GetStringSlice(RUN_SCENARIOS_TOML)
	c.FailFast = viper.GetBool(RUN_FAIL_FAST_TOML)
	c.NoColor = viper.GetBool(RUN_NO_COLOR_TOML)
}

func (c *PromConfig) Init() {
	viper.BindEnv(PROM_METRICS_TOML, PROM_METRICS)
	viper.BindEnv(PROM_HTTP_TOML, PROM_HTTP)
	viper.BindEnv(PROM_HTTP_ADDR_TOML, PROM_HTTP_ADDR)
	viper.BindEnv(PROM_HTTP_PORT_TOML, PROM_HTTP_PORT)

	c.Metrics = viper.GetBool(PROM_METRICS_TOML)
	c.HTTP = viper.GetBool(PROM_HTTP_TOML)
	c.HTTPAddr = viper.GetString(PROM_HTTP_ADDR_TOML)
	c.HTTPPort = viper.GetString(PROM_HTTP_PORT_TOML)
}

// Addr is the listen address of the metrics server.
func (c *PromConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.HTTPAddr, c.HTTPPort)
}

func (c *LogConfig) Init() {
	viper.BindEnv(LOGRUS_LEVEL_TOML, LOGRUS_LEVEL)
	viper.BindEnv(LOGRUS_FILE_TOML, LOGRUS_FILE)

	c.Level = viper.GetString(LOGRUS_LEVEL_TOML)
	c.File = viper.GetString(LOGRUS_FILE_TOML)
}
