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

package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cerc-io/xcm-emulator/fixture"
	"github.com/cerc-io/xcm-emulator/pkg/config"
	"github.com/cerc-io/xcm-emulator/pkg/scenario"
)

// runCmd runs the integration scenarios against a fresh test network
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the XCM integration scenarios against the emulated network",
	Long: `Usage

./xcm-emulator run --scenarios=reserve-transfer,conservation`,
	Run: func(cmd *cobra.Command, args []string) {
		subCommand = cmd.CalledAs()
		logWithCommand = *logrus.WithField("SubCommand", subCommand)
		if !run() {
			os.Exit(1)
		}
	},
}

func run() bool {
	cfg := config.NewConfig()
	cfg.Init()
	color.NoColor = color.NoColor || cfg.Run.NoColor

	selected, err := selectScenarios(cfg.Run.Scenarios)
	if err != nil {
		logWithCommand.Fatal(err)
	}
	net, err := fixture.NewTestNet()
	if err != nil {
		logWithCommand.Fatal(err)
	}
	defer net.Close()

	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()

	failed := 0
	for _, s := range selected {
		start := time.Now()
		err := scenario.Run(net, s)
		elapsed := time.Since(start).Round(time.Microsecond)
		if err != nil {
			failed++
			fmt.Printf("%s %s %s\n    %v\n", fail("FAIL"), s.Name, faint(elapsed), err)
			if cfg.Run.FailFast {
				break
			}
			continue
		}
		fmt.Printf("%s %s %s\n", pass("PASS"), s.Name, faint(elapsed))
	}
	logWithCommand.Infof("%d scenarios run, %d failed", len(selected), failed)
	return failed == 0
}

func selectScenarios(names []string) ([]scenario.Scenario, error) {
	if len(names) == 0 {
		return scenario.All, nil
	}
	selected := make([]scenario.Scenario, 0, len(names))
	for _, name := range names {
		s, ok := scenario.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown scenario %q", name)
		}
		selected = append(selected, s)
	}
	return selected, nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.PersistentFlags().StringSlice(config.RUN_SCENARIOS_CLI, nil, "scenarios to run (default all)")
	runCmd.PersistentFlags().Bool(config.RUN_FAIL_FAST_CLI, false, "stop at the first failing scenario")
	runCmd.PersistentFlags().Bool(config.RUN_NO_COLOR_CLI, false, "disable colored output")

	viper.BindPFlag(config.RUN_SCENARIOS_TOML, runCmd.PersistentFlags().Lookup(config.RUN_SCENARIOS_CLI))
	viper.BindPFlag(config.RUN_FAIL_FAST_TOML, runCmd.PersistentFlags().Lookup(config.RUN_FAIL_FAST_CLI))
	viper.BindPFlag(config.RUN_NO_COLOR_TOML, runCmd.PersistentFlags().Lookup(config.RUN_NO_COLOR_CLI))
}
