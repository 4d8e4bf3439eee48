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
	"sort"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cerc-io/xcm-emulator/fixture"
)

// genesisCmd prints the genesis state of every chain in the test network
var genesisCmd = &cobra.Command{
	Use:   "genesis",
	Short: "Print the genesis state roots of the emulated chains",
	Long: `Usage

./xcm-emulator genesis [--dump]`,
	Run: func(cmd *cobra.Command, args []string) {
		subCommand = cmd.CalledAs()
		logWithCommand = *logrus.WithField("SubCommand", subCommand)
		printGenesis(viper.GetBool("genesis.dump"))
	},
}

func printGenesis(dump bool) {
	net, err := fixture.NewTestNet()
	if err != nil {
		logWithCommand.Fatal(err)
	}
	defer net.Close()
	name := color.New(color.FgCyan, color.Bold).SprintFunc()
	for _, tag := range net.Tags() {
		st, _ := net.Genesis(tag)
		fmt.Printf("%s root=%s entries=%d\n", name(tag), st.Root().Hex(), st.Len())
		if !dump {
			continue
		}
		entries := st.Dump()
		keys := make([]string, 0, len(entries))
		for k := range entries {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Printf("    %q = %x\n", k, entries[k])
		}
	}
}

func init() {
	rootCmd.AddCommand(genesisCmd)

	genesisCmd.PersistentFlags().Bool("dump", false, "print every storage entry")

	viper.BindPFlag("genesis.dump", genesisCmd.PersistentFlags().Lookup("dump"))
}
