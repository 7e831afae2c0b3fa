// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/util"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
	"github.com/spf13/cobra"
)

var hashCmd = &cobra.Command{
	Use:   "hash",
	Short: "Compute a hash locally using the task engine.",
}

var pedersenCmd = &cobra.Command{
	Use:   "pedersen [flags] x y",
	Short: "Compute the Pedersen hash of two field elements.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		hashLocally(cmd, pedersen.NewHash(), parseElements(args))
	},
}

var poseidonCmd = &cobra.Command{
	Use:   "poseidon [flags] x...",
	Short: "Compute the Poseidon hash of zero or more field elements.",
	Run: func(cmd *cobra.Command, args []string) {
		hashLocally(cmd, poseidon.NewHashMany(uint32(len(args))), parseElements(args))
	},
}

// Run a hash task to completion in a fresh arena, printing the result and the
// number of steps taken.
func hashLocally(cmd *cobra.Command, root engine.Task, inputs []stark252.Element) {
	var (
		config = loadConfig(cmd)
		stats  = util.NewPerfStats()
	)
	//
	layout, err := config.Arena.Layout()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	ws := arena.New(layout)
	//
	if err := engine.PushFelts(ws, inputs...); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	//
	steps, err := tasks.Run(ws, root)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	stats.Log("hash", steps)
	//
	result, err := engine.PopFelt(ws)
	if err != nil {
		fmt.Println(err)
		os.Exit(3)
	}
	//
	fmt.Printf("%s (%d steps)\n", result, steps)
}

func init() {
	rootCmd.AddCommand(hashCmd)
	hashCmd.AddCommand(pedersenCmd)
	hashCmd.AddCommand(poseidonCmd)
}
