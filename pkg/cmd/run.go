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
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/driver"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var seedCmd = &cobra.Command{
	Use:   "seed [flags] pedersen|poseidon x...",
	Short: "Start a new run of a given task.",
	Long: `Start a new run of a given task, whose operands are pushed onto the
	value stack before the task is seeded.  The run is persisted in the store
	and executed by subsequent invocations of "step".`,
	Run: func(cmd *cobra.Command, args []string) {
		var root engine.Task

		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		inputs := parseElements(args[1:])

		switch args[0] {
		case "pedersen":
			if len(inputs) != 2 {
				fmt.Println("pedersen requires exactly two operands")
				os.Exit(1)
			}

			root = pedersen.NewHash()
		case "poseidon":
			root = poseidon.NewHashMany(uint32(len(inputs)))
		default:
			fmt.Printf("unknown task %q\n", args[0])
			os.Exit(1)
		}

		d, closer := openDriver(loadConfig(cmd))
		defer closer()

		err := d.Start(runFlag(cmd), root, func(ws *arena.Arena) error {
			return engine.PushFelts(ws, inputs...)
		})

		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}
	},
}

var planCmd = &cobra.Command{
	Use:   "plan [flags]",
	Short: "Report the number of invocations needed to finish a run.",
	Run: func(cmd *cobra.Command, args []string) {
		d, closer := openDriver(loadConfig(cmd))
		defer closer()

		cp, err := d.Checkpoint(runFlag(cmd))
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}

		if file := getString(cmd, "save"); file != "" {
			bytes, _ := cp.MarshalBinary()

			if err := os.WriteFile(file, bytes, 0644); err != nil {
				fmt.Println(err)
				os.Exit(2)
			}
		}

		fmt.Println(cp.ValidFor())
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore [flags] checkpoint_file",
	Short: "Start a new run from a checkpoint saved by \"plan --save\".",
	Run: func(cmd *cobra.Command, args []string) {
		var cp engine.Checkpoint

		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}

		bytes, err := os.ReadFile(args[0])
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		} else if err := cp.UnmarshalBinary(bytes); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}

		d, closer := openDriver(loadConfig(cmd))
		defer closer()

		if err := d.Restore(runFlag(cmd), cp); err != nil {
			fmt.Println(err)
			os.Exit(3)
		}

		fmt.Printf("%d steps remaining\n", cp.ValidFor())
	},
}

var stepCmd = &cobra.Command{
	Use:   "step [flags]",
	Short: "Invoke a run for a number of steps (or until it finishes).",
	Run: func(cmd *cobra.Command, args []string) {
		var (
			run   = runFlag(cmd)
			count = getUint(cmd, "count")
		)

		d, closer := openDriver(loadConfig(cmd))
		defer closer()

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
		defer cancel()

		n, err := invoke(ctx, d, run, count, term.IsTerminal(int(os.Stdout.Fd())))
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}

		fmt.Printf("%d invocations\n", n)
	},
}

var resultCmd = &cobra.Command{
	Use:   "result [flags]",
	Short: "Print the field elements left by a finished run.",
	Run: func(cmd *cobra.Command, args []string) {
		var count = getUint(cmd, "count")

		d, closer := openDriver(loadConfig(cmd))
		defer closer()

		bytes, err := d.Result(runFlag(cmd), count*stark252.Bytes)
		if err != nil {
			fmt.Println(err)
			os.Exit(3)
		}

		for i := uint(0); i < count; i++ {
			x, err := stark252.FromBytes(bytes[i*stark252.Bytes : (i+1)*stark252.Bytes])
			if err != nil {
				fmt.Println(err)
				os.Exit(3)
			}

			fmt.Println(x)
		}
	},
}

// Invoke a run upto count times (or until it finishes, if count is zero),
// stopping early if the context is cancelled.  Progress is reported when
// attached to a terminal.
func invoke(ctx context.Context, d *driver.Driver, run string, count uint, progress bool) (uint64, error) {
	var n uint64

	if done, err := d.Done(run); err != nil || done {
		return 0, err
	}

	for count == 0 || n < uint64(count) {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		done, err := d.Invoke(run, n)
		if err != nil {
			return n, err
		}

		n++

		if progress {
			fmt.Printf("\r%d", n)
		}

		if done {
			break
		}
	}

	if progress {
		fmt.Print("\r")
	}

	return n, nil
}

func runFlag(cmd *cobra.Command) string {
	run := getString(cmd, "run")
	if run == "" {
		fmt.Println("missing --run")
		os.Exit(1)
	}

	return run
}

func init() {
	for _, cmd := range []*cobra.Command{seedCmd, planCmd, restoreCmd, stepCmd, resultCmd} {
		cmd.Flags().String("run", "", "run identifier")
		rootCmd.AddCommand(cmd)
	}

	planCmd.Flags().String("save", "", "also save a checkpoint of the run to a given file")
	stepCmd.Flags().UintP("count", "n", 0, "maximum number of invocations (0 means until finished)")
	resultCmd.Flags().Uint("count", 1, "number of field elements to print")
}
