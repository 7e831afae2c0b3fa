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

	"github.com/consensys/go-starkstep/pkg/driver"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Get an expected flag, or panic if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected unsigned integer flag, or panic if an error arises.
func getUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Get an expected string flag, or panic if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Load the driver configuration named by the --config flag, and configure
// logging accordingly.
func loadConfig(cmd *cobra.Command) driver.Config {
	config, err := driver.LoadConfig(getString(cmd, "config"))
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	if getFlag(cmd, "verbose") {
		config.Log.Level = log.DebugLevel.String()
	}

	if err := config.Log.Apply(); err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return config
}

// Open the driver described by the given configuration.  The returned function
// releases its store.
func openDriver(config driver.Config) (*driver.Driver, func()) {
	layout, err := config.Arena.Layout()
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	store, err := driver.OpenStore(config.Store, layout.Size())
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	d, err := driver.New(config, store)
	if err != nil {
		store.Close()
		fmt.Println(err)
		os.Exit(2)
	}

	return d, func() {
		if err := store.Close(); err != nil {
			log.Error(err)
		}
	}
}

// Parse field elements given in decimal or hexadecimal (with a 0x prefix).
func parseElements(args []string) []stark252.Element {
	elems := make([]stark252.Element, len(args))

	for i, arg := range args {
		x, err := stark252.Parse(arg)
		if err != nil {
			fmt.Printf("invalid field element %q: %s\n", arg, err)
			os.Exit(2)
		}

		elems[i] = x
	}

	return elems
}
