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
	"testing"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/driver"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/stretchr/testify/require"
)

func testDriver(t *testing.T) *driver.Driver {
	var config driver.Config

	config.Store.InMemoryDONOTUSE = true
	config = config.WithDefaults()

	store, err := driver.OpenStore(config.Store, 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	d, err := driver.New(config, store)
	require.NoError(t, err)

	inputs := parseElements([]string{"1", "0x2"})
	require.NoError(t, d.Start("r", pedersen.NewHash(), func(ws *arena.Arena) error {
		return engine.PushFelts(ws, inputs...)
	}))

	return d
}

func TestInvoke_Bounded(t *testing.T) {
	d := testDriver(t)

	n, err := invoke(context.Background(), d, "r", 5, false)
	require.NoError(t, err)
	require.Equal(t, uint64(5), n)

	remaining, err := d.Plan("r")
	require.NoError(t, err)

	n, err = invoke(context.Background(), d, "r", 0, false)
	require.NoError(t, err)
	require.Equal(t, remaining, n)

	// Nothing further to do
	n, err = invoke(context.Background(), d, "r", 0, false)
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)
}

func TestInvoke_Cancelled(t *testing.T) {
	d := testDriver(t)
	ctx, cancel := context.WithCancel(context.Background())

	cancel()

	n, err := invoke(ctx, d, "r", 0, false)
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, uint64(0), n)
}
