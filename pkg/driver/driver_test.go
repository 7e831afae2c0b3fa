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
package driver

import (
	"bytes"
	"context"
	"testing"

	"github.com/consensys/go-starkstep/pkg/arena"
	"github.com/consensys/go-starkstep/pkg/engine"
	"github.com/consensys/go-starkstep/pkg/tasks/pedersen"
	"github.com/consensys/go-starkstep/pkg/tasks/poseidon"
	"github.com/consensys/go-starkstep/pkg/util/field/stark252"
	"github.com/stretchr/testify/require"
)

var (
	x = stark252.FromHex("0x3d937c035c878245caf64531a5756109c53068da139362728feb561405371cb")
	y = stark252.FromHex("0x208a0a10250e382e1e4bbe2880906c2791bf6275695e02fbbc6aeff9cd8b31a")
)

func testConfig() Config {
	var config Config
	//
	config.Store.InMemoryDONOTUSE = true
	config.Store.Path = "test"
	//
	return config.WithDefaults()
}

func newDriver(t *testing.T, config Config) (*Driver, Store) {
	store, err := OpenStore(config.Store, 0)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	//
	driver, err := New(config, store)
	require.NoError(t, err)
	//
	return driver, store
}

func operands(xs ...stark252.Element) func(*arena.Arena) error {
	return func(ws *arena.Arena) error {
		return engine.PushFelts(ws, xs...)
	}
}

func TestDriver_Pedersen(t *testing.T) {
	driver, _ := newDriver(t, testConfig())
	//
	require.NoError(t, driver.Start("p", pedersen.NewHash(), operands(x, y)))
	//
	planned, err := driver.Plan("p")
	require.NoError(t, err)
	require.Equal(t, uint64(23), planned)
	//
	for i := uint64(0); ; i++ {
		done, err := driver.Invoke("p", i)
		require.NoError(t, err)
		//
		if done {
			require.Equal(t, planned, i+1)
			break
		}
		// Plans shrink by one per invocation
		remaining, err := driver.Plan("p")
		require.NoError(t, err)
		require.Equal(t, planned-i-1, remaining)
	}
	//
	result, err := driver.Result("p", engine.FeltBytes)
	require.NoError(t, err)
	//
	expected := pedersen.Sum(x, y).Encode()
	require.Equal(t, expected[:], result)
	// Invoking a finished run does nothing
	done, err := driver.Invoke("p", 99)
	require.NoError(t, err)
	require.True(t, done)
}

func TestDriver_Run(t *testing.T) {
	driver, _ := newDriver(t, testConfig())
	inputs := []stark252.Element{stark252.New(1), stark252.New(2), stark252.New(3)}
	//
	require.NoError(t, driver.Start("h", poseidon.NewHashMany(3), operands(inputs...)))
	//
	planned, err := driver.Plan("h")
	require.NoError(t, err)
	//
	n, err := driver.Run(context.Background(), "h")
	require.NoError(t, err)
	require.Equal(t, planned, n)
	//
	result, err := driver.Result("h", engine.FeltBytes)
	require.NoError(t, err)
	//
	expected := poseidon.Sum(inputs...).Encode()
	require.Equal(t, expected[:], result)
	// Running again makes no further invocations
	n, err = driver.Run(context.Background(), "h")
	require.NoError(t, err)
	require.Equal(t, uint64(0), n)
}

func TestDriver_Cancelled(t *testing.T) {
	driver, _ := newDriver(t, testConfig())
	ctx, cancel := context.WithCancel(context.Background())
	//
	cancel()
	require.NoError(t, driver.Start("c", pedersen.NewHash(), operands(x, y)))
	//
	n, err := driver.Run(ctx, "c")
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, uint64(0), n)
	//
	_, err = driver.Result("c", engine.FeltBytes)
	require.ErrorIs(t, err, ErrNotDone)
}

// A failing invocation leaves the stored image byte-identical.
func TestDriver_FailureAtomicity(t *testing.T) {
	driver, store := newDriver(t, testConfig())
	bad := func(ws *arena.Arena) error {
		return ws.PushValue(bytes.Repeat([]byte{0xff}, 2*engine.FeltBytes))
	}
	//
	require.NoError(t, driver.Start("bad", pedersen.NewHash(), bad))
	//
	before, err := store.Load("bad")
	require.NoError(t, err)
	//
	_, err = driver.Invoke("bad", 0)
	require.ErrorIs(t, err, engine.ErrInvariantViolation)
	//
	after, err := store.Load("bad")
	require.NoError(t, err)
	require.Equal(t, before, after)
	//
	_, err = driver.Plan("bad")
	require.ErrorIs(t, err, engine.ErrInvariantViolation)
}

func TestDriver_Checkpoint(t *testing.T) {
	driver, _ := newDriver(t, testConfig())
	//
	require.NoError(t, driver.Start("p", pedersen.NewHash(), operands(x, y)))
	//
	for i := range uint64(5) {
		_, err := driver.Invoke("p", i)
		require.NoError(t, err)
	}
	//
	cp, err := driver.Checkpoint("p")
	require.NoError(t, err)
	require.Equal(t, uint64(18), cp.ValidFor())
	// Checkpoints survive serialisation
	data, err := cp.MarshalBinary()
	require.NoError(t, err)
	//
	var restored engine.Checkpoint
	require.NoError(t, restored.UnmarshalBinary(data))
	require.ErrorIs(t, driver.Restore("p", restored), ErrExists)
	require.NoError(t, driver.Restore("q", restored))
	//
	planned, err := driver.Plan("q")
	require.NoError(t, err)
	require.Equal(t, cp.ValidFor(), planned)
	//
	for _, run := range []string{"p", "q"} {
		n, err := driver.Run(context.Background(), run)
		require.NoError(t, err)
		require.Equal(t, uint64(18), n)
	}
	//
	expected, err := driver.Result("p", engine.FeltBytes)
	require.NoError(t, err)
	actual, err := driver.Result("q", engine.FeltBytes)
	require.NoError(t, err)
	require.Equal(t, expected, actual)
	// Images for another layout are rejected
	restored.Image = restored.Image[1:]
	require.ErrorIs(t, driver.Restore("r", restored), arena.ErrMalformed)
}

func TestDriver_StartTwice(t *testing.T) {
	driver, _ := newDriver(t, testConfig())
	//
	require.NoError(t, driver.Start("s", pedersen.NewHash(), operands(x, y)))
	require.ErrorIs(t, driver.Start("s", pedersen.NewHash(), operands(x, y)), ErrExists)
	//
	require.NoError(t, driver.Delete("s"))
	require.NoError(t, driver.Start("s", pedersen.NewHash(), operands(x, y)))
	//
	_, err := driver.Plan("missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDriver_StepLimit(t *testing.T) {
	config := testConfig()
	config.Planner.MaxSteps = 10
	driver, _ := newDriver(t, config)
	//
	require.NoError(t, driver.Start("l", pedersen.NewHash(), operands(x, y)))
	//
	_, err := driver.Plan("l")
	require.ErrorIs(t, err, engine.ErrStepLimit)
}

func TestDriver_FileStore(t *testing.T) {
	config := testConfig()
	config.Store = StoreConfig{Kind: "file", Path: t.TempDir()}
	//
	layout, err := config.Arena.Layout()
	require.NoError(t, err)
	//
	store, err := OpenStore(config.Store, layout.Size())
	require.NoError(t, err)
	//
	driver, err := New(config, store)
	require.NoError(t, err)
	//
	require.NoError(t, driver.Start("f", pedersen.NewHash(), operands(x, y)))
	//
	n, err := driver.Run(context.Background(), "f")
	require.NoError(t, err)
	require.Equal(t, uint64(23), n)
	//
	result, err := driver.Result("f", engine.FeltBytes)
	require.NoError(t, err)
	//
	expected := pedersen.Sum(x, y).Encode()
	require.Equal(t, expected[:], result)
}
