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
package main

import (
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
	"text/template"

	"github.com/consensys/bavard"
)

const copyrightHolder = "Consensys Software Inc."

// variant describes one member of the closed task set.  Tags are assigned by
// position in the variants table and must never be reordered, since they are
// persisted in arena images.
type variant struct {
	// Name of the tag constant (e.g. PedersenHash)
	Name string
	// Package containing the task, relative to pkg/tasks.
	Package string
	// Type of the task within its package.
	Type string
}

// config is the data made available to templates.
type config struct {
	Module   string
	Variants []variant
}

var variants = []variant{
	{"PedersenHash", "pedersen", "Hash"},
	{"PedersenLookup", "pedersen", "Lookup"},
	{"PoseidonPermutation", "poseidon", "Permutation"},
	{"PoseidonHashMany", "poseidon", "HashMany"},
	{"TranscriptRandom", "transcript", "RandomElement"},
	{"TranscriptAbsorbOne", "transcript", "AbsorbOne"},
	{"TranscriptAbsorbMany", "transcript", "AbsorbMany"},
	{"CommitTable", "commit", "CommitTable"},
	{"CommitTrace", "commit", "CommitTrace"},
	{"PolyPowers", "poly", "Powers"},
	{"PolyEvaluate", "poly", "Evaluate"},
	{"MerkleVerify", "merkle", "VerifyPath"},
	{"ProofOfWork", "pow", "ProofOfWork"},
	{"VerifierPhase", "verifier", "Phase"},
}

//go:generate go run main.go
func main() {
	var (
		bgen    = bavard.NewBatchGenerator(copyrightHolder, 2025, "go-starkstep")
		cfg     = config{"github.com/consensys/go-starkstep", variants}
		options = []func(*bavard.Bavard) error{bavard.Funcs(template.FuncMap{"imports": imports})}
	)
	//
	assertNoError(bgen.Generate(cfg, "tag", "templates",
		bavard.Entry{
			File:      "../../pkg/tasks/tag/tags_gen.go",
			Templates: []string{"tags.go.tmpl"},
		},
	), "generating tags")
	//
	assertNoError(bgen.GenerateWithOptions(cfg, "tasks", "templates", options,
		bavard.Entry{
			File:      "../../pkg/tasks/codec_gen.go",
			Templates: []string{"codec.go.tmpl"},
		},
		bavard.Entry{
			File:      "../../pkg/tasks/codec_gen_test.go",
			Templates: []string{"codec.test.go.tmpl"},
		},
	), "generating codec")
	// run gofmt on generated packages
	runCmd("gofmt", "-w", "../../pkg/tasks/")
}

// imports returns the import paths of the given variants' packages, along
// with any extra packages under pkg/, sorted as gofmt would.
func imports(module string, variants []variant, extra ...string) []string {
	var paths []string
	//
	for _, v := range variants {
		path := fmt.Sprintf("%s/pkg/tasks/%s", module, v.Package)
		//
		if !slices.Contains(paths, path) {
			paths = append(paths, path)
		}
	}
	//
	for _, e := range extra {
		paths = append(paths, fmt.Sprintf("%s/pkg/%s", module, e))
	}
	//
	slices.Sort(paths)
	//
	return paths
}

func runCmd(name string, arg ...string) {
	fmt.Println(name, strings.Join(arg, " "))
	cmd := exec.Command(name, arg...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	assertNoError(cmd.Run(), "")
}

func assertNoError(err error, contextAndArgs ...any) {
	if err != nil {
		msg := err.Error()

		if len(contextAndArgs) > 0 {
			allArgs := append(slices.Clone(contextAndArgs[1:]), err)
			msg = fmt.Sprintf(contextAndArgs[0].(string)+": %v", allArgs...)
		}

		fmt.Println(msg)
		os.Exit(1)
	}
}
