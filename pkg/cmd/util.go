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

	"github.com/consensys/go-vcdstep/pkg/decode"
	"github.com/consensys/go-vcdstep/pkg/uarch"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint gets an expected unsigned int, or panic if an error arises.
func GetUint(cmd *cobra.Command, flag string) uint {
	r, err := cmd.Flags().GetUint(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Configure the log level from the persistent "verbose" flag.
func configureLogging(cmd *cobra.Command) {
	if GetFlag(cmd, "verbose") {
		log.SetLevel(log.DebugLevel)
	}
}

// Determine which catalog of signals to track.
func getCatalog(cmd *cobra.Command) *uarch.Catalog {
	if GetFlag(cmd, "regfile-only") {
		return uarch.RegfileCatalog()
	}
	//
	return uarch.FullCatalog()
}

// Decode a trace file into its history of steps, logging a summary.
func readStepHistory(filename string, catalog *uarch.Catalog) (uarch.History, error) {
	history, stats, err := decode.DecodeFile(filename, catalog)
	//
	if err != nil {
		return nil, err
	}
	//
	log.Infof("decoded %d steps from %s (%d changes applied, %d ignored, final time %d)",
		len(history), filename, stats.Applied, stats.Ignored, stats.EndTime)
	//
	return history, nil
}
