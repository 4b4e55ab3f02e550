// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cmd implements the hlslxc command-line driver, grounded on
// Consensys-go-corset's cobra verb tree (pkg/cmd/root.go's rootCmd-plus-
// subcommand-registration shape) rather than gapid's own core/app/verbs.go,
// which pulls in analytics/crash-reporting machinery this single-purpose
// translator has no use for.
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is set by the release build's linker flags; "" means a
// development build, in which case the root command's --version handler
// falls back to the module's build info.
var Version string

var rootCmd = &cobra.Command{
	Use:   "hlslxc",
	Short: "Translate HLSL shaders to GLSL, ESSL or VKSL.",
	Long:  "hlslxc is a source-to-source compiler that translates Direct3D HLSL shaders into GLSL, ESSL or VKSL.",
	Run: func(cmd *cobra.Command, args []string) {
		if GetFlag(cmd, "version") {
			fmt.Print("hlslxc ")
			if Version != "" {
				fmt.Print(Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Print(info.Main.Version)
			} else {
				fmt.Print("(unknown version)")
			}
			fmt.Println()
			return
		}
		cmd.Help()
	},
}

// Execute runs the root command, exiting the process with a non-zero
// status on failure. Called once from main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().Bool("version", false, "print the version and exit")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug-level logging")
	cobra.OnInitialize(func() {
		if v, err := rootCmd.PersistentFlags().GetBool("verbose"); err == nil && v {
			log.SetLevel(log.DebugLevel)
		}
	})
}
