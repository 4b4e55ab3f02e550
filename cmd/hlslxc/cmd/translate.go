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

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shaderforge/hlslxc/codegen"
	"github.com/shaderforge/hlslxc/compiler"
	"github.com/shaderforge/hlslxc/report"
	"github.com/shaderforge/hlslxc/stage"
)

var translateCmd = &cobra.Command{
	Use:   "translate [flags] shader_file",
	Short: "translate an HLSL shader to GLSL, ESSL or VKSL.",
	Long:  "Translate a single HLSL shader file into the target dialect and write the result to stdout or -o.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runTranslate(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(translateCmd)
	translateCmd.Flags().StringP("output", "o", "", "output file; defaults to stdout")
	translateCmd.Flags().String("stage", "fragment", "shader stage: vertex, fragment, geometry, tesscontrol, tesseval, compute")
	translateCmd.Flags().String("entry", "main", "entry-point function name")
	translateCmd.Flags().String("secondary-entry", "", "secondary entry point (tessellation patch-constant function)")
	translateCmd.Flags().String("target", "auto", `output version, e.g. "glsl330", "essl300", "vksl450", or "auto"`)
	translateCmd.Flags().StringArrayP("define", "D", []string{}, "predefine a preprocessor macro as NAME=VALUE")
	translateCmd.Flags().Bool("allow-extensions", true, "satisfy version requirements with #extension directives when possible")
	translateCmd.Flags().Bool("explicit-binding", false, "emit explicit layout(binding=...) qualifiers")
	translateCmd.Flags().Bool("auto-binding", false, "assign binding slots automatically when the source has none")
	translateCmd.Flags().Int("auto-binding-start-slot", 0, "first slot used by --auto-binding")
	translateCmd.Flags().Bool("prefer-wrappers", false, "emit wrapper functions for intrinsics instead of inlining them")
	translateCmd.Flags().Bool("preserve-comments", false, "sets the PreserveComments option; the generator emits no source comments, so the output is unchanged")
	translateCmd.Flags().Bool("row-major", false, "pack matrices row-major instead of column-major")
	translateCmd.Flags().Bool("preprocess-only", false, "stop after preprocessing and print the token stream")
	translateCmd.Flags().Bool("validate-only", false, "stop after semantic analysis; report errors without generating code")
	translateCmd.Flags().String("reflect", "", "write a JSON reflection record to this file")
	translateCmd.Flags().Bool("show-ast", false, "dump a declaration outline of the parsed program to stderr (requires --verbose)")
	translateCmd.Flags().Bool("show-times", false, "log per-stage compile times to stderr (requires --verbose)")
}

func runTranslate(cmd *cobra.Command, filename string) {
	f, err := os.Open(filename)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer f.Close()

	st, err := parseStage(GetString(cmd, "stage"))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	version, err := parseTarget(GetString(cmd, "target"))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	macros, err := parseDefines(GetStringArray(cmd, "define"))
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	reflectPath := GetString(cmd, "reflect")

	var trace io.Writer
	if GetFlag(cmd, "verbose") {
		trace = os.Stderr
	}

	var out strings.Builder
	var collector report.Collector
	res := compiler.Compile(compiler.Request{
		Input: compiler.Input{
			Source:              f,
			Filename:            filename,
			Stage:               st,
			EntryPoint:          GetString(cmd, "entry"),
			SecondaryEntryPoint: GetString(cmd, "secondary-entry"),
			WarningMask:         report.AllCategories,
			PredefinedMacros:    macros,
		},
		Output: compiler.Output{
			Writer:     &out,
			Version:    version,
			Formatting: codegen.DefaultFormatting(),
			Options: codegen.Options{
				AllowExtensions:      GetFlag(cmd, "allow-extensions"),
				ExplicitBinding:      GetFlag(cmd, "explicit-binding"),
				AutoBinding:          GetFlag(cmd, "auto-binding"),
				AutoBindingStartSlot: GetInt(cmd, "auto-binding-start-slot"),
				PreferWrappers:       GetFlag(cmd, "prefer-wrappers"),
				PreserveComments:     GetFlag(cmd, "preserve-comments"),
				RowMajorAlignment:    GetFlag(cmd, "row-major"),
				PreprocessOnly:       GetFlag(cmd, "preprocess-only"),
				ValidateOnly:         GetFlag(cmd, "validate-only"),
				ShowAST:              GetFlag(cmd, "show-ast"),
				ShowTimes:            GetFlag(cmd, "show-times"),
			},
		},
		Log:        &collector,
		Reflection: reflectPath != "",
		Trace:      trace,
	})

	for _, r := range collector.Reports {
		log.Debug(r.String())
		fmt.Fprintln(os.Stderr, r.String())
	}

	if !res.Success {
		os.Exit(1)
	}

	if outPath := GetString(cmd, "output"); outPath != "" {
		if err := os.WriteFile(outPath, []byte(out.String()), 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	} else {
		fmt.Print(out.String())
	}

	if reflectPath != "" && res.Reflection != nil {
		data, err := json.MarshalIndent(res.Reflection, "", "  ")
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if err := os.WriteFile(reflectPath, data, 0644); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	}
}

func parseStage(s string) (stage.Stage, error) {
	switch strings.ToLower(s) {
	case "vertex", "vs":
		return stage.Vertex, nil
	case "fragment", "pixel", "ps":
		return stage.Fragment, nil
	case "geometry", "gs":
		return stage.Geometry, nil
	case "tesscontrol", "hs":
		return stage.TessControl, nil
	case "tesseval", "ds":
		return stage.TessEval, nil
	case "compute", "cs":
		return stage.Compute, nil
	default:
		return 0, fmt.Errorf("unrecognized --stage %q", s)
	}
}

// parseTarget parses a target string like "glsl330", "essl300", "vksl450"
// or "auto" into a codegen.Version.
func parseTarget(s string) (codegen.Version, error) {
	if strings.EqualFold(s, "auto") {
		return codegen.Auto, nil
	}
	for _, dialect := range []string{"glsl", "essl", "vksl"} {
		if strings.HasPrefix(strings.ToLower(s), dialect) {
			numStr := s[len(dialect):]
			n := 0
			if _, err := fmt.Sscanf(numStr, "%d", &n); err != nil || n == 0 {
				return codegen.Version{}, fmt.Errorf("unrecognized --target %q", s)
			}
			return codegen.Version{Dialect: dialect, Number: n}, nil
		}
	}
	return codegen.Version{}, fmt.Errorf("unrecognized --target %q", s)
}

func parseDefines(defines []string) (map[string]string, error) {
	macros := map[string]string{}
	for _, d := range defines {
		parts := strings.SplitN(d, "=", 2)
		if len(parts) == 1 {
			macros[parts[0]] = "1"
			continue
		}
		if parts[0] == "" {
			return nil, fmt.Errorf("malformed --define %q", d)
		}
		macros[parts[0]] = parts[1]
	}
	return macros, nil
}
