// Copyright 2025 The lambda-kube Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cli turns an injector into a command line tool. Programs that
// define a resource graph embed it from their main:
//
//	func main() {
//		in := injection.NewInjector()
//		// register rules and describers
//		cli.Execute("myapp", in)
//	}
//
// The resulting binary renders the resolved object list as YAML or JSON,
// taking the initial configuration from a YAML file.
package cli

import (
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"

	"github.com/brosenan/lambda-kube/pkg/injection"
)

var headingColor = color.RGB(50, 108, 229)

// NewRootCommand returns the root command for a graph-rendering binary
// called name, with the render and version subcommands attached.
func NewRootCommand(name string, in *injection.Injector) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Short: headingColor.Sprintf("%s [global options] <subcommand> [args]", name) + "\n" +
			"Render a Kubernetes object graph defined in Go",
		Long: headingColor.Sprintf("Usage: %s [global options] <subcommand> [args]\n", name) +
			"\nThis binary holds a set of dependency injection rules describing a\n" +
			"system of Kubernetes objects. The render subcommand resolves the rules\n" +
			"against a configuration and prints the resulting objects, ready to be\n" +
			"piped into kubectl apply.\n\n",
		Version:       version.GetVersionInfo().GitVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				_ = cmd.Help()
			}
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newRenderCommand(in),
		newVersionCommand(),
	)

	setUsageTemplate(cmd)
	return cmd
}

// Execute builds the root command and runs it, exiting on error. Color
// output honors the NO_COLOR convention.
func Execute(name string, in *injection.Injector) {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		color.NoColor = true
	}

	root := NewRootCommand(name, in)
	if err := root.Execute(); err != nil {
		if msg := err.Error(); msg != "" {
			color.New(color.FgRed).Fprintln(os.Stderr, "Error:", msg)
		}
		os.Exit(1)
	}
}

func setUsageTemplate(cmd *cobra.Command) {
	cobra.AddTemplateFunc("StyleHeading", headingColor.SprintFunc())
	usageTemplate := strings.NewReplacer(
		`Usage:`, `{{StyleHeading "Usage:"}}`,
		`Examples:`, `{{StyleHeading "Examples:"}}`,
		`Available Commands:`, `{{StyleHeading "Available Commands:"}}`,
		`Additional Commands:`, `{{StyleHeading "Additional Commands:"}}`,
		`Flags:`, `{{StyleHeading "Options:"}}`,
		`Global Flags:`, `{{StyleHeading "Global Options:"}}`,
	).Replace(cmd.UsageTemplate())
	cmd.SetUsageTemplate(usageTemplate)
}
