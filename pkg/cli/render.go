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

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/brosenan/lambda-kube/pkg/injection"
)

type renderOptions struct {
	configPath string
	output     string
	debug      bool
}

func newRenderCommand(in *injection.Injector) *cobra.Command {
	opts := renderOptions{output: "yaml"}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Resolve the rules and print the resulting objects",
		Long: Highlight("render") + "\n\n" +
			"Resolve the registered rules against an initial configuration and\n" +
			"print every emitted object. With no configuration file only rules\n" +
			"without external inputs are resolved; rules whose inputs are absent\n" +
			"are skipped.\n",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), in, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "",
		"Path to a YAML file with the initial configuration")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "yaml",
		"Output format. One of: (json | yaml)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false,
		"Log resolution progress to stderr")
	return cmd
}

func runRender(out io.Writer, in *injection.Injector, opts renderOptions) error {
	config, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}

	log := logr.Discard()
	if opts.debug {
		log = funcr.New(func(prefix, args string) {
			fmt.Fprintln(os.Stderr, prefix, args)
		}, funcr.Options{Verbosity: 1})
	}

	objs, err := in.Resolve(config, injection.WithLogger(log))
	if err != nil {
		return err
	}

	switch opts.output {
	case "yaml":
		return writeYAML(out, objs)
	case "json":
		return writeJSON(out, objs)
	default:
		return fmt.Errorf("unknown output format %q, expected json or yaml", opts.output)
	}
}

// loadConfig reads the initial configuration from a YAML file. An empty
// path yields an empty configuration.
func loadConfig(path string) (injection.Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing configuration %s: %w", path, err)
	}
	config := make(injection.Config, len(raw))
	for name, value := range raw {
		config[injection.Name(name)] = value
	}
	return config, nil
}

// writeYAML prints the objects as a multi-document YAML stream, the form
// kubectl apply -f - expects.
func writeYAML(out io.Writer, objs []injection.Object) error {
	for i, obj := range objs {
		data, err := yaml.Marshal(obj)
		if err != nil {
			return fmt.Errorf("encoding object %d: %w", i, err)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(out, "---"); err != nil {
				return err
			}
		}
		if _, err := out.Write(data); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(out io.Writer, objs []injection.Object) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if objs == nil {
		objs = []injection.Object{}
	}
	return enc.Encode(objs)
}
