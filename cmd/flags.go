/*
Copyright © 2026 The oligocraft authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"log/slog"
	"os"

	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/spf13/cobra"
)

// addFlags adds flags shared by commands that talk to a registry.
func addFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("backend", "b", "", "registry backend: benchling, local or memory")
	cmd.Flags().StringP("mode", "m", "", "test or production")
	cmd.Flags().StringP("input-dir", "i", "", "directory for working files")
}

// flags overrides config file settings with command line flags.
func flags(cmd *cobra.Command) {
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		opts = append(opts, config.OptBackend(config.Backend(b)))
	}
	if m, _ := cmd.Flags().GetString("mode"); m != "" {
		mode, err := config.NewMode(m)
		if err != nil {
			slog.Error("Cannot parse mode", "error", err)
			os.Exit(1)
		}
		opts = append(opts, config.OptMode(mode))
	}
	if d, _ := cmd.Flags().GetString("input-dir"); d != "" {
		opts = append(opts, config.OptInputDir(d))
	}
}
