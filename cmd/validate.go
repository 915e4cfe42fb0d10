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
	"fmt"
	"log/slog"
	"os"

	"github.com/attilauslu/oligocraft/internal/ent/loader"
	"github.com/attilauslu/oligocraft/internal/io/memio"
	oligocraft "github.com/attilauslu/oligocraft/pkg"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Checks and merges local input files without registering anything",
	Run: func(cmd *cobra.Command, _ []string) {
		cfg := config.New(opts...)
		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = cfg.DownloadDir
		}

		oc := oligocraft.New(cfg, memio.New())
		sum, err := oc.Validate(cmd.Context(), loader.NewFiles(dir))
		if err != nil {
			exit(err)
		}

		enc := gnfmt.GNjson{Pretty: true}
		out, err := enc.Encode(sum)
		if err != nil {
			slog.Error("Cannot encode summary", "error", err)
			os.Exit(1)
		}
		fmt.Println(string(out))
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("dir", "d", "", "directory with the seven input CSV files")
}
