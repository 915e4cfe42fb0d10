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
	"strings"

	oligocraft "github.com/attilauslu/oligocraft/pkg"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/attilauslu/oligocraft/pkg/ent/errs"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Registers parts of an order and fills its plates",
	Run: func(cmd *cobra.Command, _ []string) {
		flags(cmd)
		cfg := config.New(opts...)
		ctx := cmd.Context()

		req := oligocraft.Request{
			FileIDs:  listFlag(cmd, "files"),
			PlateIDs: listFlag(cmd, "plates"),
		}
		req.Notebook, _ = cmd.Flags().GetString("notebook")
		seed, _ := cmd.Flags().GetString("seed")

		reg, closer, err := newRegistry(ctx, cfg, seed)
		if err != nil {
			slog.Error("Cannot create registry", "backend", cfg.Backend, "error", err)
			os.Exit(1)
		}
		defer closer()

		arch, err := newArchiver(ctx, cfg)
		if err != nil {
			slog.Error("Cannot connect to archive", "error", err)
			os.Exit(1)
		}

		oc := oligocraft.New(cfg, reg)
		rep, err := oc.Run(ctx, req)
		if err != nil {
			closer()
			exit(err)
		}
		slog.Info("Run finished",
			"order", rep.Order,
			"constructs", humanize.Comma(int64(len(rep.Constructs))),
			"manifest", rep.ManifestID,
		)

		if arch == nil {
			return
		}
		defer arch.Close()
		if err = oc.Archive(ctx, arch, rep); err != nil {
			slog.Error("Cannot archive run", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("files", "f", "", "comma-separated IDs of seven input file entities")
	runCmd.Flags().StringP("plates", "p", "", "comma-separated IDs of crRNA, REC and SCR plates")
	runCmd.Flags().StringP("notebook", "n", "", "name of the notebook entry for results")
	runCmd.Flags().StringP("seed", "s", "", "JSON seed file for the local backend")
	addFlags(runCmd)
}

func listFlag(cmd *cobra.Command, name string) []string {
	s, _ := cmd.Flags().GetString(name)
	var res []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			res = append(res, v)
		}
	}
	return res
}

// exit reports a user-facing message as a warning and defects as errors.
func exit(err error) {
	if errs.Fatal(err) {
		slog.Error("Run failed", "kind", errs.KindOf(err), "error", err)
		os.Exit(2)
	}
	slog.Warn("Run stopped", "kind", errs.KindOf(err))
	os.Stderr.WriteString(err.Error() + "\n")
	os.Exit(1)
}
