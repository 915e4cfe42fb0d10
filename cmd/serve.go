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
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/attilauslu/oligocraft/internal/io/webio"
	oligocraft "github.com/attilauslu/oligocraft/pkg"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the webhook server that runs orders on request",
	Run: func(cmd *cobra.Command, _ []string) {
		flags(cmd)
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			opts = append(opts, config.OptWebhook(addr, config.New(opts...).WebhookSecret))
		}
		cfg := config.New(opts...)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		reg, closer, err := newRegistry(ctx, cfg, "")
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
		if arch != nil {
			defer arch.Close()
		}

		srv := webio.New(cfg, oligocraft.New(cfg, reg), arch)
		if err = srv.Serve(ctx); err != nil {
			slog.Error("Webhook server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("addr", "a", "", "listen address, for example :8080")
	addFlags(serveCmd)
}
