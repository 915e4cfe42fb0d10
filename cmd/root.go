// Copyright © 2026 The oligocraft authors
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package cmd

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	oligocraft "github.com/attilauslu/oligocraft/pkg"
	"github.com/attilauslu/oligocraft/pkg/config"
	"github.com/gnames/gnsys"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

//go:embed oligocraft.yaml
var configText string

var (
	opts []config.Option
)

type cfgData struct {
	Mode          string
	Backend       string
	InputDir      string
	RegistryID    string
	ProjectID     string
	Folders       config.Folders
	Schemas       config.Schemas
	Backbones     config.Backbones
	ControlStrain string
	ControlWell   string
	AllPrimers    bool
	BenchlingURL  string
	BenchlingKey  string
	PollInterval  time.Duration
	ListenAddr    string
	WebhookSecret string
	BlobDriver    string
	BlobDir       string
	BlobBucket    string
	BlobRegion    string
	BlobEndpoint  string
	BlobPathStyle bool
	Archive       bool
	PgHost        string
	PgUser        string
	PgPass        string
	PgDB          string
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oligocraft",
	Short: "Registers oligos of a CRISPR BAC order and plans their constructs",
	Long: `Oligocraft takes vendor plate files and lab metadata of a crRNA,
receiver primer and screening primer order, validates them, registers the
parts in the entity registry, assembles BAC construct plans, fills the
destination plates and writes the results into a notebook entry.`,
	Run: func(cmd *cobra.Command, args []string) {
		version, err := cmd.Flags().GetBool("version")
		if err != nil {
			slog.Error("Cannot get flag", "error", err)
			os.Exit(1)
		}
		if version {
			fmt.Printf("\nversion: %s\nbuild: %s\n\n", oligocraft.Version, oligocraft.Build)
			os.Exit(0)
		}

		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().BoolP("version", "V", false, "Returns version and build date")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	var homeDir, cfgDir string
	configFile := "oligocraft"

	// Find home directory.
	homeDir, err = os.UserHomeDir()
	if err != nil {
		slog.Error("Cannot find home dir", "error", err)
		os.Exit(1)
	}
	cfgDir = filepath.Join(homeDir, ".config")

	viper.AddConfigPath(cfgDir)
	viper.SetConfigName(configFile)

	// OLIGOCRAFT_BENCHLINGKEY overrides BenchlingKey and so on.
	viper.SetEnvPrefix("OLIGOCRAFT")
	viper.AutomaticEnv()

	configPath := filepath.Join(cfgDir, fmt.Sprintf("%s.yaml", configFile))
	touchConfigFile(configPath)

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err != nil {
		slog.Error("Config file oligocraft.yaml not found", "error", err)
		os.Exit(1)
	}
	if _, err := getOpts(); err != nil {
		slog.Error("Cannot use config file", "path", configPath, "error", err)
		os.Exit(1)
	}
}

// getOpts imports data from the configuration file. Some of the settings can
// be overriden by command line flags.
func getOpts() ([]config.Option, error) {
	cfg := cfgData{}
	err := viper.Unmarshal(&cfg)
	if err != nil {
		slog.Error("Cannot unmarshal config file", "error", err)
		return opts, err
	}

	if cfg.Mode != "" {
		m, err := config.NewMode(cfg.Mode)
		if err != nil {
			return opts, err
		}
		opts = append(opts, config.OptMode(m))
	}
	if cfg.Backend != "" {
		opts = append(opts, config.OptBackend(config.Backend(strings.ToLower(cfg.Backend))))
	}
	if cfg.InputDir != "" {
		opts = append(opts, config.OptInputDir(cfg.InputDir))
	}
	if cfg.RegistryID != "" {
		opts = append(opts, config.OptRegistryID(cfg.RegistryID))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, config.OptProjectID(cfg.ProjectID))
	}
	opts = append(opts,
		config.OptFolders(cfg.Folders),
		config.OptSchemas(cfg.Schemas),
		config.OptBackbones(cfg.Backbones),
		config.OptControl(cfg.ControlStrain, cfg.ControlWell),
	)
	if cfg.AllPrimers {
		opts = append(opts, config.OptOnlyCPrimers(false))
	}
	if cfg.BenchlingURL != "" || cfg.BenchlingKey != "" {
		opts = append(opts, config.OptBenchling(cfg.BenchlingURL, cfg.BenchlingKey))
	}
	if cfg.PollInterval > 0 {
		opts = append(opts, config.OptPollInterval(cfg.PollInterval))
	}
	if cfg.ListenAddr != "" || cfg.WebhookSecret != "" {
		opts = append(opts, config.OptWebhook(cfg.ListenAddr, cfg.WebhookSecret))
	}
	if cfg.BlobDriver != "" {
		opts = append(opts, config.OptBlob(config.Blob{
			Driver:    cfg.BlobDriver,
			Dir:       cfg.BlobDir,
			Bucket:    cfg.BlobBucket,
			Region:    cfg.BlobRegion,
			Endpoint:  cfg.BlobEndpoint,
			PathStyle: cfg.BlobPathStyle,
		}))
	}
	if cfg.Archive {
		opts = append(opts, config.OptArchive(config.PgDB{
			Host: cfg.PgHost,
			User: cfg.PgUser,
			Pass: cfg.PgPass,
			DB:   cfg.PgDB,
		}))
	}
	return opts, nil
}

// touchConfigFile checks if config file exists, and if not, it gets created.
func touchConfigFile(configPath string) {
	fileExists, _ := gnsys.FileExists(configPath)
	if fileExists {
		return
	}

	slog.Info("Creating config file", "path", configPath)
	createConfig(configPath)
}

// createConfig creates config file.
func createConfig(path string) {
	err := gnsys.MakeDir(filepath.Dir(path))
	if err != nil {
		slog.Error("Cannot create config dir", "error", err)
		os.Exit(1)
	}

	err = os.WriteFile(path, []byte(configText), 0644)
	if err != nil {
		slog.Error("Cannot write to config file", "error", err)
		os.Exit(1)
	}
}
