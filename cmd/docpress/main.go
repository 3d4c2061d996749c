// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the docpress CLI.
// Implements: docs/ARCHITECTURE § Command Line.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/docpress/internal/history"
	"github.com/pdiddy/docpress/internal/project"
)

// version is set at build time via ldflags.
var version = "dev"

// stateDir holds files that must survive builds, unlike the cache dir.
const stateDir = ".docpress"

// rootCmd is the base command for the docpress CLI.
var rootCmd = &cobra.Command{
	Use:   "docpress",
	Short: "Build PDF, DOCX and TeX documents from Markdown with pandoc",
	Long: `docpress turns a directory of Markdown chapters into documents by
driving pandoc. A project is described by docpress.yaml; its
backend_config.pandoc block controls the pandoc command line.

Every build produces one document from all chapters, plus one document
for every section that carries its own pandoc block.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger()
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "settings file (default: ./docpress.settings.yaml or ~/.config/docpress/settings.yaml)")
	flags.StringP("project", "p", project.DefaultFile, "project file")
	flags.BoolP("verbose", "v", false, "log debug output")

	_ = viper.BindPFlag("project", flags.Lookup("project"))
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.SetDefault("log_level", "info")
	viper.SetDefault("watch_debounce", "300ms")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("docpress.settings")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "docpress"))
		}
	}

	viper.SetEnvPrefix("DOCPRESS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger builds the stderr text logger from the verbose flag and the
// log_level setting.
func newLogger() (*slog.Logger, error) {
	level := slog.LevelInfo
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	} else if err := level.UnmarshalText([]byte(strings.TrimSpace(viper.GetString("log_level")))); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// loadProject loads the project file named by the project setting.
func loadProject() (*project.Project, error) {
	return project.Load(viper.GetString("project"))
}

// historyPath returns the history database path for p.
func historyPath(p *project.Project) string {
	if path := viper.GetString("history_db"); path != "" {
		return path
	}
	return filepath.Join(p.Root, stateDir, history.DefaultFile)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
