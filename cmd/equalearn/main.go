// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the equalearn CLI: solve math
// problems typed in or extracted from images and videos, get practice
// worksheets, and keep a local history of solutions.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/equalearn/internal/i18n"
	"github.com/pdiddy/equalearn/internal/logger"
	"github.com/pdiddy/equalearn/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds credentials loaded from the secrets directory at startup.
	loadedSecrets map[string]string

	appLog *logger.Logger
	tr     = i18n.New("en")
)

// secretDefault returns fallback if set, otherwise the secret stored under key.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	return loadedSecrets[key]
}

// rootCmd is the base command for the equalearn CLI.
var rootCmd = &cobra.Command{
	Use:   "equalearn",
	Short: "Solve math problems and explain them step by step",
	Long: `equalearn sends math problems to a local solving service and shows the
answer as a final result plus titled explanation steps.

Problems can be typed (solve), extracted from an image or video (extract),
dropped into an inbox directory (watch), or listed in a YAML file (batch).
Solutions are kept in a local history database.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logger.New(viper.GetString("log.mode"), viper.GetString("log.level"))
		if err != nil {
			return err
		}
		appLog = l

		s, err := secrets.Load(viper.GetString("secrets_dir"), appLog)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			appLog.Debug("loaded secrets", "keys", keys)
		}

		tr = i18n.New(languagePreference())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default: ./equalearn.yaml or ~/.config/equalearn/equalearn.yaml)")
	pf.String("server", "", "solving service URL (default http://localhost:5000)")
	pf.String("lang", "", "message language: en or zh (default from $LANG)")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("secrets-dir", ".secrets", "directory of credential files")

	_ = viper.BindPFlag("server.url", pf.Lookup("server"))
	_ = viper.BindPFlag("language", pf.Lookup("lang"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("secrets_dir", pf.Lookup("secrets-dir"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("equalearn")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "equalearn"))
		}
	}

	setDefaults()
	viper.SetEnvPrefix("EQUALEARN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// languagePreference returns the configured language, or one derived from
// the locale environment ("zh_CN.UTF-8" becomes "zh-CN").
func languagePreference() string {
	if lang := viper.GetString("language"); lang != "" {
		return lang
	}
	for _, env := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(env)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return "en"
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
