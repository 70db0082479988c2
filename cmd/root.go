// Package cmd wires FuseLLM's command-line surface: flag/config binding
// via cfg.BindFlags, then the actual mount in RunE.
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Delta-in-hub/FuseLLM/cfg"
)

var (
	cfgFile       string
	bindErr       error
	configFileErr error

	mountConfig cfg.Config
)

var rootCmd = &cobra.Command{
	Use:   "fusellm [flags] mount_point",
	Short: "Mount an LLM chat and semantic-search service as a local filesystem",
	Long: `FuseLLM is a FUSE filesystem that exposes LLM chat completions and
semantic search over a document corpus as POSIX filesystem operations:
conversations, prompts, and search indexes all live under ordinary files
and directories.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if bindErr != nil {
			return bindErr
		}
		if configFileErr != nil {
			return configFileErr
		}

		mountPoint, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("canonicalizing mount point: %w", err)
		}
		mountConfig.MountPoint = mountPoint

		if err := cfg.Validate(&mountConfig); err != nil {
			return err
		}

		return runMount(cmd.Context(), &mountConfig)
	},
}

// Execute runs the root command, exiting the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "./settings.toml", "Path to a TOML config file.")
	bindErr = cfg.BindFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	path := cfgFile
	if path != "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			configFileErr = fmt.Errorf("resolving config file path: %w", err)
			return
		}
		path = abs
	}

	config, err := cfg.Load(path)
	if err != nil {
		configFileErr = fmt.Errorf("loading config: %w", err)
		return
	}
	mountConfig = config
}
