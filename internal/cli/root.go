// Package cli implements the uasset command line tool.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/logicossoftware/go-uasset"
	"github.com/spf13/cobra"
)

var (
	rootFlag     string
	gameFlag     string
	formatFlag   string
	logLevelFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:          "uasset",
	Short:        "Inspect and resolve Unreal Engine packages",
	Long:         "Reads .uasset/.umap packages with their .uexp, .ubulk and .uptnl siblings, resolves object references across packages, and compresses segment files.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "Package root directory (default: $UASSET_ROOT or .)")
	RootCmd.PersistentFlags().StringVarP(&gameFlag, "game", "g", "", "Game name that /Game/ maps to (default: $UASSET_GAME)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level (default: $UASSET_LOG_LEVEL or warn)")
}

// loadConfig merges the environment configuration with command line flags.
func loadConfig() (uasset.Config, error) {
	cfg, err := uasset.LoadConfig()
	if err != nil {
		return uasset.Config{}, err
	}
	if rootFlag != "" {
		cfg.Root = rootFlag
	}
	if gameFlag != "" {
		cfg.Game = gameFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg, nil
}

func openProvider() (*uasset.FSProvider, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	p, err := cfg.Provider(logger)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Root, err)
	}
	return p, nil
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func checkFormat() error {
	switch formatFlag {
	case "json", "text":
		return nil
	}
	return fmt.Errorf("unknown format %q (want json or text)", formatFlag)
}
