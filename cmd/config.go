// file: cmd/config.go
// version: 1.0.0
// guid: 5b6c7d8e-9f0a-1b2c-3d4e-5f6a7b8c9d0e

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jdfalk/pokedex/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or persist the effective configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Marshal()
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configSaveCmd = &cobra.Command{
	Use:   "save [path]",
	Short: "Write the effective configuration to a YAML file",
	Long: `Write the effective configuration to a YAML file. Without a path the file
given by --config is used, or $HOME/.pokedex.yaml.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := configSavePath(args)
		if err != nil {
			return err
		}
		if err := config.SaveConfigToFile(path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Configuration saved to %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSaveCmd)
}

func configSavePath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	if cfgFile != "" {
		return cfgFile, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".pokedex.yaml"), nil
}
