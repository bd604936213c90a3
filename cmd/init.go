package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mjp2ff/aid-sub000/analyze"
)

var force bool

// initCmd: aid init
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new configuration file",
	Run: func(cmd *cobra.Command, args []string) {
		path, err := initConfigurationFile(cfgFile, force)
		if err != nil {
			logger.Error("Error initializing config file", zap.Error(err))
			os.Exit(1)
		}
		fmt.Printf("Configuration file created: %s\n", path)
	},
}

func init() {
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")
}

func initConfigurationFile(configurationPath string, force bool) (string, error) {
	if configurationPath == "" {
		configurationPath = analyze.DefaultConfigFile
	}
	if _, err := os.Stat(configurationPath); err == nil && !force {
		return "", fmt.Errorf("%s already exists, use --force to overwrite", configurationPath)
	}
	return configurationPath, analyze.WriteConfig(configurationPath, analyze.DefaultConfig())
}
