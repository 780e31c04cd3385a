package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"savedatamgr/pkg/config"
	"savedatamgr/pkg/paths"
	"savedatamgr/pkg/ui"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration files",
	Long: `Manage savedatamgr configuration files.

Configuration can be loaded from:
  - Command line flags (highest priority)
  - Environment variables (SAVEDATAMGR_*)
  - .env files
  - Configuration file
  - Default values (lowest priority)`,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with the default values",
	Long: `Create a configuration file holding every option at its default.

The file is created in the current directory as '` + config.FileName + `'
unless a different path is given with the --config flag.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration and resolved directories",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration from all sources and check it.

Missing checkpoint or savedata directories are reported as warnings.`,
	Args: cobra.NoArgs,
	RunE: runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(showCmd)
	configCmd.AddCommand(validateCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = config.FileName
	}

	if _, err := os.Stat(configPath); err == nil {
		ui.PrintError(os.Stdout, "Configuration file already exists", configPath)
		fmt.Println("\nTo overwrite, first remove the existing file:")
		fmt.Printf("  rm %s\n", configPath)
		return reported(fmt.Errorf("%s already exists", configPath))
	}

	if err := config.DefaultConfig().Save(configPath); err != nil {
		return err
	}

	ui.PrintSuccess(os.Stdout, "Configuration file created: "+configPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Set game.vendor and game.product to the game's LocalLow folders")
	fmt.Println("2. Run 'savedatamgr config validate' to check the configuration")
	fmt.Println("3. Run 'savedatamgr' to open the menu")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration: %w", err)
	}

	ui.PrintSuccess(os.Stdout, "Current Configuration")
	fmt.Println()
	fmt.Print(string(data))

	resolver := paths.NewResolver(cfg)
	fmt.Println()
	ui.PrintInfo(os.Stdout, "Live savedata", resolver.LiveSaveDirectory())
	ui.PrintInfo(os.Stdout, "Checkpoints", resolver.CheckpointsDirectory())

	fmt.Println("\nConfiguration sources (in order of priority):")
	fmt.Println("1. Command line flags")
	fmt.Println("2. Environment variables (" + config.EnvPrefix + "*)")
	if configFile != "" {
		fmt.Printf("3. Configuration file: %s\n", configFile)
	} else {
		fmt.Println("3. Configuration file: (searched in default locations)")
	}
	fmt.Println("4. Default values")
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, commandLineFlags(cmd))
	if err != nil {
		ui.PrintError(os.Stdout, "Configuration validation failed", err)
		return reported(err)
	}

	resolver := paths.NewResolver(cfg)
	var warnings []string
	if !dirExists(resolver.CheckpointsDirectory()) {
		warnings = append(warnings, "checkpoints directory does not exist: "+resolver.CheckpointsDirectory())
	}
	if !dirExists(resolver.LiveSaveDirectory()) {
		warnings = append(warnings, "live savedata directory does not exist: "+resolver.LiveSaveDirectory())
	}

	if len(warnings) > 0 {
		ui.PrintWarning(os.Stdout, "Configuration warnings:")
		for _, warn := range warnings {
			fmt.Printf("  - %s\n", warn)
		}
		fmt.Println()
	}

	ui.PrintSuccess(os.Stdout, "Configuration is valid")

	fmt.Println("\nConfiguration summary:")
	fmt.Printf("  Game: %s/%s\n", cfg.Game.Vendor, cfg.Game.Product)
	fmt.Printf("  Progress: %d steps every %s (animate: %t)\n", cfg.Progress.Steps, cfg.Progress.Interval, cfg.Progress.Animate)
	fmt.Printf("  Log level: %s\n", cfg.Logging.Level)
	return nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
