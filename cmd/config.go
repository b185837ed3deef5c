package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kamal-hamza/webopt/pkg/config"
	"github.com/kamal-hamza/webopt/pkg/ui"
)

var (
	configForce bool
)

var configCmd = &cobra.Command{
	Use:   "config [dir]",
	Short: "Show the effective configuration",
	Long: `Print the configuration webopt would use for a directory, after the
config file and WEBOPT_* environment overrides have been applied.`,
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := yaml.Marshal(appConfig)
		if err != nil {
			return fmt.Errorf("failed to marshal config: %w", err)
		}

		source := appWorkspace.ConfigPath
		if _, err := os.Stat(source); os.IsNotExist(err) {
			source += " (not found, using defaults)"
		}
		fmt.Println(ui.RenderKeyValue("Config", source))
		fmt.Println()
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:         "init [dir]",
	Short:       "Write the default configuration file",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{"dirArg": "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appWorkspace.ConfigPath
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
		}

		if err := config.DefaultConfig().Save(path); err != nil {
			return err
		}
		fmt.Println(ui.FormatSuccess("Wrote " + path))
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "Overwrite an existing config file")
	configCmd.AddCommand(configInitCmd)
}
