package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/presentformyfriends/sphinx4/cmd/sphinx4/internal/config"
	"github.com/presentformyfriends/sphinx4/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration.

Configuration is stored in ~/.sphinx4/config.yaml. All fields are optional;
'config show' prints the effective configuration with defaults applied.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cli.Output(os.Stdout, globalConfig, outputFormat())
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the current defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			var err error
			path, err = config.DefaultPath()
			if err != nil {
				return err
			}
		}
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists at %s", path)
		}
		if err := config.Save(path, globalConfig); err != nil {
			return err
		}
		fmt.Println(styles.Label.Render("wrote"), path)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			fmt.Println(cfgFile)
			return nil
		}
		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
}
