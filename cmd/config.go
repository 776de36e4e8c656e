package cmd

import (
	"fmt"

	"github.com/khrees2412/contactscout/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  "View and update configuration settings",
}

var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(titleStyle.Render("Configuration"))
		fmt.Printf("%s %s\n", labelStyle.Render("Config File:"), config.GetConfigPath())
		fmt.Printf("%s %s\n\n", labelStyle.Render("Database:"), config.AppConfig.DatabasePath)

		for _, key := range config.Keys() {
			value := config.Get(key)
			if value == "" {
				value = mutedStyle.Render("(not set)")
			}
			fmt.Printf("%s %s\n", labelStyle.Render(key+":"), value)
		}
	},
}

var setConfigCmd = &cobra.Command{
	Use:   "set",
	Short: "Update a configuration value",
	Example: `  contactscout config set --key search_engine --value bing
  contactscout config set --key max_pages --value 5
  contactscout config set --key email_providers --value "@gmail.com,@yahoo.com,@rediffmail.com"
  contactscout config set --key browser --value playwright`,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, _ := cmd.Flags().GetString("key")
		value, _ := cmd.Flags().GetString("value")

		if key == "" || !cmd.Flags().Changed("value") {
			return fmt.Errorf("both --key and --value are required. Keys: %v", config.Keys())
		}

		if err := config.Set(key, value); err != nil {
			return fmt.Errorf("error updating config: %w", err)
		}

		fmt.Printf("✓ Configuration updated: %s = %s\n", key, config.Get(key))
		return nil
	},
}

var pathConfigCmd = &cobra.Command{
	Use:         "path",
	Short:       "Print the config file location",
	Annotations: map[string]string{skipAppAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(config.GetConfigPath())
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
	configCmd.AddCommand(setConfigCmd)
	configCmd.AddCommand(pathConfigCmd)

	// Flags for set command
	setConfigCmd.Flags().String("key", "", "Configuration key")
	setConfigCmd.Flags().String("value", "", "Configuration value")
}
