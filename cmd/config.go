package cmd

import (
	"fmt"

	"github.com/brogergvhs/noveld/internal/config"

	"github.com/spf13/cobra"
)

var configStore = config.DefaultStore()

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the config profiles for noveld",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, used, err := configStore.LoadMerged(config.Options{
			IgnoreConfig: flagIgnoreConfig,
			Debug:        flagDebug,
		})
		if err != nil {
			return err
		}

		fmt.Printf("Loaded config from:\n  %s\n\n", used)
		cfg.Print()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
