package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage pipeline tuning",
	Long: `Manage the pipeline tuning file.

Tuning lives in tuning.yaml under the config directory and overrides the
built-in thresholds for voice detection, segmentation, clustering and
identity matching. Missing keys keep their defaults.

Examples:
  vocal config show
  vocal config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective tuning values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg.Tuning)
		if err != nil {
			return err
		}
		fmt.Println(dimStyle.Render("# " + filepath.Join(cfg.Dir, "tuning.yaml")))
		fmt.Print(string(data))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the current tuning values to tuning.yaml for editing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
		if err != nil {
			return err
		}
		path := filepath.Join(cfg.Dir, "tuning.yaml")
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists; edit it directly", path)
		}
		if err := cfg.SaveTuning(); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
