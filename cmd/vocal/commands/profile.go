package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage enrollment profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored enrollment profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
	if err != nil {
		return err
	}
		store, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		profiles, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Println(dimStyle.Render("No profiles. Run `vocal enroll` to create one."))
			return nil
		}
		for _, p := range profiles {
			state := "inactive"
			if p.Active {
				state = "active"
			}
			fmt.Printf("%s  %s\n", headerStyle.Render(p.ID), dimStyle.Render(fmt.Sprintf(
				"%s %s v%d samples=%d adaptations=%d updated=%s",
				p.Name, state, p.Version, p.Quality.SampleCount, p.AdaptationCount,
				p.UpdatedAt.Format("2006-01-02 15:04"))))
		}
		return nil
	},
}

var profileDeactivateCmd = &cobra.Command{
	Use:   "deactivate <id>",
	Short: "Deactivate a profile without deleting it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
	if err != nil {
		return err
	}
		store, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := store.Deactivate(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deactivated %s\n", args[0])
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a profile permanently",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := GetConfig()
	if err != nil {
		return err
	}
		store, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileDeactivateCmd)
	profileCmd.AddCommand(profileDeleteCmd)
	rootCmd.AddCommand(profileCmd)
}
