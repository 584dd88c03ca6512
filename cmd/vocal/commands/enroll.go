package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vocalapp/vocal/pkg/identity"
)

var enrollName string

var enrollCmd = &cobra.Command{
	Use:   "enroll <sample.wav> [sample.wav ...]",
	Short: "Enroll your voice from clean recordings",
	Long: `Enroll builds the voice reference used by identify. Record 30 seconds
or more of your own speech in a quiet room; if a recording contains more
than one voice, the dominant one is enrolled.

Enrolling again replaces the active profile; earlier profiles stay in
storage, deactivated.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runEnroll,
}

func init() {
	enrollCmd.Flags().StringVar(&enrollName, "name", "default", "label for the new profile")
	rootCmd.AddCommand(enrollCmd)
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	session, err := runSession(cfg, args, nil)
	if err != nil {
		return err
	}

	index, ok := dominantProfile(session)
	if !ok {
		return fmt.Errorf("no speech found in the enrollment recordings")
	}
	ref := session.Global.Profiles[index]
	if ref.Embedding.IsZero() {
		return fmt.Errorf("the recordings were too short to build a voice embedding")
	}
	if len(session.Global.Profiles) > 1 {
		fmt.Println(dimStyle.Render(fmt.Sprintf(
			"Heard %d voices; enrolling the dominant one (%d samples).",
			len(session.Global.Profiles), ref.SampleCount)))
	}

	profile := identity.NewEnrollmentProfile(ref.Embedding, ref.Centroid, identity.QualityStats{
		SampleCount: ref.SampleCount,
	})
	profile.Name = enrollName

	store, db, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// One active profile at a time.
	existing, err := store.List(ctx)
	if err != nil {
		return err
	}
	for _, p := range existing {
		if p.Active {
			if err := store.Deactivate(ctx, p.ID); err != nil {
				return err
			}
		}
	}
	if err := store.Save(ctx, profile); err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Enrolled."))
	fmt.Println(dimStyle.Render(fmt.Sprintf("Profile %s, built from %d samples.", profile.ID, ref.SampleCount)))
	return nil
}
