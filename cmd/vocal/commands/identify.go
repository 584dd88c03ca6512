package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vocalapp/vocal/cmd/vocal/internal/config"
	"github.com/vocalapp/vocal/pkg/identity"
)

var identifyAdapt bool

var identifyCmd = &cobra.Command{
	Use:   "identify <chunk.wav> [chunk.wav ...]",
	Short: "Tell the enrolled voice apart from other speakers",
	Long: `Identify diarizes a session and matches every global speaker against
the active enrollment profile. Matched speakers are labeled "Me".

With --adapt, a high-confidence match also nudges the stored profile
toward the new sample, tracking slow voice drift.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIdentify,
}

func init() {
	identifyCmd.Flags().BoolVar(&identifyAdapt, "adapt", false, "update the enrollment from high-confidence matches")
	identifyCmd.Flags().StringVar(&diarizeTranscripts, "transcripts", "", "comma-separated transcript JSON files, one per chunk")
	rootCmd.AddCommand(identifyCmd)
}

func runIdentify(cmd *cobra.Command, args []string) error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}

	var transcripts []string
	if diarizeTranscripts != "" {
		transcripts = strings.Split(diarizeTranscripts, ",")
	}

	session, err := runSession(cfg, args, transcripts)
	if err != nil {
		return err
	}

	matches, err := matchSession(cmd.Context(), cfg, session)
	if err != nil {
		return err
	}

	fmt.Print(renderSession(session, matches))
	return nil
}

// matchSession matches every global speaker against the active enrollment.
// When adaptation is requested and a match clears the confidence bar, the
// updated profile version is persisted before returning.
func matchSession(ctx context.Context, cfg *config.Config, session *sessionOutput) ([]identity.MatchResult, error) {
	store, db, err := openStore(cfg)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	enrollment, err := store.LoadActive(ctx)
	if errors.Is(err, identity.ErrNotFound) {
		// No enrollment is not an error; every speaker stays unknown.
		fmt.Println(dimStyle.Render("No enrollment profile; run `vocal enroll` to label your own voice."))
		enrollment = nil
	} else if err != nil {
		return nil, err
	}

	matcher := identity.NewMatcher(cfg.Tuning.MatcherConfig(), enrollment)
	matches := matcher.MatchAll(session.Global.Profiles)

	if identifyAdapt {
		for i, m := range matches {
			if !matcher.ShouldAdaptProfile(m) {
				continue
			}
			next := matcher.AdaptWith(m, session.Global.Profiles[i].Embedding)
			if next == nil {
				continue
			}
			if err := store.Save(ctx, next); err != nil {
				return nil, fmt.Errorf("persist adapted profile: %w", err)
			}
			fmt.Printf("%s\n", dimStyle.Render(fmt.Sprintf(
				"Adapted enrollment to version %d (distance %.3f)", next.Version, m.Distance)))
		}
	}
	return matches, nil
}
