package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vocalapp/vocal/pkg/identity"
)

var (
	diarizeTranscripts string
	diarizeJSON        bool
	diarizeIdentify    bool
)

var diarizeCmd = &cobra.Command{
	Use:   "diarize <chunk.wav> [chunk.wav ...]",
	Short: "Diarize one or more session chunks",
	Long: `Diarize runs speaker diarization over a session of WAV chunks.

Chunks are processed in the order given and speakers are aligned across
chunks, so "Speaker 1" refers to the same voice throughout the session.
Word-level transcripts (JSON, one file per chunk, matched by position)
attribute text to speakers.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDiarize,
}

func init() {
	diarizeCmd.Flags().StringVar(&diarizeTranscripts, "transcripts", "", "comma-separated transcript JSON files, one per chunk")
	diarizeCmd.Flags().BoolVar(&diarizeJSON, "json", false, "emit the session result as JSON")
	diarizeCmd.Flags().BoolVar(&diarizeIdentify, "identify", false, "match global speakers against the enrolled profile")
	rootCmd.AddCommand(diarizeCmd)
}

func runDiarize(cmd *cobra.Command, args []string) error {
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

	var matches []identity.MatchResult
	if diarizeIdentify {
		matches, err = matchSession(cmd.Context(), cfg, session)
		if err != nil {
			return err
		}
	}

	if diarizeJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			*sessionOutput
			Matches []identity.MatchResult `json:"matches,omitempty"`
		}{session, matches})
	}

	fmt.Print(renderSession(session, matches))
	return nil
}
