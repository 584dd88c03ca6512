package commands

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vocalapp/vocal/pkg/audio/preproc"
	"github.com/vocalapp/vocal/pkg/audio/wavio"
	"github.com/vocalapp/vocal/pkg/telemetry"
)

var (
	monitorListen string
	monitorLoop   bool
)

// monitorBufferMs is the capture buffer size the replay imitates. 20ms at
// 16kHz is 320 samples, the same granularity a live device callback uses.
const monitorBufferMs = 20

var monitorCmd = &cobra.Command{
	Use:   "monitor <input.wav>",
	Short: "Replay a recording through the capture pipeline with a live level feed",
	Long: `Monitor replays a WAV file through the real-time preprocessing chain
(noise reduction, auto gain, voice detection) at recording pace and serves
the level meter over a WebSocket at /levels for UI development.`,
	Args: cobra.ExactArgs(1),
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorListen, "listen", "127.0.0.1:8791", "telemetry listen address")
	monitorCmd.Flags().BoolVar(&monitorLoop, "loop", false, "restart the recording when it ends")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	clip, err := wavio.LoadFile(args[0])
	if err != nil {
		return err
	}

	slog.Debug("loaded clip", "format", clip.Format.String(), "duration", clip.Duration())

	pipeline := preproc.NewPipeline(preproc.DefaultPipelineConfig())
	broadcaster := telemetry.NewBroadcaster(pipeline.Monitor())
	defer broadcaster.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := http.NewServeMux()
	mux.Handle("/levels", broadcaster)
	go func() {
		slog.Info("telemetry listening", "addr", monitorListen)
		if err := http.ListenAndServe(monitorListen, mux); err != nil {
			slog.Error("telemetry server error", "error", err)
		}
	}()
	go broadcaster.Run(ctx)

	fmt.Println(headerStyle.Render(fmt.Sprintf("Streaming levels on ws://%s/levels", monitorListen)))
	if err := replayClip(ctx, pipeline, clip); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// replayClip pushes the clip through the pipeline one capture buffer at a
// time, paced to the recording's own clock.
func replayClip(ctx context.Context, pipeline *preproc.Pipeline, clip wavio.Clip) error {
	bufferLen := clip.Format.SamplesInDuration(monitorBufferMs * time.Millisecond)
	ticker := time.NewTicker(monitorBufferMs * time.Millisecond)
	defer ticker.Stop()

	buf := make([]float32, bufferLen)
	for {
		pipeline.Reset()
		for off := 0; off < len(clip.Samples); off += bufferLen {
			end := min(off+bufferLen, len(clip.Samples))
			// Process a copy so gain does not accumulate into the clip
			// across loop passes.
			n := copy(buf, clip.Samples[off:end])
			out := pipeline.Process(buf[:n], clip.SampleRate())
			if IsVerbose() && out.IsSpeech {
				slog.Debug("speech buffer", "rms", out.Level.RMS, "peak", out.Level.Peak)
			}
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
			}
		}
		if !monitorLoop {
			return nil
		}
	}
}
