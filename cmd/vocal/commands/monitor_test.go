package commands

import (
	"context"
	"testing"
	"time"

	"github.com/vocalapp/vocal/pkg/audio/pcm"
	"github.com/vocalapp/vocal/pkg/audio/preproc"
	"github.com/vocalapp/vocal/pkg/audio/wavio"
)

func TestReplayClipPacesByFormat(t *testing.T) {
	// 60ms of audio is three 20ms capture buffers.
	clip := wavio.Clip{
		Samples: make([]float32, pcm.L16Mono16K.SamplesInDuration(60*time.Millisecond)),
		Format:  pcm.L16Mono16K,
	}
	pipeline := preproc.NewPipeline(preproc.DefaultPipelineConfig())

	start := time.Now()
	if err := replayClip(context.Background(), pipeline, clip); err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("replay finished in %v, want at least two 20ms ticks", elapsed)
	}
}

func TestReplayClipStopsOnCancel(t *testing.T) {
	clip := wavio.Clip{
		Samples: make([]float32, pcm.L16Mono16K.SamplesInDuration(time.Second)),
		Format:  pcm.L16Mono16K,
	}
	pipeline := preproc.NewPipeline(preproc.DefaultPipelineConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := replayClip(ctx, pipeline, clip); err == nil {
		t.Error("canceled replay did not report the context error")
	}
}
