package commands

import (
	"log/slog"
	"runtime"
	"sync"

	"github.com/vocalapp/vocal/cmd/vocal/internal/config"
	"github.com/vocalapp/vocal/pkg/audio/wavio"
	"github.com/vocalapp/vocal/pkg/diar"
	"github.com/vocalapp/vocal/pkg/diar/align"
	"github.com/vocalapp/vocal/pkg/transcript"
)

// chunkOutput is one chunk's diarization plus its global speaker mapping.
type chunkOutput struct {
	Path    string            `json:"path"`
	Result  *diar.Result      `json:"result"`
	Mapping map[int]int       `json:"mapping"`
	Words   []transcript.Word `json:"-"`
}

// sessionOutput is the full session: per-chunk results folded into global
// speakers.
type sessionOutput struct {
	Chunks []chunkOutput          `json:"chunks"`
	Global align.GlobalSpeakerMap `json:"global"`
}

// chunkAnalysis is what one worker hands to the alignment fold.
type chunkAnalysis struct {
	path   string
	result *diar.Result
	words  []transcript.Word
	err    error
}

// runSession diarizes the chunks concurrently and folds them into global
// speakers in chunk order. transcriptPaths may be shorter than wavPaths;
// missing entries mean no transcript for that chunk.
func runSession(cfg *config.Config, wavPaths, transcriptPaths []string) (*sessionOutput, error) {
	diarizer := diar.NewDiarizer(cfg.Tuning.DiarizerConfig(), diar.WithLogger(slog.Default()))
	queue := align.NewChunkQueue[chunkAnalysis](0)

	// Per-chunk analysis is CPU bound and independent; only the fold below
	// is ordered.
	workers := min(runtime.NumCPU(), len(wavPaths))
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, path := range wavPaths {
		wg.Add(1)
		go func(index int, path string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			// Put only fails after an error aborted the fold; the result is
			// discarded either way.
			_ = queue.Put(index, analyzeChunk(diarizer, path, transcriptPath(transcriptPaths, index)))
		}(i, path)
	}
	go func() {
		wg.Wait()
		queue.CloseWrite()
	}()

	aligner := align.New(cfg.Tuning.AlignConfig())
	out := &sessionOutput{}
	for {
		index, analysis, err := queue.Next()
		if err != nil {
			break
		}
		if analysis.err != nil {
			queue.CloseWrite()
			return nil, analysis.err
		}
		mapping, err := aligner.AddChunk(index, analysis.result.Profiles)
		if err != nil {
			queue.CloseWrite()
			return nil, err
		}
		out.Chunks = append(out.Chunks, chunkOutput{
			Path:    analysis.path,
			Result:  analysis.result,
			Mapping: mapping,
			Words:   analysis.words,
		})
	}
	out.Global = aligner.Map()
	return out, nil
}

func analyzeChunk(diarizer *diar.Diarizer, wavPath, wordsPath string) chunkAnalysis {
	clip, err := wavio.LoadFile(wavPath)
	if err != nil {
		return chunkAnalysis{path: wavPath, err: err}
	}

	var words []transcript.Word
	if wordsPath != "" {
		words, err = transcript.LoadFile(wordsPath)
		if err != nil {
			return chunkAnalysis{path: wavPath, err: err}
		}
	}

	slog.Debug("analyzing chunk", "path", wavPath, "duration_ms", clip.DurationMs(), "words", len(words))
	return chunkAnalysis{
		path:   wavPath,
		result: diarizer.Diarize(clip.Samples, words),
		words:  words,
	}
}

func transcriptPath(paths []string, index int) string {
	if index < len(paths) {
		return paths[index]
	}
	return ""
}

// globalSegments rewrites a chunk's segments with session-global speaker
// indices.
func globalSegments(c chunkOutput) []diar.DiarizedSegment {
	out := make([]diar.DiarizedSegment, len(c.Result.Segments))
	for i, seg := range c.Result.Segments {
		if g, ok := c.Mapping[seg.Speaker]; ok {
			seg.Speaker = g
		}
		out[i] = seg
	}
	return out
}

// dominantProfile picks the global speaker with the most samples, for
// single-voice recordings like enrollment takes.
func dominantProfile(s *sessionOutput) (int, bool) {
	best, bestSamples := -1, -1
	for i, p := range s.Global.Profiles {
		if p.SampleCount > bestSamples {
			best, bestSamples = i, p.SampleCount
		}
	}
	if best < 0 {
		return 0, false
	}
	return best, true
}

