package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vocalapp/vocal/pkg/diar"
	"github.com/vocalapp/vocal/pkg/identity"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))

	// speakerPalette colors global speaker labels; indices wrap.
	speakerPalette = []lipgloss.Color{
		"#00ff9f", "#ff7b72", "#79c0ff", "#d2a8ff",
		"#ffa657", "#7ee787", "#f2cc60", "#a5d6ff",
	}
)

func speakerStyle(index int) lipgloss.Style {
	c := speakerPalette[index%len(speakerPalette)]
	return lipgloss.NewStyle().Bold(true).Foreground(c)
}

// speakerName renders a global speaker index, honoring identity matches.
func speakerName(index int, matches []identity.MatchResult) string {
	if index < len(matches) && matches[index].Identity == identity.IdentityMe {
		return "Me"
	}
	return fmt.Sprintf("Speaker %d", index+1)
}

// renderSession prints the per-chunk transcript with global speaker labels.
func renderSession(s *sessionOutput, matches []identity.MatchResult) string {
	var b strings.Builder
	for _, chunk := range s.Chunks {
		b.WriteString(headerStyle.Render(chunk.Path))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  (%d speakers)", chunk.Result.SpeakerCount)))
		b.WriteByte('\n')
		for _, seg := range globalSegments(chunk) {
			b.WriteString(renderSegment(seg, matches))
			b.WriteByte('\n')
		}
	}

	b.WriteString(headerStyle.Render(fmt.Sprintf("Session: %d speakers", len(s.Global.Profiles))))
	b.WriteByte('\n')
	for i, p := range s.Global.Profiles {
		line := fmt.Sprintf("  %s  %s", speakerStyle(i).Render(speakerName(i, matches)),
			dimStyle.Render(fmt.Sprintf("samples=%d", p.SampleCount)))
		if i < len(matches) {
			m := matches[i]
			line += dimStyle.Render(fmt.Sprintf(" distance=%.3f reason=%s", m.Distance, m.DecisionReason))
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

func renderSegment(seg diar.DiarizedSegment, matches []identity.MatchResult) string {
	stamp := dimStyle.Render(fmt.Sprintf("[%7.2fs - %7.2fs]", seg.StartMs/1000, seg.EndMs/1000))
	label := speakerStyle(seg.Speaker).Render(speakerName(seg.Speaker, matches) + ":")
	if seg.Text == "" {
		return fmt.Sprintf("  %s %s %s", stamp, label, dimStyle.Render("(no transcript)"))
	}
	return fmt.Sprintf("  %s %s %s", stamp, label, seg.Text)
}
