package script

import "testing"

const sampleScript = `TITLE:
Intro to Databases

VIDEO SCRIPT:
Welcome to the video lecture.

AUDIO SCRIPT:
Welcome to the audio lecture.

PPT SCRIPT:
SLIDE 1: Overview
- what is a database
`

func TestExtractVideoCutsAtAudioMarker(t *testing.T) {
	got := ExtractVideo(sampleScript)
	if got != "Welcome to the video lecture." {
		t.Fatalf("video section = %q", got)
	}
}

func TestExtractAudioCutsAtPptMarker(t *testing.T) {
	got := ExtractAudio(sampleScript)
	if got != "Welcome to the audio lecture." {
		t.Fatalf("audio section = %q", got)
	}
}

func TestExtractPptTakesTail(t *testing.T) {
	got := ExtractPpt(sampleScript)
	want := "SLIDE 1: Overview\n- what is a database"
	if got != want {
		t.Fatalf("ppt section = %q, want %q", got, want)
	}
}

func TestExtractFallsBackToWholeText(t *testing.T) {
	plain := "  just a plain narration with no markers  "
	for name, got := range map[string]string{
		"audio": ExtractAudio(plain),
		"video": ExtractVideo(plain),
		"ppt":   ExtractPpt(plain),
	} {
		if got != "just a plain narration with no markers" {
			t.Fatalf("%s fallback = %q", name, got)
		}
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if got := ExtractAudio(""); got != "" {
		t.Fatalf("empty input = %q", got)
	}
}
