// Package script defines the section delimiter protocol shared with the
// script-generation stage. The markers are a load-bearing contract with the
// frontend and the prompt format; do not rename them without versioning.
package script

import "strings"

// Protocol v1 markers. 생성된 script_text는 이 순서로 섹션을 가진다:
// TITLE → VIDEO SCRIPT → AUDIO SCRIPT → PPT SCRIPT
const (
	MarkerTitle = "TITLE:"
	MarkerVideo = "VIDEO SCRIPT:"
	MarkerAudio = "AUDIO SCRIPT:"
	MarkerPpt   = "PPT SCRIPT:"
)

// markers in document order, used to cut a section at the next known marker.
var markers = []string{MarkerTitle, MarkerVideo, MarkerAudio, MarkerPpt}

// section - marker 다음 텍스트를 다음 marker 직전까지 잘라서 반환.
// marker가 없으면 전체 텍스트 fallback.
func section(scriptText, marker string) string {
	idx := strings.Index(scriptText, marker)
	if idx < 0 {
		return strings.TrimSpace(scriptText)
	}

	rest := scriptText[idx+len(marker):]

	// 다음 marker에서 자르기
	cut := len(rest)
	for _, m := range markers {
		if m == marker {
			continue
		}
		if j := strings.Index(rest, m); j >= 0 && j < cut {
			cut = j
		}
	}

	return strings.TrimSpace(rest[:cut])
}

// ExtractAudio - AUDIO SCRIPT 섹션 추출 (없으면 전체 텍스트)
func ExtractAudio(scriptText string) string {
	return section(scriptText, MarkerAudio)
}

// ExtractVideo - VIDEO SCRIPT 섹션 추출 (없으면 전체 텍스트)
func ExtractVideo(scriptText string) string {
	return section(scriptText, MarkerVideo)
}

// ExtractPpt - PPT SCRIPT 섹션 추출 (없으면 전체 텍스트)
func ExtractPpt(scriptText string) string {
	return section(scriptText, MarkerPpt)
}
