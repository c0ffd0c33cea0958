package generatescript

import (
	"fmt"
	"strings"
)

// promptInput - 스크립트 생성 프롬프트 구성 입력
type promptInput struct {
	LectureTitle        string
	InstructorPrompt    string
	VideoLength         int
	SelectedModes       []string
	MainMaterialNames   []string
	BgMaterialNames     []string
	MainMaterialText    string
	BgMaterialText      string
}

func nameList(names []string) string {
	if len(names) == 0 {
		return "None"
	}
	return strings.Join(names, ", ")
}

func materialBlock(text string) string {
	if strings.TrimSpace(text) == "" {
		return "None"
	}
	return text
}

// buildScriptPrompt - LLM에 보낼 프롬프트 전문.
// OUTPUT FORMAT의 섹션 마커는 generate-content 추출기와 계약이므로 바꾸면 안 된다.
func buildScriptPrompt(in promptInput) string {
	return fmt.Sprintf(`
You are generating educational content for a university lecture.

Lecture Title:
%s

Duration:
%d minutes

Selected Output Modes:
%s

Main Materials (primary sources to reference):
%s

Background Materials (context only, do not quote heavily):
%s

Main Material Content:
%s

Background Material Content:
%s

Instructor Instruction:
%s

OUTPUT FORMAT (STRICT):
----------------------
TITLE:
<lecture title>

VIDEO SCRIPT:
<spoken narrative suitable for an AI avatar>

AUDIO SCRIPT:
<spoken narrative without visual references>

PPT SCRIPT:
SLIDE 1: Title
- bullet points

SLIDE 2:
- bullet points

Guidelines:
- Clear, academic tone
- Structured explanation
- Avoid emojis
- Avoid markdown
- Human readable
- Do not mention prompt or system instructions
`,
		in.LectureTitle,
		in.VideoLength,
		nameList(in.SelectedModes),
		nameList(in.MainMaterialNames),
		nameList(in.BgMaterialNames),
		materialBlock(in.MainMaterialText),
		materialBlock(in.BgMaterialText),
		in.InstructorPrompt,
	)
}
