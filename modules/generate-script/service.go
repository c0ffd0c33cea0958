package generatescript

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/submodule/azureopenai"
)

const (
	scriptSystemPrompt = "You are an expert educational content creator."
	maxPromptChars     = 18000
	defaultVideoLength = 5
	downloadTimeout    = 30 * time.Second
)

// ScriptStore - script 생성이 사용하는 ledger 접근 (database.Client가 구현)
type ScriptStore interface {
	FetchLecture(ctx context.Context, lectureID string) (*model.Lecture, error)
	FetchMaterials(ctx context.Context, lectureID string) ([]model.LectureMaterial, error)
	UpdateLectureScript(ctx context.Context, lectureID string, scriptText string) error
}

// Service - 강의 자료에서 섹션 구조 스크립트를 생성해 저장
type Service struct {
	store     ScriptStore
	completer azureopenai.Completer
	client    *http.Client
}

func NewService(store ScriptStore, completer azureopenai.Completer) *Service {
	return &Service{
		store:     store,
		completer: completer,
		client:    &http.Client{Timeout: downloadTimeout},
	}
}

// Generate - 자료 수집 → 텍스트 추출 → 프롬프트 구성 → LLM 호출 → 저장
func (s *Service) Generate(ctx context.Context, lectureID string) (string, error) {
	log.Printf("📝 Generating script for lecture: %s", lectureID)

	lecture, err := s.store.FetchLecture(ctx, lectureID)
	if err != nil {
		return "", fmt.Errorf("lecture not found: %w", err)
	}

	title := "Untitled Lecture"
	if lecture.Title != nil && strings.TrimSpace(*lecture.Title) != "" {
		title = *lecture.Title
	}

	instructorPrompt := ""
	if lecture.ScriptPrompt != nil {
		instructorPrompt = *lecture.ScriptPrompt
	}

	videoLength := defaultVideoLength
	if lecture.VideoLength != nil && *lecture.VideoLength > 0 {
		videoLength = *lecture.VideoLength
	}

	selectedModes := normalizeModes(lecture.ContentStyle)

	materials, err := s.store.FetchMaterials(ctx, lectureID)
	if err != nil {
		log.Printf("⚠️  Failed to fetch materials, continuing without: %v", err)
		materials = nil
	}

	var mainNames, bgNames []string
	var mainTexts, bgTexts []string

	for _, m := range materials {
		name := "unknown"
		if m.MaterialName != nil && *m.MaterialName != "" {
			name = *m.MaterialName
		}
		mtype := "main"
		if m.MaterialType != nil && *m.MaterialType != "" {
			mtype = strings.ToLower(*m.MaterialType)
		}

		if mtype == "main" {
			mainNames = append(mainNames, name)
		} else {
			bgNames = append(bgNames, name)
		}

		text := s.downloadAndExtract(ctx, m)
		if text == "" {
			continue
		}
		labeled := fmt.Sprintf("[%s: %s]\n%s", mtype, name, text)
		if mtype == "main" {
			mainTexts = append(mainTexts, labeled)
		} else {
			bgTexts = append(bgTexts, labeled)
		}
	}

	prompt := buildScriptPrompt(promptInput{
		LectureTitle:      title,
		InstructorPrompt:  instructorPrompt,
		VideoLength:       videoLength,
		SelectedModes:     selectedModes,
		MainMaterialNames: mainNames,
		BgMaterialNames:   bgNames,
		MainMaterialText:  truncateForPrompt(strings.Join(mainTexts, "\n\n"), maxPromptChars),
		BgMaterialText:    truncateForPrompt(strings.Join(bgTexts, "\n\n"), maxPromptChars),
	})

	scriptText, err := s.completer.Complete(ctx, scriptSystemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("script generation failed: %w", err)
	}

	if err := s.store.UpdateLectureScript(ctx, lectureID, scriptText); err != nil {
		return "", err
	}

	log.Printf("✅ Script saved for lecture %s (%d chars)", lectureID, len(scriptText))
	return scriptText, nil
}

// downloadAndExtract - 자료 1개의 본문 텍스트. 실패는 경고만 남기고 건너뛴다
func (s *Service) downloadAndExtract(ctx context.Context, m model.LectureMaterial) string {
	if m.MaterialURL == nil || *m.MaterialURL == "" {
		return ""
	}

	ext := guessExt(*m.MaterialURL, m.FileMime)
	if ext == "" {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, *m.MaterialURL, nil)
	if err != nil {
		return ""
	}

	resp, err := s.client.Do(req)
	if err != nil {
		log.Printf("⚠️  Material download failed: %v", err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("⚠️  Material download returned %d: %s", resp.StatusCode, *m.MaterialURL)
		return ""
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return ""
	}

	text, err := extractText(ext, data)
	if err != nil {
		log.Printf("⚠️  Material text extraction failed (%s): %v", ext, err)
		return ""
	}
	return text
}

// normalizeModes - content_style 정규화. 비어있으면 전체 모드로 기본 설정
func normalizeModes(styles []string) []string {
	var modes []string
	for _, s := range styles {
		s = strings.ToLower(strings.TrimSpace(s))
		switch s {
		case model.StyleVideo, model.StyleAudio, model.StylePowerpoint:
			modes = append(modes, s)
		}
	}
	if len(modes) == 0 {
		modes = []string{model.StyleVideo, model.StyleAudio, model.StylePowerpoint}
	}
	return modes
}
