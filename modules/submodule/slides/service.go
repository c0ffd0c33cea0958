package slides

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/script"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/storage"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/submodule/azureopenai"
)

const outlineSystemPrompt = "You are an assistant that converts lecture notes into a slide outline. " +
	"Respond with JSON only, no markdown, in the shape " +
	`{"slides":[{"title":"...","bullets":["..."]}]}.`

// Service - PPT SCRIPT 섹션을 pptx 덱으로 변환하는 어댑터 (pptx job).
// completer가 있으면 LLM JSON 개요를 우선 시도하고, 실패 시 라인 파서로 fallback.
type Service struct {
	completer azureopenai.Completer
	uploader  storage.Uploader
}

func NewService(completer azureopenai.Completer, uploader storage.Uploader) *Service {
	return &Service{
		completer: completer,
		uploader:  uploader,
	}
}

// SynthesizeAndStore - 개요 생성 → pptx 인코딩 → 업로드
func (s *Service) SynthesizeAndStore(ctx context.Context, lecture *model.Lecture, onProgress func(int)) (model.GeneratedArtifact, error) {
	var scriptText string
	if lecture.ScriptText != nil {
		scriptText = *lecture.ScriptText
	}

	text := script.ExtractPpt(scriptText)
	if text == "" {
		return model.GeneratedArtifact{}, &model.EmptyInputError{Section: "PPT"}
	}

	outline := s.buildOutline(ctx, text)

	pptxBytes, err := EncodePptx(outline)
	if err != nil {
		return model.GeneratedArtifact{}, fmt.Errorf("failed to encode pptx: %w", err)
	}

	storagePath := storage.ArtifactPath(lecture.EducatorID, lecture.ID, "lecture.pptx")
	url, err := s.uploader.Upload(ctx, storagePath, pptxBytes,
		"application/vnd.openxmlformats-officedocument.presentationml.presentation")
	if err != nil {
		return model.GeneratedArtifact{}, err
	}

	return model.GeneratedArtifact{URL: url, StoragePath: storagePath}, nil
}

// buildOutline - LLM 개요 우선, 실패 시 로컬 라인 파서
func (s *Service) buildOutline(ctx context.Context, text string) Outline {
	if s.completer != nil {
		outline, err := s.requestOutline(ctx, text)
		if err == nil && len(outline.Slides) > 0 {
			return clampOutline(outline)
		}
		log.Printf("⚠️  LLM outline failed, falling back to line parser: %v", err)
	}

	return parseOutline(text)
}

// requestOutline - JSON 개요 요청. 파싱 실패 시 교정 프롬프트로 1회 재시도.
func (s *Service) requestOutline(ctx context.Context, text string) (Outline, error) {
	raw, err := s.completer.Complete(ctx, outlineSystemPrompt, text)
	if err != nil {
		return Outline{}, err
	}

	outline, parseErr := parseOutlineJSON(raw)
	if parseErr == nil {
		return outline, nil
	}

	log.Printf("⚠️  Malformed outline JSON, retrying with correction: %v", parseErr)

	correction := fmt.Sprintf(
		"Your previous response was not valid JSON (%v). Return ONLY the corrected JSON document, nothing else.\n\nPrevious response:\n%s",
		parseErr, raw)

	raw, err = s.completer.Complete(ctx, outlineSystemPrompt, correction)
	if err != nil {
		return Outline{}, err
	}

	return parseOutlineJSON(raw)
}

// parseOutlineJSON - 코드펜스 제거 후 JSON 파싱
func parseOutlineJSON(raw string) (Outline, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var outline Outline
	if err := json.Unmarshal([]byte(cleaned), &outline); err != nil {
		return Outline{}, err
	}
	if len(outline.Slides) == 0 {
		return Outline{}, fmt.Errorf("outline has no slides")
	}

	return outline, nil
}

// parseOutline - "SLIDE N:" 구분 라인 파서.
// 구분자가 전혀 없으면 전체 텍스트 1장 fallback.
func parseOutline(text string) Outline {
	lines := strings.Split(text, "\n")

	var outline Outline
	var current *Slide

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		if strings.HasPrefix(upper, "SLIDE ") || strings.HasPrefix(upper, "- SLIDE ") {
			if len(outline.Slides) >= maxSlides {
				break
			}
			outline.Slides = append(outline.Slides, Slide{Title: slideTitle(line)})
			current = &outline.Slides[len(outline.Slides)-1]
			continue
		}

		if current != nil {
			bullet := strings.TrimSpace(strings.TrimPrefix(line, "-"))
			if bullet != "" {
				current.Bullets = append(current.Bullets, bullet)
			}
		}
	}

	if len(outline.Slides) == 0 {
		// fallback: 전체 텍스트 1장
		body := text
		if len(body) > maxFallbackLength {
			body = body[:maxFallbackLength]
		}
		outline.Slides = []Slide{{
			Title:   "Lecture Slides",
			Bullets: []string{body},
		}}
	}

	return clampOutline(outline)
}

// slideTitle - "SLIDE 3: Title" → "Title", 제목 없으면 "Slide"
func slideTitle(line string) string {
	title := line
	if idx := strings.Index(line, ":"); idx >= 0 {
		title = line[idx+1:]
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Slide"
	}
	return title
}

// clampOutline - 슬라이드 수 / 제목 / 본문 길이 상한 적용
func clampOutline(outline Outline) Outline {
	if len(outline.Slides) > maxSlides {
		outline.Slides = outline.Slides[:maxSlides]
	}

	for i := range outline.Slides {
		slide := &outline.Slides[i]
		if len(slide.Title) > maxTitleLength {
			slide.Title = slide.Title[:maxTitleLength]
		}

		total := 0
		kept := slide.Bullets[:0]
		for _, b := range slide.Bullets {
			if total+len(b) > maxBodyLength {
				break
			}
			total += len(b)
			kept = append(kept, b)
		}
		slide.Bullets = kept
	}

	return outline
}
