package speech

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/config"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/script"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/storage"
)

const (
	defaultVoice = "en-US-AvaMultilingualNeural"
	outputFormat = "audio-16khz-128kbitrate-mono-mp3"
	// Azure TTS 단건 요청 payload 제한에 맞춘 텍스트 길이 상한
	maxTextLength = 8000
)

// Service - Azure TTS 동기 합성 어댑터 (audio job)
type Service struct {
	endpoint string
	apiKey   string
	uploader storage.Uploader
	client   *http.Client
}

func NewService(uploader storage.Uploader) *Service {
	cfg := config.GetConfig()

	return &Service{
		endpoint: fmt.Sprintf("https://%s.tts.speech.microsoft.com/cognitiveservices/v1", cfg.AzureSpeechRegion),
		apiKey:   cfg.AzureSpeechKey,
		uploader: uploader,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// SynthesizeAndStore - AUDIO SCRIPT 섹션을 MP3로 합성 후 업로드
func (s *Service) SynthesizeAndStore(ctx context.Context, lecture *model.Lecture, onProgress func(int)) (model.GeneratedArtifact, error) {
	var scriptText string
	if lecture.ScriptText != nil {
		scriptText = *lecture.ScriptText
	}

	text := script.ExtractAudio(scriptText)
	if text == "" {
		return model.GeneratedArtifact{}, &model.EmptyInputError{Section: "audio"}
	}

	log.Printf("🎙️ Synthesizing audio for lecture %s (%d chars)", lecture.ID, len(text))

	audioBytes, err := s.synthesize(ctx, text)
	if err != nil {
		return model.GeneratedArtifact{}, err
	}

	storagePath := storage.ArtifactPath(lecture.EducatorID, lecture.ID, "audio.mp3")
	url, err := s.uploader.Upload(ctx, storagePath, audioBytes, "audio/mpeg")
	if err != nil {
		return model.GeneratedArtifact{}, err
	}

	return model.GeneratedArtifact{URL: url, StoragePath: storagePath}, nil
}

// synthesize - SSML을 Azure TTS 엔드포인트로 보내고 MP3 바이트 수신
func (s *Service) synthesize(ctx context.Context, text string) ([]byte, error) {
	ssml := buildSSML(text, defaultVoice)

	req, err := http.NewRequestWithContext(ctx, "POST", s.endpoint, bytes.NewBufferString(ssml))
	if err != nil {
		return nil, fmt.Errorf("failed to create TTS request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/ssml+xml")
	req.Header.Set("X-Microsoft-OutputFormat", outputFormat)
	req.Header.Set("User-Agent", "genai-ed-backend")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call Azure TTS: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("Azure TTS error (status %d): %s", resp.StatusCode, string(body))
	}

	audioBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read TTS response: %w", err)
	}

	return audioBytes, nil
}

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// buildSSML - 특수문자 이스케이프 + 길이 상한 적용한 SSML 생성
func buildSSML(text string, voice string) string {
	if len(text) > maxTextLength {
		cut := maxTextLength
		// UTF-8 문자 중간에서 자르지 않기
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}

	return fmt.Sprintf(
		"<speak version='1.0' xml:lang='en-US'><voice xml:lang='en-US' name='%s'>%s</voice></speak>",
		voice, ssmlEscaper.Replace(text))
}
