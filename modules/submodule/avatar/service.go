package avatar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/config"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/script"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/storage"
)

const defaultVoice = "en-US-AvaMultilingualNeural"

// Service - Azure batch avatar synthesis 어댑터 (video job).
// 제출 → 폴링 → 다운로드 → 업로드.
type Service struct {
	baseURL  string
	apiKey   string
	uploader storage.Uploader
	client   *http.Client
	clock    Clock
}

func NewService(uploader storage.Uploader) *Service {
	cfg := config.GetConfig()

	return &Service{
		baseURL:  fmt.Sprintf("https://%s.api.cognitive.microsoft.com", cfg.AzureSpeechRegion),
		apiKey:   cfg.AzureSpeechKey,
		uploader: uploader,
		client: &http.Client{
			Timeout: 180 * time.Second,
		},
		clock: realClock{},
	}
}

// SynthesizeAndStore - VIDEO SCRIPT 섹션으로 아바타 영상 합성 후 업로드
func (s *Service) SynthesizeAndStore(ctx context.Context, lecture *model.Lecture, onProgress func(int)) (model.GeneratedArtifact, error) {
	var scriptText string
	if lecture.ScriptText != nil {
		scriptText = *lecture.ScriptText
	}

	text := script.ExtractVideo(scriptText)
	if text == "" {
		return model.GeneratedArtifact{}, &model.EmptyInputError{Section: "video"}
	}

	if lecture.AvatarCharacter == nil || *lecture.AvatarCharacter == "" ||
		lecture.AvatarStyle == nil || *lecture.AvatarStyle == "" {
		return model.GeneratedArtifact{}, &model.ConfigurationError{
			Reason: "lecture missing avatar_character/avatar_style",
		}
	}

	synthesisID := SanitizeSynthesisID(lecture.ID)
	log.Printf("🎬 Submitting avatar batch synthesis: %s", synthesisID)

	if err := s.submit(ctx, synthesisID, text, *lecture.AvatarCharacter, *lecture.AvatarStyle); err != nil {
		return model.GeneratedArtifact{}, err
	}

	poller := &Poller{
		fetch: func(ctx context.Context) (*SynthesisStatus, error) {
			return s.pollStatus(ctx, synthesisID)
		},
		clock:    s.clock,
		interval: 2 * time.Second,
	}

	resultURL, err := poller.Await(ctx, onProgress)
	if err != nil {
		return model.GeneratedArtifact{}, err
	}

	log.Printf("📥 Downloading synthesized video: %s", synthesisID)
	videoBytes, err := s.download(ctx, resultURL)
	if err != nil {
		return model.GeneratedArtifact{}, err
	}

	storagePath := storage.ArtifactPath(lecture.EducatorID, lecture.ID, "video_avatar.mp4")
	url, err := s.uploader.Upload(ctx, storagePath, videoBytes, "video/mp4")
	if err != nil {
		return model.GeneratedArtifact{}, err
	}

	return model.GeneratedArtifact{URL: url, StoragePath: storagePath}, nil
}

// submit - PUT /avatar/batchsyntheses/{id} (create-or-replace, 멱등)
func (s *Service) submit(ctx context.Context, synthesisID string, text string, character string, style string) error {
	url := fmt.Sprintf("%s/avatar/batchsyntheses/%s?api-version=%s", s.baseURL, synthesisID, apiVersion)

	payload := synthesisRequest{
		InputKind: "SSML",
		Inputs:    []synthesisInput{{Content: toSSML(text)}},
		AvatarConfig: map[string]string{
			"talkingAvatarCharacter": character,
			"talkingAvatarStyle":     style,
		},
	}

	reqBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal synthesis request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("failed to create synthesis request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit synthesis: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("synthesis submit error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

// pollStatus - GET /avatar/batchsyntheses/{id}.
// GET은 멱등이므로 일시 오류에 한해 3회까지 짧은 backoff로 재시도.
func (s *Service) pollStatus(ctx context.Context, synthesisID string) (*SynthesisStatus, error) {
	url := fmt.Sprintf("%s/avatar/batchsyntheses/%s?api-version=%s", s.baseURL, synthesisID, apiVersion)

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		if attempt > 0 {
			if err := s.clock.Sleep(ctx, time.Duration(attempt)*time.Second); err != nil {
				return nil, err
			}
		}

		status, err := s.pollOnce(ctx, url)
		if err == nil {
			return status, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		log.Printf("⚠️  Poll attempt %d failed for %s: %v", attempt+1, synthesisID, err)
	}

	return nil, fmt.Errorf("failed to poll synthesis status: %w", lastErr)
}

func (s *Service) pollOnce(ctx context.Context, url string) (*SynthesisStatus, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, string(body))
	}

	var status SynthesisStatus
	if err := json.Unmarshal(body, &status); err != nil {
		return nil, fmt.Errorf("failed to parse status response: %w", err)
	}
	status.Raw = string(body)

	return &status, nil
}

// download - 합성 결과 다운로드 (폴링과 같은 자격증명 사용)
func (s *Service) download(ctx context.Context, resultURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", resultURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create download request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &model.StorageError{Op: "download", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &model.StorageError{
			Op:  "download",
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, string(body)),
		}
	}

	videoBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &model.StorageError{Op: "download", Err: err}
	}

	return videoBytes, nil
}

var ssmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

func toSSML(text string) string {
	return fmt.Sprintf(
		"<speak version='1.0' xml:lang='en-US'><voice name='%s'>%s</voice></speak>",
		defaultVoice, ssmlEscaper.Replace(text))
}
