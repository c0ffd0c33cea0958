package generatecontent

import (
	"context"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

// ContentStore - 파이프라인이 사용하는 ledger 접근 (database.Client가 구현)
type ContentStore interface {
	FetchLecture(ctx context.Context, lectureID string) (*model.Lecture, error)
	UpsertJob(ctx context.Context, lectureID string, jobType string, patch map[string]interface{}) (*model.LectureJob, error)
	ListJobs(ctx context.Context, lectureID string) ([]model.LectureJob, error)
	UpsertArtifact(ctx context.Context, lectureID string, artifactType string, fileURL string, storagePath string) error
	ListArtifacts(ctx context.Context, lectureID string) ([]model.LectureArtifact, error)
	UpdateLectureStatus(ctx context.Context, lectureID string, status string) error
}

// Generator - artifact 생성 백엔드 공통 인터페이스 (speech/slides/avatar가 구현)
type Generator interface {
	SynthesizeAndStore(ctx context.Context, lecture *model.Lecture, onProgress func(int)) (model.GeneratedArtifact, error)
}

// ProgressPublisher - Job 진행 이벤트 발행 (WebSocket hub가 구현, nil 허용)
type ProgressPublisher interface {
	Publish(event model.ProgressEvent)
}

// jobSpec - 실행할 Job 1개 (job_type ↔ artifact_type 매핑)
type jobSpec struct {
	JobType      string
	ArtifactType string
}

// JobOutcome - Job 1개의 최종 결과 (tagged result)
type JobOutcome struct {
	JobID   string `json:"job_id"`
	JobType string `json:"job_type"`
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
}

// RunSummary - 파이프라인 실행 요약. Job 생성 이후에는 항상 반환된다
// (부분 실패 포함 - 실패가 형제 Job을 중단시키지 않는다).
type RunSummary struct {
	LectureID string                  `json:"lecture_id"`
	Jobs      []JobOutcome            `json:"jobs"`
	Artifacts []model.LectureArtifact `json:"artifacts"`
}

// GenerateContentResponse - HTTP 응답
type GenerateContentResponse struct {
	Status    string                  `json:"status"`
	LectureID string                  `json:"lecture_id,omitempty"`
	Jobs      []JobOutcome            `json:"jobs,omitempty"`
	Artifacts []model.LectureArtifact `json:"artifacts,omitempty"`
	Detail    string                  `json:"detail,omitempty"`
}

// EnqueueResponse - async enqueue 응답
type EnqueueResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	Error         string `json:"error,omitempty"`
	LectureID     string `json:"lecture_id,omitempty"`
	Queue         string `json:"queue,omitempty"`
	QueuePosition int64  `json:"queuePosition,omitempty"`
}
