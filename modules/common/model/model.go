package model

import "time"

// Lecture - lectures 테이블 구조
type Lecture struct {
	ID              string    `json:"id"`
	EducatorID      string    `json:"educator_id"`
	Title           *string   `json:"title"`
	ContentStyle    []string  `json:"content_style"`
	ScriptText      *string   `json:"script_text"`
	ScriptPrompt    *string   `json:"script_prompt"`
	ScriptMode      *string   `json:"script_mode"`
	VideoLength     *int      `json:"video_length"`
	AvatarCharacter *string   `json:"avatar_character"`
	AvatarStyle     *string   `json:"avatar_style"`
	Status          *string   `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// LectureJob - lecture_jobs 테이블 구조 (lecture_id + job_type 기준 upsert)
type LectureJob struct {
	ID           string                 `json:"id"`
	LectureID    string                 `json:"lecture_id"`
	JobType      string                 `json:"job_type"`
	Status       string                 `json:"status"`
	Progress     int                    `json:"progress"`
	Result       map[string]interface{} `json:"result"`
	ErrorMessage *string                `json:"error_message"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// LectureArtifact - lecture_artifacts 테이블 구조 (lecture_id + artifact_type 기준 upsert)
type LectureArtifact struct {
	ID           string    `json:"id"`
	LectureID    string    `json:"lecture_id"`
	ArtifactType string    `json:"artifact_type"`
	FileURL      string    `json:"file_url"`
	// artifact_url은 구버전 UI 호환용으로 file_url과 같은 값을 유지
	ArtifactURL string    `json:"artifact_url"`
	StoragePath *string   `json:"storage_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// LectureMaterial - lecture_materials 테이블 구조 (script 생성 입력)
type LectureMaterial struct {
	MaterialName *string `json:"material_name"`
	MaterialType *string `json:"material_type"`
	MaterialURL  *string `json:"material_url"`
	FileMime     *string `json:"file_mime"`
}

// GeneratedArtifact - Generator가 업로드 후 반환하는 결과
type GeneratedArtifact struct {
	URL         string `json:"url"`
	StoragePath string `json:"storage_path"`
}

// ProgressEvent - WebSocket으로 브로드캐스트되는 Job 진행 이벤트
type ProgressEvent struct {
	LectureID string `json:"lecture_id"`
	JobType   string `json:"job_type"`
	Status    string `json:"status"`
	Progress  int    `json:"progress"`
	Error     string `json:"error,omitempty"`
}

// Job 상태
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// Job 타입
const (
	JobTypeAudio = "audio"
	JobTypePptx  = "pptx"
	JobTypeVideo = "video_avatar"
)

// Artifact 타입
const (
	ArtifactTypeAudio = "audio_mp3"
	ArtifactTypePptx  = "pptx"
	ArtifactTypeVideo = "video_avatar_mp4"
)

// Content style (lectures.content_style 값)
const (
	StyleAudio      = "audio"
	StylePowerpoint = "powerpoint"
	StyleVideo      = "video"
)

// Lecture 상태
const (
	LectureStatusDraft     = "draft"
	LectureStatusGenerated = "generated"
)
