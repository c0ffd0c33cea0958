package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/supabase-community/supabase-go"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/config"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

type Client struct {
	supabase *supabase.Client
}

// NewClient - Database 클라이언트 생성
func NewClient() *Client {
	cfg := config.GetConfig()

	supabaseClient, err := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, &supabase.ClientOptions{})
	if err != nil {
		log.Printf("❌ Failed to create Supabase client: %v", err)
		return nil
	}

	return &Client{
		supabase: supabaseClient,
	}
}

// Supabase - 내부 supabase 클라이언트 (storage 모듈이 공유)
func (c *Client) Supabase() *supabase.Client {
	return c.supabase
}

// FetchLecture - lectures 테이블에서 강의 설정 조회
func (c *Client) FetchLecture(ctx context.Context, lectureID string) (*model.Lecture, error) {
	log.Printf("🔍 Fetching lecture from Supabase: %s", lectureID)

	var lectures []model.Lecture

	data, _, err := c.supabase.From("lectures").
		Select("*", "exact", false).
		Eq("id", lectureID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query lectures: %w", err)
	}

	if err := json.Unmarshal(data, &lectures); err != nil {
		return nil, fmt.Errorf("failed to parse lecture response: %w", err)
	}

	if len(lectures) == 0 {
		return nil, fmt.Errorf("lecture not found: %s", lectureID)
	}

	return &lectures[0], nil
}

// UpdateLectureStatus - lectures.status 업데이트
func (c *Client) UpdateLectureStatus(ctx context.Context, lectureID string, status string) error {
	log.Printf("📝 Updating lecture %s status to: %s", lectureID, status)

	_, _, err := c.supabase.From("lectures").
		Update(map[string]interface{}{"status": status}, "", "").
		Eq("id", lectureID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to update lecture status: %w", err)
	}

	return nil
}

// UpdateLectureScript - script 생성 결과 저장
func (c *Client) UpdateLectureScript(ctx context.Context, lectureID string, scriptText string) error {
	log.Printf("📝 Saving generated script for lecture %s (%d chars)", lectureID, len(scriptText))

	updateData := map[string]interface{}{
		"script_text": scriptText,
		"script_mode": "ai",
		"status":      model.LectureStatusDraft,
	}

	_, _, err := c.supabase.From("lectures").
		Update(updateData, "", "").
		Eq("id", lectureID).
		Execute()

	if err != nil {
		return fmt.Errorf("failed to save lecture script: %w", err)
	}

	return nil
}

// FetchMaterials - lecture_materials 테이블에서 자료 목록 조회
func (c *Client) FetchMaterials(ctx context.Context, lectureID string) ([]model.LectureMaterial, error) {
	var materials []model.LectureMaterial

	data, _, err := c.supabase.From("lecture_materials").
		Select("material_name, material_type, material_url, file_mime", "exact", false).
		Eq("lecture_id", lectureID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query lecture_materials: %w", err)
	}

	if err := json.Unmarshal(data, &materials); err != nil {
		return nil, fmt.Errorf("failed to parse materials response: %w", err)
	}

	return materials, nil
}

// UpsertJob - (lecture_id, job_type) 기준 lookup-then-upsert.
// 기존 row가 있으면 patch로 부분 업데이트, 없으면 patch를 병합해 insert.
// 같은 강의를 다시 실행해도 row가 중복되지 않는다.
func (c *Client) UpsertJob(ctx context.Context, lectureID string, jobType string, patch map[string]interface{}) (*model.LectureJob, error) {
	var jobs []model.LectureJob

	data, _, err := c.supabase.From("lecture_jobs").
		Select("*", "exact", false).
		Eq("lecture_id", lectureID).
		Eq("job_type", jobType).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query lecture_jobs: %w", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse jobs response: %w", err)
	}

	if len(jobs) > 0 {
		// 기존 Job 부분 업데이트
		updateData := make(map[string]interface{}, len(patch)+1)
		for k, v := range patch {
			updateData[k] = v
		}
		updateData["updated_at"] = "now()"

		_, _, err := c.supabase.From("lecture_jobs").
			Update(updateData, "", "").
			Eq("lecture_id", lectureID).
			Eq("job_type", jobType).
			Execute()

		if err != nil {
			return nil, fmt.Errorf("failed to update job: %w", err)
		}

		job := jobs[0]
		applyJobPatch(&job, patch)
		return &job, nil
	}

	// 신규 Job insert (key 필드 + patch 병합)
	insertData := map[string]interface{}{
		"id":         uuid.New().String(),
		"lecture_id": lectureID,
		"job_type":   jobType,
		"status":     model.JobStatusQueued,
		"progress":   0,
	}
	for k, v := range patch {
		insertData[k] = v
	}

	inserted, _, err := c.supabase.From("lecture_jobs").
		Insert(insertData, false, "", "", "").
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to insert job: %w", err)
	}

	var insertedJobs []model.LectureJob
	if err := json.Unmarshal(inserted, &insertedJobs); err != nil {
		return nil, fmt.Errorf("failed to parse inserted job: %w", err)
	}
	if len(insertedJobs) == 0 {
		return nil, fmt.Errorf("no job record returned for %s/%s", lectureID, jobType)
	}

	return &insertedJobs[0], nil
}

// applyJobPatch - 로컬 복사본에 patch 반영 (호출자에게 최신 상태 반환용)
func applyJobPatch(job *model.LectureJob, patch map[string]interface{}) {
	if v, ok := patch["status"].(string); ok {
		job.Status = v
	}
	if v, ok := patch["progress"].(int); ok {
		job.Progress = v
	}
	if v, ok := patch["result"].(map[string]interface{}); ok {
		job.Result = v
	}
	if v, ok := patch["error_message"]; ok {
		if s, ok := v.(string); ok {
			job.ErrorMessage = &s
		} else {
			job.ErrorMessage = nil
		}
	}
}

// ListJobs - 강의의 전체 Job 목록 조회
func (c *Client) ListJobs(ctx context.Context, lectureID string) ([]model.LectureJob, error) {
	var jobs []model.LectureJob

	data, _, err := c.supabase.From("lecture_jobs").
		Select("*", "exact", false).
		Eq("lecture_id", lectureID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query lecture_jobs: %w", err)
	}

	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("failed to parse jobs response: %w", err)
	}

	return jobs, nil
}

// UpsertArtifact - (lecture_id, artifact_type) 기준 upsert.
// 재실행 시 이전 artifact를 덮어쓴다 (누적 없음).
func (c *Client) UpsertArtifact(ctx context.Context, lectureID string, artifactType string, fileURL string, storagePath string) error {
	log.Printf("💾 Upserting artifact %s for lecture %s", artifactType, lectureID)

	payload := map[string]interface{}{
		"lecture_id":    lectureID,
		"artifact_type": artifactType,
		// file_url + artifact_url 둘 다 유지 (구버전 UI 호환)
		"file_url":     fileURL,
		"artifact_url": fileURL,
		"storage_path": storagePath,
	}

	_, _, err := c.supabase.From("lecture_artifacts").
		Insert(payload, true, "lecture_id,artifact_type", "", "").
		Execute()

	if err != nil {
		return fmt.Errorf("failed to upsert artifact: %w", err)
	}

	log.Printf("✅ Artifact %s upserted: %s", artifactType, fileURL)
	return nil
}

// ListArtifacts - 강의의 전체 Artifact 목록 조회
func (c *Client) ListArtifacts(ctx context.Context, lectureID string) ([]model.LectureArtifact, error) {
	var artifacts []model.LectureArtifact

	data, _, err := c.supabase.From("lecture_artifacts").
		Select("*", "exact", false).
		Eq("lecture_id", lectureID).
		Execute()

	if err != nil {
		return nil, fmt.Errorf("failed to query lecture_artifacts: %w", err)
	}

	if err := json.Unmarshal(data, &artifacts); err != nil {
		return nil, fmt.Errorf("failed to parse artifacts response: %w", err)
	}

	return artifacts, nil
}
