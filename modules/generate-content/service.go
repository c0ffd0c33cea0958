package generatecontent

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
)

// Service - 강의 콘텐츠 생성 파이프라인 오케스트레이터.
// 스타일 선택에서 Job 집합을 계산하고, Job별로 독립 실행하며,
// 전체 결과를 집계해 lecture 상태를 갱신한다.
type Service struct {
	store      ContentStore
	generators map[string]Generator // job_type → Generator
	publisher  ProgressPublisher    // nil 허용
}

func NewService(store ContentStore, generators map[string]Generator, publisher ProgressPublisher) *Service {
	return &Service{
		store:      store,
		generators: generators,
		publisher:  publisher,
	}
}

// Run - 파이프라인 실행.
// ConfigurationError(Job 생성 전 전제조건 위반)일 때만 error 반환;
// Job이 만들어진 뒤에는 부분 실패여도 항상 RunSummary를 반환한다.
func (s *Service) Run(ctx context.Context, lectureID string) (*RunSummary, error) {
	log.Printf("🚀 Starting content generation for lecture: %s", lectureID)

	lecture, err := s.store.FetchLecture(ctx, lectureID)
	if err != nil {
		return nil, &model.ConfigurationError{Reason: fmt.Sprintf("lecture not found: %v", err)}
	}

	if lecture.ScriptText == nil || strings.TrimSpace(*lecture.ScriptText) == "" {
		return nil, &model.ConfigurationError{Reason: "lecture has no script_text; generate script first"}
	}

	specs, err := s.computeJobSet(lecture)
	if err != nil {
		return nil, err
	}

	// Job row들을 queued로 리셋/생성 (멱등 - 재실행 시 덮어쓰기)
	jobIDs := make(map[string]string, len(specs))
	for _, spec := range specs {
		job, err := s.store.UpsertJob(ctx, lectureID, spec.JobType, map[string]interface{}{
			"status":        model.JobStatusQueued,
			"progress":      0,
			"result":        map[string]interface{}{},
			"error_message": nil,
		})
		if err != nil {
			return nil, &model.ConfigurationError{Reason: fmt.Sprintf("failed to create job %s: %v", spec.JobType, err)}
		}
		jobIDs[spec.JobType] = job.ID
		s.publish(lectureID, spec.JobType, model.JobStatusQueued, 0, "")
	}

	// Job별 병렬 실행. 각 goroutine은 자기 Job row와 자기 outcome 슬롯만 쓴다.
	outcomes := make([]JobOutcome, len(specs))
	var wg sync.WaitGroup

	for i, spec := range specs {
		wg.Add(1)
		go func(idx int, spec jobSpec) {
			defer wg.Done()
			outcomes[idx] = s.runJob(ctx, lecture, spec, jobIDs[spec.JobType])
		}(i, spec)
	}

	log.Printf("⏳ Waiting for %d jobs to complete...", len(specs))
	wg.Wait()

	// 집계: artifact가 하나라도 있으면 lecture를 generated로
	artifacts, err := s.store.ListArtifacts(ctx, lectureID)
	if err != nil {
		log.Printf("⚠️  Failed to list artifacts: %v", err)
		artifacts = nil
	}

	anyURL := false
	for _, a := range artifacts {
		if a.FileURL != "" {
			anyURL = true
			break
		}
	}
	if anyURL {
		if err := s.store.UpdateLectureStatus(ctx, lectureID, model.LectureStatusGenerated); err != nil {
			log.Printf("⚠️  Failed to update lecture status: %v", err)
		}
	}

	log.Printf("🏁 Content generation finished for lecture %s (%d jobs, %d artifacts)",
		lectureID, len(outcomes), len(artifacts))

	return &RunSummary{
		LectureID: lectureID,
		Jobs:      outcomes,
		Artifacts: artifacts,
	}, nil
}

// computeJobSet - content_style에서 실행할 Job 집합 계산.
// video는 avatar 필드가 모두 있어야 하고, 선택된 스타일이 없으면 ConfigurationError.
func (s *Service) computeJobSet(lecture *model.Lecture) ([]jobSpec, error) {
	var specs []jobSpec

	for _, style := range lecture.ContentStyle {
		switch strings.ToLower(strings.TrimSpace(style)) {
		case model.StyleAudio:
			specs = append(specs, jobSpec{JobType: model.JobTypeAudio, ArtifactType: model.ArtifactTypeAudio})
		case model.StylePowerpoint:
			specs = append(specs, jobSpec{JobType: model.JobTypePptx, ArtifactType: model.ArtifactTypePptx})
		case model.StyleVideo:
			if lecture.AvatarCharacter == nil || *lecture.AvatarCharacter == "" ||
				lecture.AvatarStyle == nil || *lecture.AvatarStyle == "" {
				return nil, &model.ConfigurationError{
					Reason: "lecture missing avatar_character/avatar_style",
				}
			}
			specs = append(specs, jobSpec{JobType: model.JobTypeVideo, ArtifactType: model.ArtifactTypeVideo})
		}
	}

	if len(specs) == 0 {
		return nil, &model.ConfigurationError{Reason: "no content style selected"}
	}

	return specs, nil
}

// runJob - Job 1개 실행. 모든 오류는 여기서 잡혀 failed row + outcome으로
// 변환되고 절대 형제 Job으로 전파되지 않는다.
func (s *Service) runJob(ctx context.Context, lecture *model.Lecture, spec jobSpec, jobID string) JobOutcome {
	log.Printf("🎯 Running job %s for lecture %s", spec.JobType, lecture.ID)

	s.updateJob(ctx, lecture.ID, spec.JobType, map[string]interface{}{
		"status":        model.JobStatusRunning,
		"progress":      10,
		"result":        map[string]interface{}{},
		"error_message": nil,
	})
	s.publish(lecture.ID, spec.JobType, model.JobStatusRunning, 10, "")

	generator, ok := s.generators[spec.JobType]
	if !ok {
		return s.failJob(ctx, lecture.ID, spec, jobID,
			fmt.Errorf("no generator registered for job type %s", spec.JobType))
	}

	onProgress := func(pct int) {
		s.updateJob(ctx, lecture.ID, spec.JobType, map[string]interface{}{
			"status":   model.JobStatusRunning,
			"progress": pct,
		})
		s.publish(lecture.ID, spec.JobType, model.JobStatusRunning, pct, "")
	}

	artifact, err := generator.SynthesizeAndStore(ctx, lecture, onProgress)
	if err != nil {
		return s.failJob(ctx, lecture.ID, spec, jobID, err)
	}

	// 성공 시에만 artifact upsert (실패 시 artifact는 절대 쓰지 않는다)
	if err := s.store.UpsertArtifact(ctx, lecture.ID, spec.ArtifactType, artifact.URL, artifact.StoragePath); err != nil {
		return s.failJob(ctx, lecture.ID, spec, jobID, err)
	}

	s.updateJob(ctx, lecture.ID, spec.JobType, map[string]interface{}{
		"status":   model.JobStatusSucceeded,
		"progress": 100,
	})
	s.publish(lecture.ID, spec.JobType, model.JobStatusSucceeded, 100, "")

	log.Printf("✅ Job %s succeeded for lecture %s", spec.JobType, lecture.ID)
	return JobOutcome{JobID: jobID, JobType: spec.JobType, Status: model.JobStatusSucceeded}
}

// failJob - Job을 failed 종료 상태로 기록
func (s *Service) failJob(ctx context.Context, lectureID string, spec jobSpec, jobID string, jobErr error) JobOutcome {
	log.Printf("❌ Job %s failed for lecture %s: %v", spec.JobType, lectureID, jobErr)

	s.updateJob(ctx, lectureID, spec.JobType, map[string]interface{}{
		"status":        model.JobStatusFailed,
		"progress":      100,
		"result":        map[string]interface{}{"error": jobErr.Error()},
		"error_message": jobErr.Error(),
	})
	s.publish(lectureID, spec.JobType, model.JobStatusFailed, 100, jobErr.Error())

	return JobOutcome{
		JobID:   jobID,
		JobType: spec.JobType,
		Status:  model.JobStatusFailed,
		Error:   jobErr.Error(),
	}
}

// updateJob - ledger 쓰기 (실패해도 파이프라인은 계속)
func (s *Service) updateJob(ctx context.Context, lectureID string, jobType string, patch map[string]interface{}) {
	if _, err := s.store.UpsertJob(ctx, lectureID, jobType, patch); err != nil {
		log.Printf("⚠️  Failed to update job %s/%s: %v", lectureID, jobType, err)
	}
}

func (s *Service) publish(lectureID string, jobType string, status string, progress int, errMsg string) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(model.ProgressEvent{
		LectureID: lectureID,
		JobType:   jobType,
		Status:    status,
		Progress:  progress,
		Error:     errMsg,
	})
}

// IsConfigurationError - handler의 상태 코드 매핑용
func IsConfigurationError(err error) bool {
	var cfgErr *model.ConfigurationError
	return errors.As(err, &cfgErr)
}
