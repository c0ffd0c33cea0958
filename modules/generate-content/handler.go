package generatecontent

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
	store   ContentStore
}

func NewHandler(service *Service, store ContentStore) *Handler {
	return &Handler{
		service: service,
		store:   store,
	}
}

// GenerateContent - POST /api/lectures/{lectureId}/generate-content
// Job 생성 전 설정 오류만 500; 그 외에는 Job별 성공/실패를 담아 항상 200.
func (h *Handler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	lectureID := mux.Vars(r)["lectureId"]
	if lectureID == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(GenerateContentResponse{Status: "error", Detail: "lectureId is required"})
		return
	}

	summary, err := h.service.Run(r.Context(), lectureID)
	if err != nil {
		log.Printf("❌ generate-content failed for %s: %v", lectureID, err)
		if IsConfigurationError(err) {
			w.WriteHeader(http.StatusBadRequest)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
		json.NewEncoder(w).Encode(GenerateContentResponse{Status: "error", Detail: err.Error()})
		return
	}

	json.NewEncoder(w).Encode(GenerateContentResponse{
		Status:    "success",
		LectureID: summary.LectureID,
		Jobs:      summary.Jobs,
		Artifacts: summary.Artifacts,
	})
}

// ListJobs - GET /api/lectures/{lectureId}/jobs
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	lectureID := mux.Vars(r)["lectureId"]
	jobs, err := h.store.ListJobs(r.Context(), lectureID)
	if err != nil {
		log.Printf("❌ Failed to list jobs for %s: %v", lectureID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"lecture_id": lectureID,
		"jobs":       jobs,
	})
}

// ListArtifacts - GET /api/lectures/{lectureId}/artifacts
func (h *Handler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	lectureID := mux.Vars(r)["lectureId"]
	artifacts, err := h.store.ListArtifacts(r.Context(), lectureID)
	if err != nil {
		log.Printf("❌ Failed to list artifacts for %s: %v", lectureID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"lecture_id": lectureID,
		"artifacts":  artifacts,
	})
}
