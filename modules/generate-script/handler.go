package generatescript

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GenerateScript - POST /api/lectures/{lectureId}/generate-script
func (h *Handler) GenerateScript(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lectureID := vars["lectureId"]

	w.Header().Set("Content-Type", "application/json")

	if lectureID == "" {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "error",
			"detail": "lectureId is required",
		})
		return
	}

	scriptText, err := h.service.Generate(r.Context(), lectureID)
	if err != nil {
		log.Printf("❌ Script generation failed for %s: %v", lectureID, err)
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status": "error",
			"detail": err.Error(),
		})
		return
	}

	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "success",
		"script": scriptText,
	})
}
