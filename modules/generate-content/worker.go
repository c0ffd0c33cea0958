package generatecontent

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
)

// contentQueue - 비동기 generate-content 요청 큐 (값은 lecture_id)
const contentQueue = "lecture_content:queue"

// EnqueueHandler - POST /api/lectures/{lectureId}/generate-content/enqueue
// 긴 video 합성을 HTTP 요청 수명과 분리하고 싶을 때 사용하는 경로.
type EnqueueHandler struct {
	rdb *redis.Client
}

func NewEnqueueHandler(rdb *redis.Client) *EnqueueHandler {
	return &EnqueueHandler{rdb: rdb}
}

// HandleEnqueue - lecture_id를 Redis 큐에 넣고 바로 응답
func (h *EnqueueHandler) HandleEnqueue(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	lectureID := mux.Vars(r)["lectureId"]
	if lectureID == "" {
		json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: "lectureId is required"})
		return
	}

	log.Printf("📥 [Enqueue] Received lecture_id: %s", lectureID)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := h.rdb.LPush(ctx, contentQueue, lectureID).Result(); err != nil {
		log.Printf("❌ [Enqueue] Redis LPUSH failed: %v", err)
		json.NewEncoder(w).Encode(EnqueueResponse{Success: false, Error: err.Error()})
		return
	}

	queueLen, _ := h.rdb.LLen(ctx, contentQueue).Result()
	log.Printf("✅ [Enqueue] Lecture %s enqueued (position: %d)", lectureID, queueLen)

	json.NewEncoder(w).Encode(EnqueueResponse{
		Success:       true,
		Message:       "Content generation enqueued",
		LectureID:     lectureID,
		Queue:         contentQueue,
		QueuePosition: queueLen,
	})
}

// StartWorker - Redis Queue Worker 시작 (goroutine으로 호출)
func StartWorker(rdb *redis.Client, service *Service) {
	log.Println("🔄 Content generation worker starting...")
	log.Printf("👀 Watching queue: %s", contentQueue)

	ctx := context.Background()

	// 무한 루프로 Queue 감시
	for {
		// BRPOP - Blocking Right Pop
		result, err := rdb.BRPop(ctx, 0, contentQueue).Result()
		if err != nil {
			log.Printf("❌ Redis BRPOP error: %v", err)
			time.Sleep(5 * time.Second)
			continue
		}

		// result[0]은 큐 이름, result[1]이 lecture_id
		lectureID := result[1]
		log.Printf("🎯 Received content generation request: %s", lectureID)

		// 파이프라인 실행 (goroutine으로 비동기; 결과는 ledger에 기록됨)
		go func(id string) {
			if _, err := service.Run(ctx, id); err != nil {
				log.Printf("❌ Queued generation failed for %s: %v", id, err)
			}
		}(lectureID)
	}
}
