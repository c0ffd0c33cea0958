package main

import (
	"encoding/json"
	"log"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"

	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/config"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/database"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/model"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/redis"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/common/storage"
	generatecontent "github.com/genai4usc-cloud/Backend-Genai-ed/modules/generate-content"
	generatescript "github.com/genai4usc-cloud/Backend-Genai-ed/modules/generate-script"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/progress"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/submodule/avatar"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/submodule/azureopenai"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/submodule/slides"
	"github.com/genai4usc-cloud/Backend-Genai-ed/modules/submodule/speech"
)

// 허용된 프론트엔드 origin 목록
var allowedOrigins = map[string]bool{
	"http://localhost:3000":               true,
	"http://127.0.0.1:3000":               true,
	"https://frontend-genai-ed.vercel.app": true,
}

var webcontainerOriginRe = regexp.MustCompile(`^https://.*\.webcontainer-api\.io$`)

// CORS 미들웨어
func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowedOrigins[origin] || webcontainerOriginRe.MatchString(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// 헬스 체크 엔드포인트
func healthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "healthy",
		"service": "genai-ed-backend",
	})
}

func main() {
	// 환경변수 로드
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	// Supabase 클라이언트 초기화
	dbClient := database.NewClient()
	if dbClient == nil {
		log.Fatal("❌ Failed to initialize database client")
	}

	// Storage (강의 산출물 버킷)
	store := storage.NewClient(dbClient.Supabase(), cfg.LectureBucket)

	// Azure OpenAI
	openaiService := azureopenai.NewService()

	// 생성 백엔드 (job_type → Generator)
	generators := map[string]generatecontent.Generator{
		model.JobTypeAudio: speech.NewService(store),
		model.JobTypePptx:  slides.NewService(openaiService, store),
		model.JobTypeVideo: avatar.NewService(store),
	}

	// 진행 상황 WebSocket hub
	hub := progress.NewHub()

	// 파이프라인 서비스 + 핸들러
	contentService := generatecontent.NewService(dbClient, generators, hub)
	contentHandler := generatecontent.NewHandler(contentService, dbClient)

	scriptService := generatescript.NewService(dbClient, openaiService)
	scriptHandler := generatescript.NewHandler(scriptService)

	// 라우터 설정
	r := mux.NewRouter()
	r.Use(enableCORS)

	r.HandleFunc("/", healthCheck).Methods("GET")
	r.HandleFunc("/health", healthCheck).Methods("GET")
	r.HandleFunc("/api/lectures/{lectureId}/generate-script", scriptHandler.GenerateScript).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/lectures/{lectureId}/generate-content", contentHandler.GenerateContent).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/lectures/{lectureId}/jobs", contentHandler.ListJobs).Methods("GET")
	r.HandleFunc("/api/lectures/{lectureId}/artifacts", contentHandler.ListArtifacts).Methods("GET")
	r.HandleFunc("/ws/lectures/{lectureId}/progress", hub.HandleWS)

	// Redis가 설정된 경우에만 async enqueue + worker 활성화
	if cfg.RedisHost != "" {
		rdb := redis.Connect(cfg)
		if rdb != nil {
			enqueueHandler := generatecontent.NewEnqueueHandler(rdb)
			r.HandleFunc("/api/lectures/{lectureId}/generate-content/enqueue", enqueueHandler.HandleEnqueue).Methods("POST", "OPTIONS")
			go generatecontent.StartWorker(rdb, contentService)
			log.Printf("🔄 Redis queue worker started")
		}
	} else {
		log.Printf("⚠️  Redis not configured - async enqueue disabled")
	}

	log.Printf("🚀 GenAI-Ed Backend starting on port %s", cfg.Port)
	log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)
	log.Printf("📡 Progress WebSocket: ws://localhost:%s/ws/lectures/{lectureId}/progress", cfg.Port)

	// 서버 시작
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
